package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magpie-sh/magpie/internal/core"
)

var installCmd = &cobra.Command{
	Use:   "install [skills|subagents]",
	Short: "Start the interactive installer",
	Long: `Start the interactive installer, the same flow the bare command
runs. Naming a kind skips the first step:

  magpie install skills
  magpie install subagents`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runWizard(nil)
		}
		kind, err := parseKindArg(args[0])
		if err != nil {
			return err
		}
		return runWizard(&kind)
	},
}

func parseKindArg(arg string) (core.ResourceKind, error) {
	switch arg {
	case "skill", "skills":
		return core.KindSkill, nil
	case "subagent", "subagents", "agent", "agents":
		return core.KindSubagent, nil
	}
	return 0, fmt.Errorf("unknown kind %q (want skills or subagents)", arg)
}

func init() {
	rootCmd.AddCommand(installCmd)
}
