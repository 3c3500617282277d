package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magpie-sh/magpie/internal/core"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the config file location and effective settings",
	Long: `Print where magpie reads its configuration from and the settings
currently in effect. The file is JSONC: comments and trailing commas
are allowed.

Settings:
  gitProtocol         "https" (default) or "ssh" for catalog clones
  disableUpdateCheck  skip the upstream update annotations
  catalogBaseURL      override the content API endpoint`,
	RunE: func(cmd *cobra.Command, args []string) error {
		manager := core.NewConfigManager()
		cfg, err := manager.Load()
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(cfg.Settings, "", "  ")
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", manager.ConfigPath())
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
