package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/magpie-sh/magpie/internal/core"
	"github.com/magpie-sh/magpie/internal/tui"
)

// Version info set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "magpie",
	Short: "Install Claude skills and subagents into your project",
	Long: `Magpie installs skills and subagents from their public catalogs
into a project, as git sparse checkouts that can be updated later.

Run it with no arguments to start the interactive installer: pick a
kind, pick a location, select items, done. Re-running it against an
existing installation lets you add, remove, and update items.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetBool("version"); v {
			printVersion()
			return nil
		}
		return runWizard(nil)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion()
	},
}

func printVersion() {
	fmt.Printf("magpie %s (commit: %s, built: %s)\n", Version, Commit, Date)
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
	rootCmd.AddCommand(versionCmd)
}

// runWizard launches the interactive installer, optionally skipping
// the kind selection step.
func runWizard(kind *core.ResourceKind) error {
	// Bubbletea needs a real terminal; fail fast with a clear message
	// when output is piped.
	if fi, err := os.Stdout.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
		return fmt.Errorf("magpie is interactive; run it from a terminal")
	}

	d, err := newDeps()
	if err != nil {
		return err
	}

	return tui.Run(tui.Deps{
		Catalog:     d.catalog,
		Inspector:   d.inspector,
		Applier:     d.applier,
		Updates:     d.updates,
		Config:      d.cfg,
		WorkDir:     d.workDir,
		InitialKind: kind,
	})
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
