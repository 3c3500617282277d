package cmd

import (
	"fmt"
	"os"

	"github.com/magpie-sh/magpie/internal/core"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	config    *core.ConfigManager
	cfg       *core.Config
	catalog   *core.CatalogClient
	inspector *core.Inspector
	applier   *core.Applier
	updates   *core.UpdateChecker
	workDir   string
}

// newDeps creates shared dependencies. Called lazily by commands that
// need them; fails fast when git is missing, since every install path
// goes through it.
func newDeps() (*deps, error) {
	manager := core.NewConfigManager()
	cfg, err := manager.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	git := core.NewGitRunner()
	if err := git.Available(); err != nil {
		return nil, err
	}

	var catalogOpts []core.CatalogOption
	if cfg.Settings.CatalogBaseURL != "" {
		catalogOpts = append(catalogOpts, core.WithBaseURL(cfg.Settings.CatalogBaseURL))
	}

	protocol := cfg.Settings.GitProtocol
	applier := core.NewApplier(git, core.WithRemoteURL(func(kind core.ResourceKind) string {
		return core.CatalogCloneURL(kind, protocol)
	}))

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	return &deps{
		config:    manager,
		cfg:       cfg,
		catalog:   core.NewCatalogClient(catalogOpts...),
		inspector: core.NewInspector(),
		applier:   applier,
		updates:   core.NewUpdateChecker(git),
		workDir:   workDir,
	}, nil
}
