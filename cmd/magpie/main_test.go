package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/magpie-sh/magpie/cmd/magpie/cmd"
	"github.com/magpie-sh/magpie/internal/core"
)

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"magpie": func() {
			if err := cmd.Execute(); err != nil {
				if errors.Is(err, core.ErrUserCancelled) {
					fmt.Println("Cancelled.")
					return
				}
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	})
}

func TestScript(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:                 filepath.Join("testdata", "script"),
		RequireExplicitExec: true,
		Setup: func(e *testscript.Env) error {
			// Keep config reads and writes inside the temp dir.
			e.Vars = append(e.Vars,
				"HOME="+e.WorkDir,
				"XDG_CONFIG_HOME="+filepath.Join(e.WorkDir, ".config"),
			)
			return nil
		},
	})
}
