package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/magpie-sh/magpie/cmd/magpie/cmd"
	"github.com/magpie-sh/magpie/internal/core"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, core.ErrUserCancelled) {
			fmt.Println("Cancelled.")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
