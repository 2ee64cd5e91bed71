// Package main is the entry point for the spool CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spooldev/spool/internal/app"
	"github.com/spooldev/spool/internal/cli"
	"github.com/spooldev/spool/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	container, err := app.New(cwd)
	if err != nil {
		// No store yet. Run with a nil container so init, help and
		// version still work; every store-bound command reports
		// ErrNotInitialized on its own.
		if errors.Is(err, domain.ErrNotInitialized) {
			return cli.NewRootCommand(nil, version).Execute()
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}

	return cli.NewRootCommand(container, version).Execute()
}
