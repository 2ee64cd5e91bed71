package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spooldev/spool/internal/infra/eventlog"
	"github.com/spooldev/spool/internal/usecase"
)

// newInitCommand creates the init command. It does not need a container
// because it runs before any store exists.
func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a spool store in the current directory",
		Long: `Initialize a spool store.

Creates the .spool/ directory with:
- events/: daily append-only event logs
- archive/: monthly archive partitions
- .gitignore: excludes the derived cache and log files

Commit .spool/ alongside your code; the event logs merge like any
other text files.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get current directory: %w", err)
			}

			uc := usecase.NewInitStore(eventlog.Init)
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{Dir: cwd})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Initialized spool store in %s\n", out.Root)
			return nil
		},
	}
}
