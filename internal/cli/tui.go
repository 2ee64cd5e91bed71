package cli

import (
	"github.com/spf13/cobra"

	"github.com/spooldev/spool/internal/app"
	"github.com/spooldev/spool/internal/tui/browser"
)

// newTUICommand creates the tui command for launching the task browser.
func newTUICommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Launch the interactive task browser",
		Long:  `Launch the interactive terminal task browser with filtering and a detail pane.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			return browser.Run(c)
		},
	}
	return cmd
}
