// Package cli provides the command-line interface for spool.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/spooldev/spool/internal/app"
	"github.com/spooldev/spool/internal/domain"
)

// Command group IDs.
const (
	groupSetup       = "setup"
	groupTask        = "task"
	groupQuery       = "query"
	groupMaintenance = "maintenance"
)

// NewRootCommand creates the root command for spool.
// It receives the container for dependency injection and version for
// display. The container may be nil when no store exists yet; only
// init, help and version work in that state.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "spool",
		Short: "Git-native task tracker",
		Long: `spool tracks tasks as append-only event logs that live in your
repository and merge like code. Task state is derived by replaying
events; caches are disposable and rebuilt on demand.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupQuery, Title: "Query Commands:"},
		&cobra.Group{ID: groupMaintenance, Title: "Maintenance Commands:"},
	)

	initCmd := newInitCommand()
	initCmd.GroupID = groupSetup

	root.AddCommand(initCmd)

	for _, cmd := range []*cobra.Command{
		newNewCommand(c),
		newUpdateCommand(c),
		newAssignCommand(c),
		newUnassignCommand(c),
		newCommentCommand(c),
		newLinkCommand(c),
		newUnlinkCommand(c),
		newStreamCommand(c),
		newCompleteCommand(c),
		newReopenCommand(c),
		newImportCommand(c),
	} {
		cmd.GroupID = groupTask
		root.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		newListCommand(c),
		newShowCommand(c),
		newHistoryCommand(c),
		newTUICommand(c),
	} {
		cmd.GroupID = groupQuery
		root.AddCommand(cmd)
	}

	for _, cmd := range []*cobra.Command{
		newRebuildCommand(c),
		newArchiveCommand(c),
		newValidateCommand(c),
	} {
		cmd.GroupID = groupMaintenance
		root.AddCommand(cmd)
	}

	return root
}

// requireStore guards commands that need an initialized store.
func requireStore(c *app.Container) error {
	if c == nil {
		return domain.ErrNotInitialized
	}
	return nil
}
