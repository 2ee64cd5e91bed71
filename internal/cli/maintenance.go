package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spooldev/spool/internal/app"
	"github.com/spooldev/spool/internal/domain"
	"github.com/spooldev/spool/internal/usecase"
)

// newRebuildCommand creates the rebuild command.
func newRebuildCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Discard the caches and replay the full event log",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.RebuildUseCase().Execute(cmd.Context(), usecase.RebuildInput{})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt state for %d tasks\n", out.TaskCount)
			for _, d := range out.Diagnostics {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", d)
			}
			return nil
		},
	}
}

// newArchiveCommand creates the archive command.
func newArchiveCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Days   int
		DryRun bool
	}

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Move long-completed tasks into monthly archive files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.ArchiveTasksUseCase().Execute(cmd.Context(), usecase.ArchiveTasksInput{
				Days:   opts.Days,
				DryRun: opts.DryRun,
			})
			if err != nil {
				return err
			}

			if len(out.TaskIDs) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing to archive")
				return nil
			}
			verb := "Archived"
			if out.DryRun {
				verb = "Would archive"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d tasks into %s\n",
				verb, len(out.TaskIDs), strings.Join(out.Months, ", "))
			for _, id := range out.TaskIDs {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", shortID(id))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Days, "days", 0, "Minimum completion age in days (default from config)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report what would move without writing")

	return cmd
}

// newValidateCommand creates the validate command.
func newValidateCommand(c *app.Container) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Audit the raw event logs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.ValidateUseCase().Execute(cmd.Context(), usecase.ValidateInput{Strict: strict})
			if err != nil {
				return err
			}

			for _, d := range out.Diagnostics {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", d.Severity, d)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d errors, %d warnings, %d advisories\n",
				out.Errors, out.Warnings, out.Advisories)

			if out.Failed {
				return domain.ErrValidationFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")
	return cmd
}
