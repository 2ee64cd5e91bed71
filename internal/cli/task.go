package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spooldev/spool/internal/app"
	"github.com/spooldev/spool/internal/usecase"
)

// shortID trims a task ID for display. Full IDs stay in the logs and in
// json output; commands accept any unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// newNewCommand creates the new command.
func newNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Description string
		Priority    string
		Assignee    string
		Stream      string
		Parent      string
		Tags        []string
	}

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.NewTaskUseCase().Execute(cmd.Context(), usecase.NewTaskInput{
				Title:       strings.Join(args, " "),
				Description: opts.Description,
				Priority:    opts.Priority,
				Assignee:    opts.Assignee,
				Stream:      opts.Stream,
				Parent:      opts.Parent,
				Tags:        opts.Tags,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s\n", shortID(out.TaskID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Task description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Priority (p0..p3)")
	cmd.Flags().StringVarP(&opts.Assignee, "assignee", "a", "", "Initial assignee")
	cmd.Flags().StringVarP(&opts.Stream, "stream", "s", "", "Workstream")
	cmd.Flags().StringVar(&opts.Parent, "parent", "", "Parent task ID")
	cmd.Flags().StringSliceVarP(&opts.Tags, "tag", "t", nil, "Tag (repeatable)")

	return cmd
}

// newUpdateCommand creates the update command.
func newUpdateCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Priority    string
		Tags        []string
	}

	cmd := &cobra.Command{
		Use:   "update <task>",
		Short: "Update task fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}

			fields := make(map[string]any)
			if cmd.Flags().Changed("title") {
				fields["title"] = opts.Title
			}
			if cmd.Flags().Changed("description") {
				fields["description"] = opts.Description
			}
			if cmd.Flags().Changed("priority") {
				fields["priority"] = opts.Priority
			}
			if cmd.Flags().Changed("tag") {
				fields["tags"] = opts.Tags
			}

			out, err := c.UpdateTaskUseCase().Execute(cmd.Context(), usecase.UpdateTaskInput{
				TaskID: args[0],
				Fields: fields,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", shortID(out.TaskID))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "New priority (p0..p3)")
	cmd.Flags().StringSliceVarP(&opts.Tags, "tag", "t", nil, "Replacement tag set (repeatable)")

	return cmd
}

// newAssignCommand creates the assign command.
func newAssignCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <task> <assignee>",
		Short: "Assign a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.AssignTaskUseCase().Execute(cmd.Context(), usecase.AssignTaskInput{
				TaskID:   args[0],
				Assignee: args[1],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s\n", shortID(out.TaskID), out.Assignee)
			return nil
		},
	}
}

// newUnassignCommand creates the unassign command.
func newUnassignCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <task>",
		Short: "Clear a task's assignee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.AssignTaskUseCase().Execute(cmd.Context(), usecase.AssignTaskInput{
				TaskID: args[0],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unassigned %s\n", shortID(out.TaskID))
			return nil
		},
	}
}

// newCommentCommand creates the comment command.
func newCommentCommand(c *app.Container) *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:   "comment <task> <body>",
		Short: "Add a comment to a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.CommentTaskUseCase().Execute(cmd.Context(), usecase.CommentTaskInput{
				TaskID: args[0],
				Body:   strings.Join(args[1:], " "),
				Ref:    ref,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Commented on %s\n", shortID(out.TaskID))
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "ref", "", "External reference (e.g. a commit SHA)")
	return cmd
}

// newLinkCommand creates the link command.
func newLinkCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "link <task> <rel> <target>",
		Short: "Link two tasks (rel: blocks, blocked_by, parent)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.LinkTaskUseCase().Execute(cmd.Context(), usecase.LinkTaskInput{
				TaskID: args[0],
				Rel:    args[1],
				Target: args[2],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Linked %s %s %s\n", shortID(out.TaskID), args[1], shortID(out.Target))
			return nil
		},
	}
}

// newUnlinkCommand creates the unlink command.
func newUnlinkCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "unlink <task> <rel> <target>",
		Short: "Remove a link between two tasks",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.LinkTaskUseCase().Execute(cmd.Context(), usecase.LinkTaskInput{
				TaskID: args[0],
				Rel:    args[1],
				Target: args[2],
				Remove: true,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s %s %s\n", shortID(out.TaskID), args[1], shortID(out.Target))
			return nil
		},
	}
}

// newStreamCommand creates the stream command.
func newStreamCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stream <task> [name]",
		Short: "Move a task to a workstream (omit name to clear)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			stream := ""
			if len(args) == 2 {
				stream = args[1]
			}
			out, err := c.SetStreamUseCase().Execute(cmd.Context(), usecase.SetStreamInput{
				TaskID: args[0],
				Stream: stream,
			})
			if err != nil {
				return err
			}
			if out.Stream == "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared stream of %s\n", shortID(out.TaskID))
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", shortID(out.TaskID), out.Stream)
			}
			return nil
		},
	}
}

// newCompleteCommand creates the complete command.
func newCompleteCommand(c *app.Container) *cobra.Command {
	var resolution string

	cmd := &cobra.Command{
		Use:   "complete <task>",
		Short: "Mark a task complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.CompleteTaskUseCase().Execute(cmd.Context(), usecase.CompleteTaskInput{
				TaskID:     args[0],
				Resolution: resolution,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Completed %s (%s)\n", shortID(out.TaskID), out.Resolution)
			return nil
		},
	}

	cmd.Flags().StringVarP(&resolution, "resolution", "r", "", "Resolution (done, wontfix, duplicate, obsolete)")
	return cmd
}

// newReopenCommand creates the reopen command.
func newReopenCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <task>",
		Short: "Reopen a completed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.ReopenTaskUseCase().Execute(cmd.Context(), usecase.ReopenTaskInput{
				TaskID: args[0],
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Reopened %s\n", shortID(out.TaskID))
			return nil
		},
	}
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create tasks from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			out, err := c.ImportTasksUseCase().Execute(cmd.Context(), usecase.ImportTasksInput{Data: data})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", len(out.TaskIDs))
			return nil
		},
	}
}
