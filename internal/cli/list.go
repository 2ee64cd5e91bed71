package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/spooldev/spool/internal/app"
	"github.com/spooldev/spool/internal/domain"
	"github.com/spooldev/spool/internal/usecase"
)

// newListCommand creates the list command.
func newListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status   string
		Assignee string
		Tag      string
		Priority string
		Stream   string
		Format   string
		All      bool
		Archived bool
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireStore(c); err != nil {
				return err
			}

			status := opts.Status
			if status == "" {
				status = c.AppConfig.List.Status
			}
			if opts.All {
				status = "all"
			}

			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				Status:          status,
				Assignee:        opts.Assignee,
				Tag:             opts.Tag,
				Priority:        opts.Priority,
				Stream:          opts.Stream,
				IncludeArchived: opts.Archived,
			})
			if err != nil {
				return err
			}

			switch opts.Format {
			case "table", "":
				renderTaskTable(cmd.OutOrStdout(), out.Tasks)
			case "json":
				return writeJSON(cmd.OutOrStdout(), out.Tasks)
			case "ids":
				for _, task := range out.Tasks {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), task.ID)
				}
			default:
				return fmt.Errorf("unknown format: %s (expected table, json or ids)", opts.Format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Filter by status (open, complete, all)")
	cmd.Flags().StringVarP(&opts.Assignee, "assignee", "a", "", "Filter by assignee")
	cmd.Flags().StringVarP(&opts.Tag, "tag", "t", "", "Filter by tag")
	cmd.Flags().StringVarP(&opts.Priority, "priority", "p", "", "Filter by priority")
	cmd.Flags().StringVar(&opts.Stream, "stream", "", "Filter by workstream")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format (table, json, ids)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Include completed tasks")
	cmd.Flags().BoolVar(&opts.Archived, "archived", false, "Include archived tasks")

	return cmd
}

// renderTaskTable writes tasks in aligned columns.
func renderTaskTable(w io.Writer, tasks []*domain.Task) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "ID\tSTATUS\tPRI\tASSIGNEE\tSTREAM\tTAGS\tTITLE")
	for _, task := range tasks {
		status := string(task.Status)
		if task.IsArchived() {
			status += " (archived)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(task.ID),
			status,
			task.Priority,
			task.Assignee,
			task.Stream,
			strings.Join(task.Tags, ","),
			task.Title,
		)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newShowCommand creates the show command.
func newShowCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Format string
		Events bool
	}

	cmd := &cobra.Command{
		Use:   "show <task>",
		Short: "Show one task in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), out.Task)
			}
			renderTaskDetail(cmd.OutOrStdout(), out.Task)

			if opts.Events {
				history, err := c.ShowHistoryUseCase().Execute(cmd.Context(), usecase.ShowHistoryInput{TaskID: out.Task.ID})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
				renderHistory(cmd.OutOrStdout(), history.Events)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format (json)")
	cmd.Flags().BoolVar(&opts.Events, "events", false, "Also print the task's event history")

	return cmd
}

// renderTaskDetail writes one task in long form.
func renderTaskDetail(w io.Writer, task *domain.Task) {
	_, _ = fmt.Fprintf(w, "Task:      %s\n", task.ID)
	_, _ = fmt.Fprintf(w, "Title:     %s\n", task.Title)
	_, _ = fmt.Fprintf(w, "Status:    %s\n", task.Status.Display())
	if task.Resolution != "" {
		_, _ = fmt.Fprintf(w, "Resolution: %s\n", task.Resolution)
	}
	if task.Priority != "" {
		_, _ = fmt.Fprintf(w, "Priority:  %s\n", task.Priority)
	}
	if task.Assignee != "" {
		_, _ = fmt.Fprintf(w, "Assignee:  %s\n", task.Assignee)
	}
	if task.Stream != "" {
		_, _ = fmt.Fprintf(w, "Stream:    %s\n", task.Stream)
	}
	if len(task.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "Tags:      %s\n", strings.Join(task.Tags, ", "))
	}
	if task.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", task.Description)
	}
	_, _ = fmt.Fprintf(w, "\nCreated:   %s by %s\n", task.CreatedAt.Format(time.RFC3339), task.CreatedBy)
	_, _ = fmt.Fprintf(w, "Updated:   %s\n", task.UpdatedAt.Format(time.RFC3339))
	if task.CompletedAt != nil {
		_, _ = fmt.Fprintf(w, "Completed: %s\n", task.CompletedAt.Format(time.RFC3339))
	}
	if task.IsArchived() {
		_, _ = fmt.Fprintf(w, "Archived:  %s\n", task.Archived)
	}

	if task.Links.Parent != "" {
		_, _ = fmt.Fprintf(w, "Parent:    %s\n", shortID(task.Links.Parent))
	}
	for _, id := range task.Links.Blocks {
		_, _ = fmt.Fprintf(w, "Blocks:    %s\n", shortID(id))
	}
	for _, id := range task.Links.BlockedBy {
		_, _ = fmt.Fprintf(w, "BlockedBy: %s\n", shortID(id))
	}

	for _, comment := range task.Comments {
		_, _ = fmt.Fprintf(w, "\n[%s] %s\n", comment.Timestamp.Format("2006-01-02 15:04"), comment.Author)
		_, _ = fmt.Fprintf(w, "  %s\n", comment.Body)
		if comment.Ref != "" {
			_, _ = fmt.Fprintf(w, "  ref: %s\n", comment.Ref)
		}
	}
}

// newHistoryCommand creates the history command.
func newHistoryCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "history <task>",
		Short: "Show a task's full event history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireStore(c); err != nil {
				return err
			}
			out, err := c.ShowHistoryUseCase().Execute(cmd.Context(), usecase.ShowHistoryInput{TaskID: args[0]})
			if err != nil {
				return err
			}

			if format == "json" {
				events := make([]domain.Event, 0, len(out.Events))
				for _, ev := range out.Events {
					events = append(events, ev.Event)
				}
				return writeJSON(cmd.OutOrStdout(), events)
			}
			renderHistory(cmd.OutOrStdout(), out.Events)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json)")
	return cmd
}

// renderHistory writes events one per line in canonical order.
func renderHistory(w io.Writer, events []domain.SourcedEvent) {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	defer func() { _ = tw.Flush() }()

	_, _ = fmt.Fprintln(tw, "SEQ\tTIMESTAMP\tOP\tAUTHOR\tFILE")
	for _, ev := range events {
		e := ev.Event
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.Seq,
			e.Timestamp.UTC().Format(time.RFC3339),
			describeOp(e.Op),
			e.Author,
			ev.File,
		)
	}
}

// describeOp renders the interesting payload of an operation inline.
func describeOp(op domain.Operation) string {
	switch op.Type {
	case domain.OpCreate:
		return fmt.Sprintf("create %q", op.Title)
	case domain.OpUpdateField:
		names := make([]string, 0, len(op.Fields))
		for name := range op.Fields {
			names = append(names, name)
		}
		slices.Sort(names)
		return fmt.Sprintf("update %s", strings.Join(names, ","))
	case domain.OpAssign:
		return fmt.Sprintf("assign %s", op.Assignee)
	case domain.OpComment:
		return fmt.Sprintf("comment %q", truncate(op.Body, 40))
	case domain.OpLink:
		return fmt.Sprintf("link %s %s", op.Rel, shortID(op.Target))
	case domain.OpUnlink:
		return fmt.Sprintf("unlink %s %s", op.Rel, shortID(op.Target))
	case domain.OpSetStream:
		return fmt.Sprintf("stream %s", op.Stream)
	case domain.OpComplete:
		return fmt.Sprintf("complete (%s)", op.Resolution)
	case domain.OpArchive:
		return fmt.Sprintf("archive -> %s", op.Ref)
	default:
		return string(op.Type)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
