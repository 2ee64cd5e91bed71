package usecase

import (
	"context"
	"fmt"

	"github.com/spooldev/spool/internal/domain"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	Title       string   // Task title (required)
	Description string   // Task description (optional)
	Priority    string   // p0..p3 (optional)
	Assignee    string   // Initial assignee (optional)
	Stream      string   // Workstream name (optional)
	Parent      string   // Parent task ID or prefix (optional)
	Tags        []string // Tags (optional)
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	TaskID string // The ID of the created task
}

// NewTask is the use case for creating a new task.
type NewTask struct {
	writer eventWriter
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(log domain.EventLog, state domain.StateStore, identity domain.Identity, clock domain.Clock, logger domain.Logger) *NewTask {
	return &NewTask{writer: newEventWriter(log, state, identity, clock, logger)}
}

// Execute creates a new task. The task ID is the create event's ID, so
// creation needs no coordination across branches.
func (uc *NewTask) Execute(_ context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	if in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if in.Priority != "" && !domain.Priority(in.Priority).IsValid() {
		return nil, domain.ErrInvalidPriority
	}

	parent := ""
	if in.Parent != "" {
		state, _, _, err := uc.writer.state.Current()
		if err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
		task, err := resolveTask(state, in.Parent)
		if err != nil {
			return nil, fmt.Errorf("resolve parent: %w", err)
		}
		parent = task.ID
	}

	op := domain.Operation{
		Type:        domain.OpCreate,
		Title:       in.Title,
		Description: in.Description,
		Priority:    domain.Priority(in.Priority),
		Assignee:    in.Assignee,
		Stream:      in.Stream,
		Parent:      parent,
		Tags:        in.Tags,
	}

	id := domain.NewEventID()
	ev := uc.writer.stamp(id, 1, op)
	ev.ID = id
	if err := uc.writer.log.Append(ev); err != nil {
		return nil, fmt.Errorf("append event: %w", err)
	}

	uc.writer.logger.Info("task", fmt.Sprintf("created %s: %q", id, in.Title))
	return &NewTaskOutput{TaskID: id}, nil
}
