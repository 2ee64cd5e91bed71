package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/spooldev/spool/internal/domain"
)

// UpdateTaskInput contains the parameters for updating task fields.
type UpdateTaskInput struct {
	TaskID string         // Task ID or unique prefix (required)
	Fields map[string]any // Field name to new value (required, non-empty)
}

// UpdateTaskOutput contains the result of a field update.
type UpdateTaskOutput struct {
	TaskID string
}

// UpdateTask is the use case for editing a task's mutable fields.
type UpdateTask struct {
	writer eventWriter
}

// NewUpdateTask creates a new UpdateTask use case.
func NewUpdateTask(log domain.EventLog, state domain.StateStore, identity domain.Identity, clock domain.Clock, logger domain.Logger) *UpdateTask {
	return &UpdateTask{writer: newEventWriter(log, state, identity, clock, logger)}
}

// Execute appends one update_field event carrying all requested fields.
func (uc *UpdateTask) Execute(_ context.Context, in UpdateTaskInput) (*UpdateTaskOutput, error) {
	if len(in.Fields) == 0 {
		return nil, domain.ErrNoFieldsToUpdate
	}
	for name, value := range in.Fields {
		if !slices.Contains(domain.UpdatableFields, name) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownField, name)
		}
		switch name {
		case "title":
			if s, ok := value.(string); !ok || s == "" {
				return nil, domain.ErrEmptyTitle
			}
		case "priority":
			s, ok := value.(string)
			if !ok || !domain.Priority(s).IsValid() {
				return nil, domain.ErrInvalidPriority
			}
		}
	}

	task, err := uc.writer.loadTask(in.TaskID)
	if err != nil {
		return nil, err
	}

	_, err = uc.writer.append(task, domain.Operation{
		Type:   domain.OpUpdateField,
		Fields: in.Fields,
	})
	if err != nil {
		return nil, err
	}
	return &UpdateTaskOutput{TaskID: task.ID}, nil
}
