package usecase

import (
	"context"
	"fmt"

	"github.com/spooldev/spool/internal/domain"
)

// AssignTaskInput contains the parameters for assigning a task.
type AssignTaskInput struct {
	TaskID   string // Task ID or unique prefix (required)
	Assignee string // New assignee (required); empty means unassign
}

// AssignTaskOutput contains the result of an assignment change.
type AssignTaskOutput struct {
	TaskID   string
	Assignee string
}

// AssignTask is the use case for setting or clearing a task's assignee.
type AssignTask struct {
	writer eventWriter
}

// NewAssignTask creates a new AssignTask use case.
func NewAssignTask(log domain.EventLog, state domain.StateStore, identity domain.Identity, clock domain.Clock, logger domain.Logger) *AssignTask {
	return &AssignTask{writer: newEventWriter(log, state, identity, clock, logger)}
}

// Execute appends an assign event, or an unassign event when the
// assignee is empty.
func (uc *AssignTask) Execute(_ context.Context, in AssignTaskInput) (*AssignTaskOutput, error) {
	task, err := uc.writer.loadTask(in.TaskID)
	if err != nil {
		return nil, err
	}

	op := domain.Operation{Type: domain.OpUnassign}
	if in.Assignee != "" {
		op = domain.Operation{Type: domain.OpAssign, Assignee: in.Assignee}
	}
	if _, err := uc.writer.append(task, op); err != nil {
		return nil, err
	}

	uc.writer.logger.Info("task", fmt.Sprintf("%s assignee -> %q", task.ID, in.Assignee))
	return &AssignTaskOutput{TaskID: task.ID, Assignee: in.Assignee}, nil
}
