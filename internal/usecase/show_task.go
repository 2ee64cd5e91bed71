package usecase

import (
	"context"
	"fmt"

	"github.com/spooldev/spool/internal/domain"
)

// ShowTaskInput contains the parameters for fetching one task.
type ShowTaskInput struct {
	TaskID string // Task ID or unique prefix (required)
}

// ShowTaskOutput contains the materialized task.
type ShowTaskOutput struct {
	Task *domain.Task
}

// ShowTask is the use case for fetching a single task.
type ShowTask struct {
	state domain.StateStore
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(state domain.StateStore) *ShowTask {
	return &ShowTask{state: state}
}

// Execute resolves and returns one task, archived or not.
func (uc *ShowTask) Execute(_ context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	state, _, _, err := uc.state.Current()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	task, err := resolveTask(state, in.TaskID)
	if err != nil {
		return nil, err
	}
	return &ShowTaskOutput{Task: task}, nil
}
