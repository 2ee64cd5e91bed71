package usecase

import (
	"context"
	"fmt"

	"github.com/spooldev/spool/internal/domain"
)

// CompleteTaskInput contains the parameters for completing a task.
type CompleteTaskInput struct {
	TaskID     string // Task ID or unique prefix (required)
	Resolution string // done, wontfix, duplicate or obsolete (default done)
}

// CompleteTaskOutput contains the result of completing a task.
type CompleteTaskOutput struct {
	TaskID     string
	Resolution domain.Resolution
}

// CompleteTask is the use case for marking a task complete.
type CompleteTask struct {
	writer eventWriter
}

// NewCompleteTask creates a new CompleteTask use case.
func NewCompleteTask(log domain.EventLog, state domain.StateStore, identity domain.Identity, clock domain.Clock, logger domain.Logger) *CompleteTask {
	return &CompleteTask{writer: newEventWriter(log, state, identity, clock, logger)}
}

// Execute appends a complete event. Completing an already complete task
// is rejected here; concurrent completions merged from other branches
// still replay cleanly by last ordering key.
func (uc *CompleteTask) Execute(_ context.Context, in CompleteTaskInput) (*CompleteTaskOutput, error) {
	resolution := domain.Resolution(in.Resolution)
	if resolution == "" {
		resolution = domain.ResolutionDone
	}
	if !resolution.IsValid() {
		return nil, domain.ErrInvalidResolution
	}

	task, err := uc.writer.loadTask(in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status == domain.StatusComplete {
		return nil, fmt.Errorf("%w: %s", domain.ErrAlreadyComplete, task.ID)
	}

	_, err = uc.writer.append(task, domain.Operation{
		Type:       domain.OpComplete,
		Resolution: resolution,
	})
	if err != nil {
		return nil, err
	}

	uc.writer.logger.Info("task", fmt.Sprintf("completed %s (%s)", task.ID, resolution))
	return &CompleteTaskOutput{TaskID: task.ID, Resolution: resolution}, nil
}

// ReopenTaskInput contains the parameters for reopening a task.
type ReopenTaskInput struct {
	TaskID string // Task ID or unique prefix (required)
}

// ReopenTaskOutput contains the result of reopening a task.
type ReopenTaskOutput struct {
	TaskID string
}

// ReopenTask is the use case for reopening a completed task.
type ReopenTask struct {
	writer eventWriter
}

// NewReopenTask creates a new ReopenTask use case.
func NewReopenTask(log domain.EventLog, state domain.StateStore, identity domain.Identity, clock domain.Clock, logger domain.Logger) *ReopenTask {
	return &ReopenTask{writer: newEventWriter(log, state, identity, clock, logger)}
}

// Execute appends a reopen event, clearing completion and resolution.
func (uc *ReopenTask) Execute(_ context.Context, in ReopenTaskInput) (*ReopenTaskOutput, error) {
	task, err := uc.writer.loadTask(in.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != domain.StatusComplete {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotComplete, task.ID)
	}

	if _, err := uc.writer.append(task, domain.Operation{Type: domain.OpReopen}); err != nil {
		return nil, err
	}
	return &ReopenTaskOutput{TaskID: task.ID}, nil
}
