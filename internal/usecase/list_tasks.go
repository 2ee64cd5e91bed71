package usecase

import (
	"context"
	"fmt"

	"github.com/spooldev/spool/internal/domain"
)

// ListTasksInput contains filters for listing tasks.
// Fields are ordered to minimize memory padding.
type ListTasksInput struct {
	Status          string // open, complete or all (default from config)
	Assignee        string // Exact assignee match (optional)
	Tag             string // Tasks carrying this tag (optional)
	Priority        string // Exact priority match (optional)
	Stream          string // Exact stream match (optional)
	IncludeArchived bool   // Include tasks whose history is archived
}

// ListTasksOutput contains the matching tasks in stable order.
type ListTasksOutput struct {
	Tasks []*domain.Task
}

// ListTasks is the use case for listing tasks.
type ListTasks struct {
	state  domain.StateStore
	logger domain.Logger
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(state domain.StateStore, logger domain.Logger) *ListTasks {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &ListTasks{state: state, logger: logger}
}

// Execute returns tasks matching every given filter, ordered by
// creation time then ID. Archived tasks are hidden unless asked for.
func (uc *ListTasks) Execute(_ context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	if in.Priority != "" && !domain.Priority(in.Priority).IsValid() {
		return nil, domain.ErrInvalidPriority
	}

	state, _, _, err := uc.state.Current()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	var out []*domain.Task
	for _, task := range state.Sorted() {
		if !matchTask(task, in) {
			continue
		}
		out = append(out, task)
	}
	return &ListTasksOutput{Tasks: out}, nil
}

func matchTask(task *domain.Task, in ListTasksInput) bool {
	if task.IsArchived() && !in.IncludeArchived {
		return false
	}
	switch in.Status {
	case "", "all":
	default:
		if task.Status != domain.Status(in.Status) {
			return false
		}
	}
	if in.Assignee != "" && task.Assignee != in.Assignee {
		return false
	}
	if in.Tag != "" && !task.HasTag(in.Tag) {
		return false
	}
	if in.Priority != "" && task.Priority != domain.Priority(in.Priority) {
		return false
	}
	if in.Stream != "" && task.Stream != in.Stream {
		return false
	}
	return true
}
