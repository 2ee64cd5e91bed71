package usecase

import (
	"context"
	"fmt"
	"slices"

	"github.com/spooldev/spool/internal/domain"
)

// ShowHistoryInput contains the parameters for fetching a task history.
type ShowHistoryInput struct {
	TaskID string // Task ID or unique prefix (required)
}

// ShowHistoryOutput contains the task's events in canonical order.
type ShowHistoryOutput struct {
	Events []domain.SourcedEvent
}

// ShowHistory is the use case for reading one task's full event
// history, crossing archive partitions. Unknown operation types are
// included; history shows the log as it is.
type ShowHistory struct {
	log   domain.EventLog
	state domain.StateStore
}

// NewShowHistory creates a new ShowHistory use case.
func NewShowHistory(log domain.EventLog, state domain.StateStore) *ShowHistory {
	return &ShowHistory{log: log, state: state}
}

// Execute scans every partition and returns the task's events sorted by
// the canonical key.
func (uc *ShowHistory) Execute(_ context.Context, in ShowHistoryInput) (*ShowHistoryOutput, error) {
	state, _, _, err := uc.state.Current()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	task, err := resolveTask(state, in.TaskID)
	if err != nil {
		return nil, err
	}

	scan, err := uc.log.ScanAll()
	if err != nil {
		return nil, fmt.Errorf("scan logs: %w", err)
	}

	var events []domain.SourcedEvent
	for _, ev := range scan.Events {
		if ev.Event.TaskID == task.ID {
			events = append(events, ev)
		}
	}
	slices.SortStableFunc(events, domain.CompareSourcedEvents)

	return &ShowHistoryOutput{Events: events}, nil
}
