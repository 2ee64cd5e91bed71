// Package usecase contains application use cases. Mutations go through
// the event writer; reads go through the state store. Front ends never
// touch log files directly.
package usecase

import (
	"fmt"
	"strings"

	"github.com/spooldev/spool/internal/domain"
)

// eventWriter stamps and appends events. Every mutating use case embeds
// one so the identity, clock and seq bookkeeping live in a single place.
// Fields are ordered to minimize memory padding.
type eventWriter struct {
	log      domain.EventLog
	state    domain.StateStore
	identity domain.Identity
	clock    domain.Clock
	logger   domain.Logger
}

func newEventWriter(log domain.EventLog, state domain.StateStore, identity domain.Identity, clock domain.Clock, logger domain.Logger) eventWriter {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return eventWriter{log: log, state: state, identity: identity, clock: clock, logger: logger}
}

// stamp fills the envelope fields shared by every event.
func (w eventWriter) stamp(taskID string, seq int, op domain.Operation) domain.Event {
	return domain.Event{
		Timestamp: w.clock.Now().UTC(),
		ID:        domain.NewEventID(),
		TaskID:    taskID,
		Author:    w.identity.Author(),
		Branch:    w.identity.Branch(),
		Op:        op,
		Seq:       seq,
		V:         domain.SchemaVersion,
	}
}

// append writes an operation against an existing task. The seq continues
// the task's sequence as currently materialized.
func (w eventWriter) append(task *domain.Task, op domain.Operation) (domain.Event, error) {
	ev := w.stamp(task.ID, task.LastSeq+1, op)
	if err := w.log.Append(ev); err != nil {
		return domain.Event{}, fmt.Errorf("append event: %w", err)
	}
	w.logger.Debug("event", fmt.Sprintf("%s %s seq=%d", op.Type, task.ID, ev.Seq))
	return ev, nil
}

// resolveTask finds one task by ID or unique ID prefix.
func resolveTask(state *domain.State, ref string) (*domain.Task, error) {
	if ref == "" {
		return nil, domain.ErrTaskNotFound
	}
	if task := state.Get(ref); task != nil {
		return task, nil
	}

	var match *domain.Task
	for _, task := range state.Sorted() {
		if !strings.HasPrefix(task.ID, ref) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrAmbiguousTaskID, ref)
		}
		match = task
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, ref)
	}
	return match, nil
}

// loadTask materializes current state and resolves one task from it.
func (w eventWriter) loadTask(ref string) (*domain.Task, error) {
	state, _, _, err := w.state.Current()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return resolveTask(state, ref)
}
