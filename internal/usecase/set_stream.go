package usecase

import (
	"context"

	"github.com/spooldev/spool/internal/domain"
)

// SetStreamInput contains the parameters for moving a task to a stream.
type SetStreamInput struct {
	TaskID string // Task ID or unique prefix (required)
	Stream string // Workstream name; empty clears the stream
}

// SetStreamOutput contains the result of a stream change.
type SetStreamOutput struct {
	TaskID string
	Stream string
}

// SetStream is the use case for changing a task's workstream.
type SetStream struct {
	writer eventWriter
}

// NewSetStream creates a new SetStream use case.
func NewSetStream(log domain.EventLog, state domain.StateStore, identity domain.Identity, clock domain.Clock, logger domain.Logger) *SetStream {
	return &SetStream{writer: newEventWriter(log, state, identity, clock, logger)}
}

// Execute appends a set_stream event.
func (uc *SetStream) Execute(_ context.Context, in SetStreamInput) (*SetStreamOutput, error) {
	task, err := uc.writer.loadTask(in.TaskID)
	if err != nil {
		return nil, err
	}

	_, err = uc.writer.append(task, domain.Operation{
		Type:   domain.OpSetStream,
		Stream: in.Stream,
	})
	if err != nil {
		return nil, err
	}
	return &SetStreamOutput{TaskID: task.ID, Stream: in.Stream}, nil
}
