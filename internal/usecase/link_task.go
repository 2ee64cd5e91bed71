package usecase

import (
	"context"
	"fmt"

	"github.com/spooldev/spool/internal/domain"
)

// LinkTaskInput contains the parameters for linking or unlinking tasks.
// Fields are ordered to minimize memory padding.
type LinkTaskInput struct {
	TaskID string // Task ID or unique prefix (required)
	Rel    string // blocks, blocked_by or parent (required)
	Target string // Target task ID or unique prefix (required)
	Remove bool   // True to unlink instead of link
}

// LinkTaskOutput contains the result of a link change.
type LinkTaskOutput struct {
	TaskID string
	Target string
}

// LinkTask is the use case for editing task relationships.
type LinkTask struct {
	writer eventWriter
}

// NewLinkTask creates a new LinkTask use case.
func NewLinkTask(log domain.EventLog, state domain.StateStore, identity domain.Identity, clock domain.Clock, logger domain.Logger) *LinkTask {
	return &LinkTask{writer: newEventWriter(log, state, identity, clock, logger)}
}

// Execute appends a link or unlink event. The target is resolved
// against current state so prefixes expand to full IDs in the log, but
// the link itself is recorded even if the target is later archived;
// dangling targets surface through the validator.
func (uc *LinkTask) Execute(_ context.Context, in LinkTaskInput) (*LinkTaskOutput, error) {
	rel := domain.LinkRel(in.Rel)
	if !rel.IsValid() {
		return nil, domain.ErrInvalidLinkRel
	}

	state, _, _, err := uc.writer.state.Current()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	task, err := resolveTask(state, in.TaskID)
	if err != nil {
		return nil, err
	}
	target, err := resolveTask(state, in.Target)
	if err != nil {
		return nil, fmt.Errorf("resolve target: %w", err)
	}
	if task.ID == target.ID {
		return nil, domain.ErrSelfLink
	}

	opType := domain.OpLink
	if in.Remove {
		opType = domain.OpUnlink
	}
	_, err = uc.writer.append(task, domain.Operation{
		Type:   opType,
		Rel:    rel,
		Target: target.ID,
	})
	if err != nil {
		return nil, err
	}
	return &LinkTaskOutput{TaskID: task.ID, Target: target.ID}, nil
}
