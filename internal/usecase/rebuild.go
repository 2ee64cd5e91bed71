package usecase

import (
	"context"
	"fmt"

	"github.com/spooldev/spool/internal/domain"
)

// RebuildInput is empty; rebuild takes no parameters.
type RebuildInput struct{}

// RebuildOutput contains the result of a forced rebuild.
type RebuildOutput struct {
	TaskCount   int
	Diagnostics []domain.Diagnostic
}

// Rebuild is the use case for discarding the caches and replaying the
// full log.
type Rebuild struct {
	state  domain.StateStore
	logger domain.Logger
}

// NewRebuild creates a new Rebuild use case.
func NewRebuild(state domain.StateStore, logger domain.Logger) *Rebuild {
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Rebuild{state: state, logger: logger}
}

// Execute replays unconditionally and rewrites the caches.
func (uc *Rebuild) Execute(_ context.Context, _ RebuildInput) (*RebuildOutput, error) {
	state, _, diags, err := uc.state.Rebuild()
	if err != nil {
		return nil, fmt.Errorf("rebuild state: %w", err)
	}

	uc.logger.Info("rebuild", fmt.Sprintf("replayed %d tasks, %d diagnostics", len(state.Tasks), len(diags)))
	return &RebuildOutput{TaskCount: len(state.Tasks), Diagnostics: diags}, nil
}
