// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"testing"
	"time"

	"github.com/spooldev/spool/internal/app"
	"github.com/spooldev/spool/internal/infra/cache"
	"github.com/spooldev/spool/internal/infra/eventlog"
	"github.com/spooldev/spool/internal/infra/state"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockIdentity is a test double for domain.Identity.
type MockIdentity struct {
	AuthorName string
	BranchName string
}

// Author returns the configured author.
func (m *MockIdentity) Author() string {
	return m.AuthorName
}

// Branch returns the configured branch.
func (m *MockIdentity) Branch() string {
	return m.BranchName
}

// NewContainer creates a fully wired container over a store in a fresh
// temporary directory, with a fixed clock and identity.
func NewContainer(t *testing.T) *app.Container {
	t.Helper()

	dir := t.TempDir()
	root, err := eventlog.Init(dir)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}

	log := eventlog.New(root)
	stateStore := state.New(log, cache.New(root), nil)

	return app.NewWithDeps(
		app.Paths{WorkDir: dir, Root: root},
		log,
		log,
		stateStore,
		&MockIdentity{AuthorName: "casey <casey@example.com>", BranchName: "main"},
		&MockClock{NowTime: time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)},
		nil,
		nil,
	)
}
