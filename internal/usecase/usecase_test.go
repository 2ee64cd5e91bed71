package usecase

import (
	"time"

	"github.com/spooldev/spool/internal/domain"
)

// mockClock is a test double for domain.Clock.
type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time {
	return m.now
}

// mockIdentity is a test double for domain.Identity.
type mockIdentity struct {
	author string
	branch string
}

func (m *mockIdentity) Author() string { return m.author }
func (m *mockIdentity) Branch() string { return m.branch }

// mockLog is an in-memory test double for domain.EventLog and
// domain.Archiver. Events append in order; scans attribute every event
// to a single synthetic file.
// Fields are ordered to minimize memory padding.
type mockLog struct {
	events    []domain.Event
	archived  []domain.TaskMove
	appendErr error
	scanErr   error
}

func (m *mockLog) Append(ev domain.Event) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *mockLog) scan() (*domain.ScanResult, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	result := &domain.ScanResult{}
	for i, ev := range m.events {
		result.Events = append(result.Events, domain.SourcedEvent{
			Event: ev,
			File:  "events.jsonl",
			Line:  i + 1,
		})
	}
	return result, nil
}

func (m *mockLog) ScanActive() (*domain.ScanResult, error) { return m.scan() }
func (m *mockLog) ScanAll() (*domain.ScanResult, error)    { return m.scan() }

func (m *mockLog) MoveToArchive(moves []domain.TaskMove) error {
	m.archived = append(m.archived, moves...)
	return nil
}

// mockState replays the mock log on every call; no caching.
type mockState struct {
	log *mockLog
}

func (m *mockState) Current() (*domain.State, *domain.Index, []domain.Diagnostic, error) {
	scan, err := m.log.scan()
	if err != nil {
		return nil, nil, nil, err
	}
	result := domain.Replay(scan.Events)
	return result.State, result.Index, result.Diagnostics, nil
}

func (m *mockState) Rebuild() (*domain.State, *domain.Index, []domain.Diagnostic, error) {
	return m.Current()
}

// newFixture wires the standard test doubles together.
func newFixture() (*mockLog, *mockState, *mockIdentity, *mockClock) {
	log := &mockLog{}
	state := &mockState{log: log}
	identity := &mockIdentity{author: "casey <casey@example.com>", branch: "main"}
	clock := &mockClock{now: time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)}
	return log, state, identity, clock
}
