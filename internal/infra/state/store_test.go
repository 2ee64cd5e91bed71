package state

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spooldev/spool/internal/domain"
	"github.com/spooldev/spool/internal/infra/cache"
	"github.com/spooldev/spool/internal/infra/eventlog"
)

func newTestStore(t *testing.T) (*Store, *eventlog.Log, *cache.Store) {
	t.Helper()
	root, err := eventlog.Init(t.TempDir())
	require.NoError(t, err)
	log := eventlog.New(root)
	cacheStore := cache.New(root)
	return New(log, cacheStore, nil), log, cacheStore
}

func appendCreate(t *testing.T, log *eventlog.Log, id, title string, ts time.Time) {
	t.Helper()
	err := log.Append(domain.Event{
		Timestamp: ts,
		ID:        id,
		TaskID:    id,
		Author:    "casey",
		Op:        domain.Operation{Type: domain.OpCreate, Title: title},
		Seq:       1,
		V:         domain.SchemaVersion,
	})
	require.NoError(t, err)
}

func TestCurrentReplaysOnEmptyCache(t *testing.T) {
	store, log, _ := newTestStore(t)
	appendCreate(t, log, "task-1", "write docs", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))

	state, index, _, err := store.Current()
	require.NoError(t, err)
	require.NotNil(t, state)
	require.NotNil(t, index)

	task := state.Get("task-1")
	require.NotNil(t, task)
	assert.Equal(t, "write docs", task.Title)
	assert.Contains(t, index.Tasks, "task-1")
}

func TestCurrentServesFromCache(t *testing.T) {
	store, log, _ := newTestStore(t)
	appendCreate(t, log, "task-1", "write docs", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))

	_, _, _, err := store.Current()
	require.NoError(t, err)

	statePath := domain.StatePath(log.Root())
	cached, err := os.ReadFile(statePath)
	require.NoError(t, err)

	// A fresh cache must be read back untouched, not rewritten.
	state, _, diags, err := store.Current()
	require.NoError(t, err)
	assert.Nil(t, diags)

	after, err := os.ReadFile(statePath)
	require.NoError(t, err)
	assert.Equal(t, cached, after)

	assert.NotNil(t, state.Get("task-1"))
}

func TestCurrentDetectsStaleCache(t *testing.T) {
	store, log, _ := newTestStore(t)
	appendCreate(t, log, "task-1", "write docs", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))

	_, _, _, err := store.Current()
	require.NoError(t, err)

	appendCreate(t, log, "task-2", "review docs", time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC))

	state, index, _, err := store.Current()
	require.NoError(t, err)
	assert.Len(t, state.Tasks, 2)
	assert.Len(t, index.Tasks, 2)
}

func TestCurrentSurvivesCorruptCache(t *testing.T) {
	store, log, _ := newTestStore(t)
	appendCreate(t, log, "task-1", "write docs", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))

	_, _, _, err := store.Current()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(domain.StatePath(log.Root()), []byte("{broken"), 0o600))

	state, _, _, err := store.Current()
	require.NoError(t, err)
	assert.NotNil(t, state.Get("task-1"))
}

func TestRebuildAlwaysReplays(t *testing.T) {
	store, log, cacheStore := newTestStore(t)
	appendCreate(t, log, "task-1", "write docs", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))

	// Plant an empty state under the current fingerprint. Current would
	// happily serve it; Rebuild must replay the logs instead.
	fingerprint, err := cacheStore.Fingerprint()
	require.NoError(t, err)
	poisoned := fmt.Sprintf(`{"fingerprint": %q, "state": {"tasks": {}}}`, fingerprint)
	require.NoError(t, os.WriteFile(domain.StatePath(log.Root()), []byte(poisoned), 0o600))

	state, _, _, err := store.Rebuild()
	require.NoError(t, err)
	task := state.Get("task-1")
	require.NotNil(t, task)
	assert.Equal(t, "write docs", task.Title)

	// The planted file must have been replaced.
	raw, err := os.ReadFile(domain.StatePath(log.Root()))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "write docs")
}

func TestRebuildReportsScanDiagnostics(t *testing.T) {
	store, log, _ := newTestStore(t)
	appendCreate(t, log, "task-1", "write docs", time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))

	day := filepath.Join(domain.EventsDir(log.Root()), "2026-04-03.jsonl")
	require.NoError(t, os.WriteFile(day, []byte("{not json\n"), 0o644))

	_, _, diags, err := store.Rebuild()
	require.NoError(t, err)

	found := false
	for _, d := range diags {
		if d.Category == domain.DiagParse {
			found = true
		}
	}
	assert.True(t, found)
}
