package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spooldev/spool/internal/domain"
)

// createTask seeds one task through the real use case and returns its ID.
func createTask(t *testing.T, log *mockLog, state *mockState, identity *mockIdentity, clock *mockClock, title string) string {
	t.Helper()
	out, err := NewNewTask(log, state, identity, clock, nil).
		Execute(context.Background(), NewTaskInput{Title: title})
	require.NoError(t, err)
	return out.TaskID
}

func TestUpdateTask_Execute(t *testing.T) {
	log, state, identity, clock := newFixture()
	id := createTask(t, log, state, identity, clock, "old title")

	uc := NewUpdateTask(log, state, identity, clock, nil)
	out, err := uc.Execute(context.Background(), UpdateTaskInput{
		TaskID: id,
		Fields: map[string]any{"title": "new title", "priority": "p0"},
	})
	require.NoError(t, err)
	assert.Equal(t, id, out.TaskID)

	ev := log.events[len(log.events)-1]
	assert.Equal(t, domain.OpUpdateField, ev.Op.Type)
	assert.Equal(t, 2, ev.Seq, "seq continues the task sequence")
	assert.Equal(t, "new title", ev.Op.Fields["title"])

	st, _, _, err := state.Current()
	require.NoError(t, err)
	task := st.Get(id)
	assert.Equal(t, "new title", task.Title)
	assert.Equal(t, domain.PriorityP0, task.Priority)
}

func TestUpdateTask_Rejections(t *testing.T) {
	log, state, identity, clock := newFixture()
	id := createTask(t, log, state, identity, clock, "task")
	uc := NewUpdateTask(log, state, identity, clock, nil)

	tests := []struct {
		name   string
		fields map[string]any
		want   error
	}{
		{"no fields", nil, domain.ErrNoFieldsToUpdate},
		{"unknown field", map[string]any{"status": "complete"}, domain.ErrUnknownField},
		{"empty title", map[string]any{"title": ""}, domain.ErrEmptyTitle},
		{"bad priority", map[string]any{"priority": "high"}, domain.ErrInvalidPriority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), UpdateTaskInput{TaskID: id, Fields: tt.fields})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAssignTask_Execute(t *testing.T) {
	log, state, identity, clock := newFixture()
	id := createTask(t, log, state, identity, clock, "task")
	uc := NewAssignTask(log, state, identity, clock, nil)

	_, err := uc.Execute(context.Background(), AssignTaskInput{TaskID: id, Assignee: "morgan"})
	require.NoError(t, err)
	assert.Equal(t, domain.OpAssign, log.events[1].Op.Type)
	assert.Equal(t, "morgan", log.events[1].Op.Assignee)

	// Empty assignee becomes an unassign event.
	_, err = uc.Execute(context.Background(), AssignTaskInput{TaskID: id})
	require.NoError(t, err)
	assert.Equal(t, domain.OpUnassign, log.events[2].Op.Type)

	st, _, _, err := state.Current()
	require.NoError(t, err)
	assert.Empty(t, st.Get(id).Assignee)
}

func TestCommentTask_Execute(t *testing.T) {
	log, state, identity, clock := newFixture()
	id := createTask(t, log, state, identity, clock, "task")
	uc := NewCommentTask(log, state, identity, clock, nil)

	_, err := uc.Execute(context.Background(), CommentTaskInput{
		TaskID: id,
		Body:   "fixed in abc123",
		Ref:    "abc123",
	})
	require.NoError(t, err)

	st, _, _, err := state.Current()
	require.NoError(t, err)
	comments := st.Get(id).Comments
	require.Len(t, comments, 1)
	assert.Equal(t, "fixed in abc123", comments[0].Body)
	assert.Equal(t, "abc123", comments[0].Ref)
	assert.Equal(t, "casey <casey@example.com>", comments[0].Author)
}

func TestCommentTask_EmptyBody(t *testing.T) {
	log, state, identity, clock := newFixture()
	id := createTask(t, log, state, identity, clock, "task")

	_, err := NewCommentTask(log, state, identity, clock, nil).
		Execute(context.Background(), CommentTaskInput{TaskID: id})
	assert.ErrorIs(t, err, domain.ErrEmptyComment)
}

func TestLinkTask_Execute(t *testing.T) {
	log, state, identity, clock := newFixture()
	a := createTask(t, log, state, identity, clock, "a")
	b := createTask(t, log, state, identity, clock, "b")
	uc := NewLinkTask(log, state, identity, clock, nil)

	_, err := uc.Execute(context.Background(), LinkTaskInput{TaskID: a, Rel: "blocks", Target: b})
	require.NoError(t, err)

	st, _, _, err := state.Current()
	require.NoError(t, err)
	assert.Equal(t, []string{b}, st.Get(a).Links.Blocks)

	_, err = uc.Execute(context.Background(), LinkTaskInput{TaskID: a, Rel: "blocks", Target: b, Remove: true})
	require.NoError(t, err)

	st, _, _, err = state.Current()
	require.NoError(t, err)
	assert.Empty(t, st.Get(a).Links.Blocks)
}

func TestLinkTask_Rejections(t *testing.T) {
	log, state, identity, clock := newFixture()
	a := createTask(t, log, state, identity, clock, "a")
	uc := NewLinkTask(log, state, identity, clock, nil)

	_, err := uc.Execute(context.Background(), LinkTaskInput{TaskID: a, Rel: "related", Target: a})
	assert.ErrorIs(t, err, domain.ErrInvalidLinkRel)

	_, err = uc.Execute(context.Background(), LinkTaskInput{TaskID: a, Rel: "blocks", Target: a})
	assert.ErrorIs(t, err, domain.ErrSelfLink)

	_, err = uc.Execute(context.Background(), LinkTaskInput{TaskID: a, Rel: "blocks", Target: "missing"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestSetStream_Execute(t *testing.T) {
	log, state, identity, clock := newFixture()
	id := createTask(t, log, state, identity, clock, "task")

	_, err := NewSetStream(log, state, identity, clock, nil).
		Execute(context.Background(), SetStreamInput{TaskID: id, Stream: "backend"})
	require.NoError(t, err)

	st, _, _, err := state.Current()
	require.NoError(t, err)
	assert.Equal(t, "backend", st.Get(id).Stream)
}

func TestCompleteAndReopen(t *testing.T) {
	log, state, identity, clock := newFixture()
	id := createTask(t, log, state, identity, clock, "task")
	complete := NewCompleteTask(log, state, identity, clock, nil)
	reopen := NewReopenTask(log, state, identity, clock, nil)

	out, err := complete.Execute(context.Background(), CompleteTaskInput{TaskID: id, Resolution: "wontfix"})
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionWontfix, out.Resolution)

	st, _, _, err := state.Current()
	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, st.Get(id).Status)

	// Completing again is rejected.
	_, err = complete.Execute(context.Background(), CompleteTaskInput{TaskID: id})
	assert.ErrorIs(t, err, domain.ErrAlreadyComplete)

	_, err = reopen.Execute(context.Background(), ReopenTaskInput{TaskID: id})
	require.NoError(t, err)

	st, _, _, err = state.Current()
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, st.Get(id).Status)
	assert.Empty(t, st.Get(id).Resolution)

	// Reopening an open task is rejected.
	_, err = reopen.Execute(context.Background(), ReopenTaskInput{TaskID: id})
	assert.ErrorIs(t, err, domain.ErrNotComplete)
}

func TestCompleteTask_DefaultResolution(t *testing.T) {
	log, state, identity, clock := newFixture()
	id := createTask(t, log, state, identity, clock, "task")

	out, err := NewCompleteTask(log, state, identity, clock, nil).
		Execute(context.Background(), CompleteTaskInput{TaskID: id})
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionDone, out.Resolution)
}

func TestCompleteTask_InvalidResolution(t *testing.T) {
	log, state, identity, clock := newFixture()
	id := createTask(t, log, state, identity, clock, "task")

	_, err := NewCompleteTask(log, state, identity, clock, nil).
		Execute(context.Background(), CompleteTaskInput{TaskID: id, Resolution: "fixed"})
	assert.ErrorIs(t, err, domain.ErrInvalidResolution)
}

func TestResolveTask_AmbiguousPrefix(t *testing.T) {
	log, state, identity, clock := newFixture()
	createTask(t, log, state, identity, clock, "a")
	createTask(t, log, state, identity, clock, "b")

	st, _, _, err := state.Current()
	require.NoError(t, err)

	// UUIDv7 ids share their leading timestamp digits.
	_, err = resolveTask(st, "0")
	assert.ErrorIs(t, err, domain.ErrAmbiguousTaskID)

	_, err = resolveTask(st, "")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
