package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spooldev/spool/internal/app"
	"github.com/spooldev/spool/internal/domain"
	"github.com/spooldev/spool/internal/testutil"
	"github.com/spooldev/spool/internal/usecase"
)

// runCommand executes cmd with args and returns everything it printed.
func runCommand(cmd *cobra.Command, args ...string) (string, error) {
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// createTask seeds one task directly through the use case layer.
func createTask(t *testing.T, c *app.Container, title string) string {
	t.Helper()
	out, err := c.NewTaskUseCase().Execute(context.Background(), usecase.NewTaskInput{Title: title})
	require.NoError(t, err)
	return out.TaskID
}

// currentTask returns the materialized view of one task.
func currentTask(t *testing.T, c *app.Container, id string) *domain.Task {
	t.Helper()
	state, _, _, err := c.State.Current()
	require.NoError(t, err)
	task := state.Get(id)
	require.NotNil(t, task)
	return task
}

// =============================================================================
// New Command Tests
// =============================================================================

func TestNewNewCommand_CreateTask(t *testing.T) {
	c := testutil.NewContainer(t)

	out, err := runCommand(newNewCommand(c), "Fix", "login", "bug")

	assert.NoError(t, err)
	assert.Contains(t, out, "Created task ")

	state, _, _, err := c.State.Current()
	require.NoError(t, err)
	tasks := state.Sorted()
	require.Len(t, tasks, 1)
	assert.Equal(t, "Fix login bug", tasks[0].Title)
	assert.Equal(t, domain.StatusOpen, tasks[0].Status)
	assert.Equal(t, "casey <casey@example.com>", tasks[0].CreatedBy)
}

func TestNewNewCommand_WithFlags(t *testing.T) {
	c := testutil.NewContainer(t)

	_, err := runCommand(newNewCommand(c),
		"Harden", "auth",
		"--description", "rotate the signing keys",
		"--priority", "p1",
		"--assignee", "morgan",
		"--stream", "security",
		"--tag", "auth", "--tag", "keys",
	)

	assert.NoError(t, err)
	state, _, _, err := c.State.Current()
	require.NoError(t, err)
	task := state.Sorted()[0]
	assert.Equal(t, "rotate the signing keys", task.Description)
	assert.Equal(t, domain.PriorityP1, task.Priority)
	assert.Equal(t, "morgan", task.Assignee)
	assert.Equal(t, "security", task.Stream)
	assert.Equal(t, []string{"auth", "keys"}, task.Tags)
}

func TestNewNewCommand_InvalidPriority(t *testing.T) {
	c := testutil.NewContainer(t)

	_, err := runCommand(newNewCommand(c), "Bad", "--priority", "urgent")

	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestNewNewCommand_NotInitialized(t *testing.T) {
	_, err := runCommand(newNewCommand(nil), "Anything")

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

// =============================================================================
// Update Command Tests
// =============================================================================

func TestNewUpdateCommand_ChangedFlagsOnly(t *testing.T) {
	c := testutil.NewContainer(t)
	id := createTask(t, c, "Original title")

	out, err := runCommand(newUpdateCommand(c), id[:8], "--title", "New title", "--priority", "p0")

	assert.NoError(t, err)
	assert.Contains(t, out, "Updated task "+id[:8])
	task := currentTask(t, c, id)
	assert.Equal(t, "New title", task.Title)
	assert.Equal(t, domain.PriorityP0, task.Priority)
}

func TestNewUpdateCommand_NoFlags(t *testing.T) {
	c := testutil.NewContainer(t)
	id := createTask(t, c, "Untouched")

	_, err := runCommand(newUpdateCommand(c), id)

	assert.ErrorIs(t, err, domain.ErrNoFieldsToUpdate)
}

// =============================================================================
// Assign Command Tests
// =============================================================================

func TestNewAssignCommand_AndUnassign(t *testing.T) {
	c := testutil.NewContainer(t)
	id := createTask(t, c, "Review PR")

	out, err := runCommand(newAssignCommand(c), id[:8], "robin")
	assert.NoError(t, err)
	assert.Contains(t, out, "Assigned "+id[:8]+" to robin")
	assert.Equal(t, "robin", currentTask(t, c, id).Assignee)

	out, err = runCommand(newUnassignCommand(c), id[:8])
	assert.NoError(t, err)
	assert.Contains(t, out, "Unassigned "+id[:8])
	assert.Empty(t, currentTask(t, c, id).Assignee)
}

// =============================================================================
// Comment Command Tests
// =============================================================================

func TestNewCommentCommand(t *testing.T) {
	c := testutil.NewContainer(t)
	id := createTask(t, c, "Write docs")

	out, err := runCommand(newCommentCommand(c), id[:8], "started", "the", "outline", "--ref", "abc1234")

	assert.NoError(t, err)
	assert.Contains(t, out, "Commented on "+id[:8])
	task := currentTask(t, c, id)
	require.Len(t, task.Comments, 1)
	assert.Equal(t, "started the outline", task.Comments[0].Body)
	assert.Equal(t, "abc1234", task.Comments[0].Ref)
}

// =============================================================================
// Link Command Tests
// =============================================================================

func TestNewLinkCommand_AndUnlink(t *testing.T) {
	c := testutil.NewContainer(t)
	blocker := createTask(t, c, "Ship schema migration")
	blocked := createTask(t, c, "Enable new endpoint")

	out, err := runCommand(newLinkCommand(c), blocker[:8], "blocks", blocked[:8])
	assert.NoError(t, err)
	assert.Contains(t, out, "Linked")
	assert.Equal(t, []string{blocked}, currentTask(t, c, blocker).Links.Blocks)

	_, err = runCommand(newUnlinkCommand(c), blocker[:8], "blocks", blocked[:8])
	assert.NoError(t, err)
	assert.Empty(t, currentTask(t, c, blocker).Links.Blocks)
}

func TestNewLinkCommand_InvalidRel(t *testing.T) {
	c := testutil.NewContainer(t)
	a := createTask(t, c, "A")
	b := createTask(t, c, "B")

	_, err := runCommand(newLinkCommand(c), a, "depends", b)

	assert.ErrorIs(t, err, domain.ErrInvalidLinkRel)
}

// =============================================================================
// Stream Command Tests
// =============================================================================

func TestNewStreamCommand_SetAndClear(t *testing.T) {
	c := testutil.NewContainer(t)
	id := createTask(t, c, "Tune indexes")

	out, err := runCommand(newStreamCommand(c), id[:8], "storage")
	assert.NoError(t, err)
	assert.Contains(t, out, "Moved "+id[:8]+" to storage")
	assert.Equal(t, "storage", currentTask(t, c, id).Stream)

	out, err = runCommand(newStreamCommand(c), id[:8])
	assert.NoError(t, err)
	assert.Contains(t, out, "Cleared stream of "+id[:8])
	assert.Empty(t, currentTask(t, c, id).Stream)
}

// =============================================================================
// Complete / Reopen Command Tests
// =============================================================================

func TestNewCompleteCommand_DefaultResolution(t *testing.T) {
	c := testutil.NewContainer(t)
	id := createTask(t, c, "Close out")

	out, err := runCommand(newCompleteCommand(c), id[:8])

	assert.NoError(t, err)
	assert.Contains(t, out, "Completed "+id[:8]+" (done)")
	task := currentTask(t, c, id)
	assert.Equal(t, domain.StatusComplete, task.Status)
	assert.Equal(t, domain.ResolutionDone, task.Resolution)
}

func TestNewReopenCommand(t *testing.T) {
	c := testutil.NewContainer(t)
	id := createTask(t, c, "Flaky test")
	_, err := runCommand(newCompleteCommand(c), id, "--resolution", "wontfix")
	require.NoError(t, err)

	out, err := runCommand(newReopenCommand(c), id[:8])

	assert.NoError(t, err)
	assert.Contains(t, out, "Reopened "+id[:8])
	task := currentTask(t, c, id)
	assert.Equal(t, domain.StatusOpen, task.Status)
	assert.Empty(t, task.Resolution)
}

// =============================================================================
// Import Command Tests
// =============================================================================

func TestNewImportCommand(t *testing.T) {
	c := testutil.NewContainer(t)

	path := filepath.Join(t.TempDir(), "tasks.yaml")
	doc := `tasks:
  - title: First import
    priority: p2
  - title: Second import
    assignee: sam
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := runCommand(newImportCommand(c), path)

	assert.NoError(t, err)
	assert.Contains(t, out, "Imported 2 tasks")
	state, _, _, err := c.State.Current()
	require.NoError(t, err)
	assert.Len(t, state.Sorted(), 2)
}

func TestNewImportCommand_MissingFile(t *testing.T) {
	c := testutil.NewContainer(t)

	_, err := runCommand(newImportCommand(c), filepath.Join(t.TempDir(), "absent.yaml"))

	assert.ErrorContains(t, err, "read import file")
}
