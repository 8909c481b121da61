package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/corkboard/internal/board"
)

func runTask(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTaskCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func addTaskJSON(t *testing.T, opts *RootOptions, args ...string) board.Task {
	t.Helper()
	prev := opts.Format
	opts.Format = "json"
	defer func() { opts.Format = prev }()

	out, err := runTask(t, opts, append([]string{"add"}, args...)...)
	require.NoError(t, err)

	var task board.Task
	require.NoError(t, json.Unmarshal([]byte(out), &task))
	return task
}

// sprintBoardIDs creates the standard three-column board and returns
// the board plus its column ids in position order.
func sprintBoardIDs(t *testing.T, opts *RootOptions) (board.Board, []string) {
	t.Helper()
	b := createBoardJSON(t, opts, "Sprint 1",
		"--column", "To Do",
		"--column", "Doing:2",
		"--column", "Done:0:done",
	)

	prev := opts.Format
	opts.Format = "json"
	defer func() { opts.Format = prev }()

	out, err := runBoard(t, opts, "show", b.ID)
	require.NoError(t, err)

	var tree board.BoardTree
	require.NoError(t, json.Unmarshal([]byte(out), &tree))

	ids := make([]string, len(tree.Columns))
	for i, col := range tree.Columns {
		ids[i] = col.ID
	}
	return b, ids
}

func TestTaskAdd_WithMetadata(t *testing.T) {
	opts := testRootOpts(t)
	_, cols := sprintBoardIDs(t, opts)

	task := addTaskJSON(t, opts, cols[0], "Fix login",
		"--content", "OAuth redirect drops the session",
		"--metadata", `{"estimate":"3d"}`,
	)
	assert.Equal(t, 0, task.Position)
	assert.Equal(t, "3d", task.Metadata["estimate"])

	out, err := runTask(t, opts, "show", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Fix login")
	assert.Contains(t, out, "OAuth redirect drops the session")
}

func TestTaskAdd_BadMetadata(t *testing.T) {
	opts := testRootOpts(t)
	_, cols := sprintBoardIDs(t, opts)

	_, err := runTask(t, opts, "add", cols[0], "task", "--metadata", "{broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --metadata JSON")
}

func TestTaskEdit(t *testing.T) {
	opts := testRootOpts(t)
	_, cols := sprintBoardIDs(t, opts)
	task := addTaskJSON(t, opts, cols[0], "draft title")

	out, err := runTask(t, opts, "edit", task.ID, "--title", "final title", "--reason", "renamed for clarity")
	require.NoError(t, err)
	assert.Contains(t, out, "final title")
	assert.Contains(t, out, "renamed for clarity")
}

func TestTaskMove_CapacityError(t *testing.T) {
	opts := testRootOpts(t)
	_, cols := sprintBoardIDs(t, opts)

	var tasks []board.Task
	for _, title := range []string{"one", "two", "three"} {
		tasks = append(tasks, addTaskJSON(t, opts, cols[0], title))
	}

	for _, task := range tasks[:2] {
		out, err := runTask(t, opts, "move", task.ID, cols[1])
		require.NoError(t, err)
		assert.Contains(t, out, "moved")
	}

	_, err := runTask(t, opts, "move", tasks[2].ID, cols[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Doing")
	assert.Contains(t, err.Error(), "2")
}

func TestTaskMove_WithPosition(t *testing.T) {
	opts := testRootOpts(t)
	_, cols := sprintBoardIDs(t, opts)

	first := addTaskJSON(t, opts, cols[0], "first")
	second := addTaskJSON(t, opts, cols[0], "second")

	_, err := runTask(t, opts, "move", second.ID, cols[0], "--position", "0")
	require.NoError(t, err)

	opts.Format = "json"
	out, err := runTask(t, opts, "show", second.ID)
	require.NoError(t, err)
	var moved board.Task
	require.NoError(t, json.Unmarshal([]byte(out), &moved))
	assert.Equal(t, 0, moved.Position)

	out, err = runTask(t, opts, "show", first.ID)
	require.NoError(t, err)
	var displaced board.Task
	require.NoError(t, json.Unmarshal([]byte(out), &displaced))
	assert.Equal(t, 1, displaced.Position)
}

func TestTaskRm(t *testing.T) {
	opts := testRootOpts(t)
	_, cols := sprintBoardIDs(t, opts)
	task := addTaskJSON(t, opts, cols[0], "short-lived")

	out, err := runTask(t, opts, "rm", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	out, err = runTask(t, opts, "rm", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to delete")
}

func TestTaskList_Filters(t *testing.T) {
	opts := testRootOpts(t)
	b, cols := sprintBoardIDs(t, opts)

	noisy := addTaskJSON(t, opts, cols[0], "fix login bug")
	addTaskJSON(t, opts, cols[2], "write docs")

	_, err := runTask(t, opts, "edit", noisy.ID, "--reason", "blocked on review")
	require.NoError(t, err)

	out, err := runTask(t, opts, "list", "--board", b.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "fix login bug")
	assert.Contains(t, out, "write docs")

	out, err = runTask(t, opts, "list", "--column", cols[2])
	require.NoError(t, err)
	assert.NotContains(t, out, "fix login bug")
	assert.Contains(t, out, "write docs")

	out, err = runTask(t, opts, "list", "--search", "LOGIN")
	require.NoError(t, err)
	assert.Contains(t, out, "fix login bug")
	assert.NotContains(t, out, "write docs")

	out, err = runTask(t, opts, "list", "--with-reason")
	require.NoError(t, err)
	assert.Contains(t, out, "fix login bug")
	assert.NotContains(t, out, "write docs")
}
