package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/corkboard/internal/board"
)

// testRootOpts points every command at a throwaway database with no
// config file, so defaults apply and nothing leaks between tests.
func testRootOpts(t *testing.T) *RootOptions {
	t.Helper()
	dir := t.TempDir()
	return &RootOptions{
		ConfigPath: filepath.Join(dir, "no-config.yaml"),
		DBPath:     filepath.Join(dir, "test.db"),
		Format:     "text",
	}
}

func runBoard(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewBoardCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// createBoardJSON creates a board through the command surface and
// returns the decoded result.
func createBoardJSON(t *testing.T, opts *RootOptions, args ...string) board.Board {
	t.Helper()
	prev := opts.Format
	opts.Format = "json"
	defer func() { opts.Format = prev }()

	out, err := runBoard(t, opts, append([]string{"create"}, args...)...)
	require.NoError(t, err)

	var b board.Board
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	return b
}

func TestBoardCreate_FromColumnFlags(t *testing.T) {
	opts := testRootOpts(t)

	b := createBoardJSON(t, opts, "Sprint 1",
		"--goal", "Ship the beta",
		"--column", "To Do",
		"--column", "Doing:2",
		"--column", "Done:0:done",
		"--landing", "0",
	)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "Sprint 1", b.Name)
	assert.Equal(t, "Ship the beta", b.Goal)
	require.NotNil(t, b.LandingColumnID)

	out, err := runBoard(t, opts, "show", b.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Sprint 1")
	assert.Contains(t, out, "To Do <landing>")
	assert.Contains(t, out, "Doing  0/2")
	assert.Contains(t, out, "Done <done>")
}

func TestBoardCreate_FromTemplate(t *testing.T) {
	opts := testRootOpts(t)

	tpl := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(tpl, []byte(`
goal: Clear the queue
landing_index: 1
columns:
  - name: Triage
  - name: Working
    wip_limit: 3
  - name: Shipped
    is_done: true
`), 0644))

	b := createBoardJSON(t, opts, "Support", "--from", tpl)
	assert.Equal(t, "Clear the queue", b.Goal)

	out, err := runBoard(t, opts, "show", b.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Working <landing>  0/3")
	assert.Contains(t, out, "Shipped <done>")
}

func TestBoardCreate_InvalidColumnSpec(t *testing.T) {
	opts := testRootOpts(t)

	_, err := runBoard(t, opts, "create", "Broken", "--column", "To Do:abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WIP limit")

	_, err = runBoard(t, opts, "create", "Broken", "--column", "To Do:2:urgent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid marker")
}

func TestBoardList_SearchAndDates(t *testing.T) {
	opts := testRootOpts(t)

	createBoardJSON(t, opts, "Sprint 1", "--goal", "ship it", "--column", "To Do")
	createBoardJSON(t, opts, "Marketing", "--column", "Ideas")

	out, err := runBoard(t, opts, "list", "--search", "SHIP")
	require.NoError(t, err)
	assert.Contains(t, out, "Sprint 1")
	assert.NotContains(t, out, "Marketing")

	out, err = runBoard(t, opts, "list", "--until", "2000-01-01")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = runBoard(t, opts, "list", "--since", "not-a-date")
	require.Error(t, err)
}

func TestBoardUpdate(t *testing.T) {
	opts := testRootOpts(t)
	b := createBoardJSON(t, opts, "Old Name", "--column", "To Do")

	out, err := runBoard(t, opts, "update", b.ID, "--name", "New Name")
	require.NoError(t, err)
	assert.Contains(t, out, "New Name")
}

func TestBoardRm(t *testing.T) {
	opts := testRootOpts(t)
	b := createBoardJSON(t, opts, "Doomed", "--column", "To Do")

	out, err := runBoard(t, opts, "rm", b.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	out, err = runBoard(t, opts, "rm", b.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "nothing to delete")
}

func TestParseColumnSpec(t *testing.T) {
	tests := []struct {
		spec    string
		want    board.ColumnDef
		wantErr bool
	}{
		{spec: "To Do", want: board.ColumnDef{Name: "To Do"}},
		{spec: "Doing:2", want: board.ColumnDef{Name: "Doing", WIPLimit: 2}},
		{spec: "Done:0:done", want: board.ColumnDef{Name: "Done", IsDone: true}},
		{spec: "Done::done", want: board.ColumnDef{Name: "Done", IsDone: true}},
		{spec: "Bad:-1", wantErr: true},
		{spec: "Bad:x", wantErr: true},
		{spec: "Bad:1:nope", wantErr: true},
		// Colon-bearing names are rejected, never quietly truncated.
		{spec: "Ops:triage", wantErr: true},
		{spec: "Ops:triage:2", wantErr: true},
		{spec: "Ops:triage:0:done", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := parseColumnSpec(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeFlag(t *testing.T) {
	got, err := parseTimeFlag("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseTimeFlag("2026-03-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = parseTimeFlag("2026-03-01T09:30:00Z")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC), *got)

	_, err = parseTimeFlag("yesterday")
	require.Error(t, err)
}
