package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runExportCmd(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewExportCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func runImportCmd(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewImportCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestExport_EmptyStoreToStdout(t *testing.T) {
	opts := testRootOpts(t)

	out, err := runExportCmd(t, opts)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Empty(t, doc["boards"])
	assert.Empty(t, doc["columns"])
	assert.Empty(t, doc["tasks"])
}

func TestExportImport_RoundTripThroughFile(t *testing.T) {
	opts := testRootOpts(t)
	_, cols := sprintBoardIDs(t, opts)
	addTaskJSON(t, opts, cols[0], "survives the trip")

	file := filepath.Join(t.TempDir(), "snapshot.json")
	out, err := runExportCmd(t, opts, "-o", file)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 1 boards, 3 columns, 1 tasks")

	// Import into a second, empty database.
	second := testRootOpts(t)
	out, err = runImportCmd(t, second, file)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 boards, 3 columns, 1 tasks")

	listed, err := runTask(t, second, "list")
	require.NoError(t, err)
	assert.Contains(t, listed, "survives the trip")
}

func TestImport_RejectsMalformedFile(t *testing.T) {
	opts := testRootOpts(t)

	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"boards": []}`), 0644))

	_, err := runImportCmd(t, opts, file)
	require.Error(t, err)
}

func TestImport_MissingFile(t *testing.T) {
	opts := testRootOpts(t)

	_, err := runImportCmd(t, opts, filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read snapshot")
}
