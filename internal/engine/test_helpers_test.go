package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/corkboard/internal/board"
	"github.com/roach88/corkboard/internal/store"
)

// newTestEngine creates an engine over a fresh temp database.
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, opts...)
}

// sprintColumns is the standard three-column board used across tests:
// an unlimited To Do (landing), a Doing with WIP limit 2, and a Done.
func sprintColumns() []board.ColumnDef {
	return []board.ColumnDef{
		{Name: "To Do", Position: 0},
		{Name: "Doing", Position: 1, WIPLimit: 2},
		{Name: "Done", Position: 2, IsDone: true},
	}
}

// createSprintBoard creates the standard board and returns it with its
// columns ordered by position.
func createSprintBoard(t *testing.T, e *Engine) (board.Board, []board.Column) {
	t.Helper()
	ctx := context.Background()

	b, err := e.CreateBoard(ctx, "Sprint 1", "ship it", sprintColumns(), 0)
	require.NoError(t, err)

	tree, err := e.GetBoardTree(ctx, b.ID)
	require.NoError(t, err)

	cols := make([]board.Column, len(tree.Columns))
	for i, ct := range tree.Columns {
		cols[i] = ct.Column
	}
	return b, cols
}

// columnPositions returns the task positions of a column in task order.
func columnPositions(t *testing.T, e *Engine, boardID, columnID string) []int {
	t.Helper()
	tree, err := e.GetBoardTree(context.Background(), boardID)
	require.NoError(t, err)

	for _, col := range tree.Columns {
		if col.ID == columnID {
			positions := make([]int, 0, len(col.Tasks))
			for _, task := range col.Tasks {
				positions = append(positions, task.Position)
			}
			return positions
		}
	}
	t.Fatalf("column %s not found on board %s", columnID, boardID)
	return nil
}

// requireDense asserts that a column's task positions are exactly
// {0..n-1} in order.
func requireDense(t *testing.T, e *Engine, boardID, columnID string) {
	t.Helper()
	positions := columnPositions(t, e, boardID, columnID)
	for i, p := range positions {
		require.Equal(t, i, p, "position at index %d", i)
	}
}
