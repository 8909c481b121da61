package engine

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/roach88/corkboard/internal/board"
	"github.com/roach88/corkboard/internal/search"
	"github.com/roach88/corkboard/internal/store"
)

// CreateBoard creates a board together with its columns and landing
// column in one atomic unit. Column definitions are inserted with the
// caller-supplied positions; the board's landing reference is
// back-patched to the column at landingIndex once that column exists.
//
// Nothing is persisted if any step fails.
func (e *Engine) CreateBoard(ctx context.Context, name, goal string, defs []board.ColumnDef, landingIndex int) (board.Board, error) {
	if strings.TrimSpace(name) == "" {
		return board.Board{}, NewValidationError("board name must not be empty")
	}
	if len(defs) == 0 {
		return board.Board{}, NewValidationError("board needs at least one column")
	}
	if landingIndex < 0 || landingIndex >= len(defs) {
		return board.Board{}, NewValidationError("landing column index %d out of range [0,%d)", landingIndex, len(defs))
	}
	// Positions must be exactly {0..n-1}: in range and unique means dense.
	seen := make(map[int]bool, len(defs))
	for i, def := range defs {
		if strings.TrimSpace(def.Name) == "" {
			return board.Board{}, NewValidationError("column %d has an empty name", i)
		}
		if def.WIPLimit < 0 {
			return board.Board{}, NewValidationError("column %q has a negative WIP limit", def.Name)
		}
		if def.Position < 0 || def.Position >= len(defs) || seen[def.Position] {
			return board.Board{}, NewValidationError("column %q has position %d, want each of 0..%d exactly once", def.Name, def.Position, len(defs)-1)
		}
		seen[def.Position] = true
	}

	now := e.now()
	b := board.Board{
		ID:        e.newID(),
		Name:      name,
		Goal:      goal,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := e.inTx(ctx, "create board", func(tx *sql.Tx) error {
		if err := store.InsertBoard(ctx, tx, b); err != nil {
			return err
		}

		var landingID string
		for i, def := range defs {
			col := board.Column{
				ID:       e.newID(),
				BoardID:  b.ID,
				Name:     def.Name,
				Position: def.Position,
				WIPLimit: def.WIPLimit,
				IsDone:   def.IsDone,
			}
			if err := store.InsertColumn(ctx, tx, col); err != nil {
				return err
			}
			if i == landingIndex {
				landingID = col.ID
			}
		}

		if err := store.SetLandingColumn(ctx, tx, b.ID, landingID); err != nil {
			return err
		}
		b.LandingColumnID = &landingID
		return nil
	})
	if err != nil {
		return board.Board{}, err
	}

	e.log.Info("board created", "board", b.ID, "name", b.Name, "columns", len(defs))
	return b, nil
}

// GetBoard returns a single board by id.
func (e *Engine) GetBoard(ctx context.Context, id string) (board.Board, error) {
	b, err := store.GetBoard(ctx, e.store.DB(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return board.Board{}, NewNotFoundError("board", id)
	}
	if err != nil {
		return board.Board{}, NewStorageError("get board", err)
	}
	return b, nil
}

// GetBoardTree assembles a board with its columns ordered by position
// and each column's tasks ordered by position, plus the derived
// capacity fields. The whole tree is read in one transaction so the
// snapshot is consistent.
func (e *Engine) GetBoardTree(ctx context.Context, id string) (board.BoardTree, error) {
	var tree board.BoardTree
	err := e.inTx(ctx, "get board tree", func(tx *sql.Tx) error {
		b, err := store.GetBoard(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("board", id)
		}
		if err != nil {
			return err
		}

		cols, err := store.ListColumnsByBoard(ctx, tx, id)
		if err != nil {
			return err
		}

		tree = board.BoardTree{Board: b, Columns: make([]board.ColumnTree, 0, len(cols))}
		for _, col := range cols {
			tasks, err := store.ListTasksByColumn(ctx, tx, col.ID)
			if err != nil {
				return err
			}
			n := len(tasks)
			tree.Columns = append(tree.Columns, board.ColumnTree{
				Column:         col,
				Tasks:          tasks,
				TaskCount:      n,
				IsAtCapacity:   AtCapacity(col, n),
				IsNearCapacity: NearCapacity(col, n),
				IsLanding:      b.LandingColumnID != nil && *b.LandingColumnID == col.ID,
			})
		}
		return nil
	})
	if err != nil {
		return board.BoardTree{}, err
	}
	return tree, nil
}

// ListBoards returns boards matching the filter, newest-created first.
// Substring search covers name and goal.
func (e *Engine) ListBoards(ctx context.Context, f board.BoardFilter) ([]board.Board, error) {
	boards, err := store.ListBoards(ctx, e.store.DB(), f)
	if err != nil {
		return nil, NewStorageError("list boards", err)
	}
	if f.Search == "" {
		return boards, nil
	}

	matched := []board.Board{}
	for _, b := range boards {
		if search.Match(f.Search, b.Name, b.Goal) {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

// UpdateBoard applies a partial edit to a board's name and goal.
func (e *Engine) UpdateBoard(ctx context.Context, id string, upd board.BoardUpdate) (board.Board, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return board.Board{}, NewValidationError("board name must not be empty")
	}

	var b board.Board
	err := e.inTx(ctx, "update board", func(tx *sql.Tx) error {
		var err error
		b, err = store.GetBoard(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("board", id)
		}
		if err != nil {
			return err
		}

		if upd.Name != nil {
			b.Name = *upd.Name
		}
		if upd.Goal != nil {
			b.Goal = *upd.Goal
		}
		b.UpdatedAt = e.now()
		return store.UpdateBoardRow(ctx, tx, b)
	})
	if err != nil {
		return board.Board{}, err
	}

	e.log.Info("board updated", "board", b.ID)
	return b, nil
}

// DeleteBoard removes a board, cascading over its columns and tasks as
// an explicit transactional sequence (tasks, then columns, then the
// board). Returns the number of boards deleted: 0 when the board was
// already absent, which is not an error.
func (e *Engine) DeleteBoard(ctx context.Context, id string) (int64, error) {
	var deleted int64
	err := e.inTx(ctx, "delete board", func(tx *sql.Tx) error {
		if err := store.ClearLandingColumn(ctx, tx, id); err != nil {
			return err
		}
		if _, err := store.DeleteTasksByBoard(ctx, tx, id); err != nil {
			return err
		}
		if _, err := store.DeleteColumnsByBoard(ctx, tx, id); err != nil {
			return err
		}
		var err error
		deleted, err = store.DeleteBoard(ctx, tx, id)
		return err
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		e.log.Info("board deleted", "board", id)
	}
	return deleted, nil
}
