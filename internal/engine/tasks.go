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

// CreateTask inserts a task at the end of a column, subject to the
// column's WIP limit. The column load, occupancy read, capacity check,
// and insert all happen in one transaction; contention is retried with
// backoff by the transaction combinator, capacity rejections are
// returned immediately and never retried.
func (e *Engine) CreateTask(ctx context.Context, columnID, title, content string, metadata map[string]any) (board.Task, error) {
	if strings.TrimSpace(title) == "" {
		return board.Task{}, NewValidationError("task title must not be empty")
	}

	now := e.now()
	t := board.Task{
		ID:        e.newID(),
		ColumnID:  columnID,
		Title:     title,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := e.inTx(ctx, "create task", func(tx *sql.Tx) error {
		col, err := store.GetColumn(ctx, tx, columnID)
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("column", columnID)
		}
		if err != nil {
			return err
		}

		occupancy, err := nextPosition(ctx, tx, columnID)
		if err != nil {
			return err
		}
		if err := Admit(col, occupancy); err != nil {
			return err
		}

		t.Position = occupancy
		return store.InsertTask(ctx, tx, t)
	})
	if err != nil {
		return board.Task{}, err
	}

	e.log.Info("task created", "task", t.ID, "column", t.ColumnID, "position", t.Position)
	return t, nil
}

// GetTask returns a single task by id.
func (e *Engine) GetTask(ctx context.Context, id string) (board.Task, error) {
	t, err := store.GetTask(ctx, e.store.DB(), id)
	if errors.Is(err, sql.ErrNoRows) {
		return board.Task{}, NewNotFoundError("task", id)
	}
	if err != nil {
		return board.Task{}, NewStorageError("get task", err)
	}
	return t, nil
}

// UpdateTask applies a partial edit to a task's title, content, update
// reason, and metadata. Position and column are never touched; moves
// go through MoveTask.
func (e *Engine) UpdateTask(ctx context.Context, id string, upd board.TaskUpdate) (board.Task, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return board.Task{}, NewValidationError("task title must not be empty")
	}

	var t board.Task
	err := e.inTx(ctx, "update task", func(tx *sql.Tx) error {
		var err error
		t, err = store.GetTask(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("task", id)
		}
		if err != nil {
			return err
		}

		if upd.Title != nil {
			t.Title = *upd.Title
		}
		if upd.Content != nil {
			t.Content = *upd.Content
		}
		if upd.UpdateReason != nil {
			t.UpdateReason = *upd.UpdateReason
		}
		if upd.Metadata != nil {
			t.Metadata = upd.Metadata
		}
		t.UpdatedAt = e.now()
		return store.UpdateTaskRow(ctx, tx, t)
	})
	if err != nil {
		return board.Task{}, err
	}

	e.log.Info("task updated", "task", t.ID)
	return t, nil
}

// MoveTask moves a task to a target column, at the requested position
// or appended to the end. Cross-column moves re-run the capacity guard
// against the target's occupancy; moves within the same column are
// always admitted, since the task already counts against that column.
//
// The move always records updateReason: the provided value, or empty
// when none is given (a stale reason from an earlier move must not
// survive).
func (e *Engine) MoveTask(ctx context.Context, taskID, targetColumnID string, position *int, updateReason string) error {
	err := e.inTx(ctx, "move task", func(tx *sql.Tx) error {
		t, err := store.GetTask(ctx, tx, taskID)
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("task", taskID)
		}
		if err != nil {
			return err
		}

		target, err := store.GetColumn(ctx, tx, targetColumnID)
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("column", targetColumnID)
		}
		if err != nil {
			return err
		}

		if t.ColumnID == target.ID {
			return e.moveWithinColumn(ctx, tx, t, position, updateReason)
		}
		return e.moveAcrossColumns(ctx, tx, t, target, position, updateReason)
	})
	if err != nil {
		return err
	}

	e.log.Info("task moved", "task", taskID, "column", targetColumnID)
	return nil
}

// moveWithinColumn repositions a task inside its own column. No
// capacity check: occupancy doesn't change.
func (e *Engine) moveWithinColumn(ctx context.Context, tx *sql.Tx, t board.Task, position *int, updateReason string) error {
	occupancy, err := nextPosition(ctx, tx, t.ColumnID)
	if err != nil {
		return err
	}

	// Default is append: the last slot once the task is re-seated.
	newPos := occupancy - 1
	if position != nil {
		newPos = clampPosition(*position, occupancy-1)
	}

	switch {
	case newPos == t.Position:
		// No repositioning, but the reason and timestamp still update.
	case newPos > t.Position:
		// Siblings between old and new slide down one.
		if err := store.ShiftPositionRange(ctx, tx, t.ColumnID, t.Position+1, newPos, -1); err != nil {
			return err
		}
	default:
		// Siblings between new and old slide up one.
		if err := store.ShiftPositionRange(ctx, tx, t.ColumnID, newPos, t.Position-1, +1); err != nil {
			return err
		}
	}

	t.Position = newPos
	t.UpdateReason = updateReason
	t.UpdatedAt = e.now()
	return store.UpdateTaskRow(ctx, tx, t)
}

// moveAcrossColumns re-seats a task in a different column, gated by
// the target's capacity, then compacts the source column.
func (e *Engine) moveAcrossColumns(ctx context.Context, tx *sql.Tx, t board.Task, target board.Column, position *int, updateReason string) error {
	occupancy, err := nextPosition(ctx, tx, target.ID)
	if err != nil {
		return err
	}
	if err := Admit(target, occupancy); err != nil {
		return err
	}

	newPos := occupancy
	if position != nil {
		newPos = clampPosition(*position, occupancy)
	}
	if err := openSlot(ctx, tx, target.ID, newPos, occupancy); err != nil {
		return err
	}

	oldColumn, oldPos := t.ColumnID, t.Position
	t.ColumnID = target.ID
	t.Position = newPos
	t.UpdateReason = updateReason
	t.UpdatedAt = e.now()
	if err := store.UpdateTaskRow(ctx, tx, t); err != nil {
		return err
	}

	return closeGap(ctx, tx, oldColumn, oldPos)
}

// DeleteTask removes a task and compacts its column. Returns the
// number of tasks deleted: 0 when the task was already absent, which
// is not an error.
func (e *Engine) DeleteTask(ctx context.Context, id string) (int64, error) {
	var deleted int64
	err := e.inTx(ctx, "delete task", func(tx *sql.Tx) error {
		t, err := store.GetTask(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			deleted = 0
			return nil
		}
		if err != nil {
			return err
		}

		deleted, err = store.DeleteTask(ctx, tx, id)
		if err != nil {
			return err
		}
		return closeGap(ctx, tx, t.ColumnID, t.Position)
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		e.log.Info("task deleted", "task", id)
	}
	return deleted, nil
}

// ListTasks returns tasks matching the filter, newest-created first.
// Substring search covers title and content. When a search term is
// given, pagination applies to the matched set, not the raw rows.
func (e *Engine) ListTasks(ctx context.Context, f board.TaskFilter) ([]board.Task, error) {
	if f.Search == "" {
		tasks, err := store.ListTasks(ctx, e.store.DB(), f, true)
		if err != nil {
			return nil, NewStorageError("list tasks", err)
		}
		return tasks, nil
	}

	tasks, err := store.ListTasks(ctx, e.store.DB(), f, false)
	if err != nil {
		return nil, NewStorageError("list tasks", err)
	}

	matched := []board.Task{}
	for _, t := range tasks {
		if search.Match(f.Search, t.Title, t.Content) {
			matched = append(matched, t)
		}
	}

	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			return []board.Task{}, nil
		}
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, nil
}
