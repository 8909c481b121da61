package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/corkboard/internal/board"
)

const taskColumns = `id, column_id, title, content, position, update_reason, metadata, created_at, updated_at`

// InsertTask inserts a task row at its assigned position.
// The owning column must already exist (foreign key).
func InsertTask(ctx context.Context, q Querier, t board.Task) error {
	meta, err := marshalMetadata(t.Metadata)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO tasks (id, column_id, title, content, position, update_reason, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.ColumnID, t.Title, t.Content, t.Position, t.UpdateReason, meta, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetTask retrieves a single task by ID.
// Returns sql.ErrNoRows if not found.
func GetTask(ctx context.Context, q Querier, id string) (board.Task, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+taskColumns+` FROM tasks WHERE id = ?
	`, id)
	return scanTask(row)
}

// ListTasksByColumn returns a column's tasks ordered by position.
func ListTasksByColumn(ctx context.Context, q Querier, columnID string) ([]board.Task, error) {
	return queryTasks(ctx, q, `
		SELECT `+taskColumns+` FROM tasks
		WHERE column_id = ?
		ORDER BY position ASC
	`, columnID)
}

// ListTasks returns tasks matching the filter's structural conditions
// (column, board, update-reason presence, date bounds), newest first.
// Substring search is applied by the caller; applyLimit lets the
// caller defer pagination until after search filtering.
func ListTasks(ctx context.Context, q Querier, f board.TaskFilter, applyLimit bool) ([]board.Task, error) {
	query := `SELECT t.id, t.column_id, t.title, t.content, t.position, t.update_reason, t.metadata, t.created_at, t.updated_at FROM tasks t`
	var (
		conds []string
		args  []any
	)
	if f.BoardID != "" {
		query += ` JOIN columns c ON t.column_id = c.id`
		conds = append(conds, `c.board_id = ?`)
		args = append(args, f.BoardID)
	}
	if f.ColumnID != "" {
		conds = append(conds, `t.column_id = ?`)
		args = append(args, f.ColumnID)
	}
	if f.HasUpdateReason != nil {
		if *f.HasUpdateReason {
			conds = append(conds, `t.update_reason != ''`)
		} else {
			conds = append(conds, `t.update_reason = ''`)
		}
	}
	if f.CreatedAfter != nil {
		conds = append(conds, `t.created_at >= ?`)
		args = append(args, f.CreatedAfter.UTC())
	}
	if f.CreatedBefore != nil {
		conds = append(conds, `t.created_at <= ?`)
		args = append(args, f.CreatedBefore.UTC())
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY t.created_at DESC, t.id ASC`
	if applyLimit && f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	return queryTasks(ctx, q, query, args...)
}

// UpdateTaskRow writes back a task's mutable fields, including its
// column and position (moves go through here).
func UpdateTaskRow(ctx context.Context, q Querier, t board.Task) error {
	meta, err := marshalMetadata(t.Metadata)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	_, err = q.ExecContext(ctx, `
		UPDATE tasks
		SET column_id = ?, title = ?, content = ?, position = ?, update_reason = ?, metadata = ?, updated_at = ?
		WHERE id = ?
	`, t.ColumnID, t.Title, t.Content, t.Position, t.UpdateReason, meta, t.UpdatedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// ShiftPositions adds delta to the position of every task in the
// column with position >= from. Used to open a slot before a
// mid-column insert (delta=+1) or close one after a removal (delta=-1).
func ShiftPositions(ctx context.Context, q Querier, columnID string, from, delta int) error {
	_, err := q.ExecContext(ctx, `
		UPDATE tasks SET position = position + ? WHERE column_id = ? AND position >= ?
	`, delta, columnID, from)
	if err != nil {
		return fmt.Errorf("shift positions: %w", err)
	}
	return nil
}

// ShiftPositionRange adds delta to the position of every task in the
// column with lo <= position <= hi. Used for same-column reorders,
// where only the tasks between the old and new slot move.
func ShiftPositionRange(ctx context.Context, q Querier, columnID string, lo, hi, delta int) error {
	_, err := q.ExecContext(ctx, `
		UPDATE tasks SET position = position + ? WHERE column_id = ? AND position BETWEEN ? AND ?
	`, delta, columnID, lo, hi)
	if err != nil {
		return fmt.Errorf("shift position range: %w", err)
	}
	return nil
}

// DeleteTask removes a task row and returns the affected count.
func DeleteTask(ctx context.Context, q Querier, id string) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete task: rows affected: %w", err)
	}
	return n, nil
}

// DeleteTasksByBoard removes every task on a board and returns the
// affected count. First step of the explicit board delete cascade.
func DeleteTasksByBoard(ctx context.Context, q Querier, boardID string) (int64, error) {
	res, err := q.ExecContext(ctx, `
		DELETE FROM tasks WHERE column_id IN (SELECT id FROM columns WHERE board_id = ?)
	`, boardID)
	if err != nil {
		return 0, fmt.Errorf("delete board tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete board tasks: rows affected: %w", err)
	}
	return n, nil
}

// queryTasks is the shared helper for task-list queries.
func queryTasks(ctx context.Context, q Querier, query string, args ...any) ([]board.Task, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []board.Task
	for rows.Next() {
		t, err := scanTaskRows(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	// Return empty slice instead of nil
	if tasks == nil {
		tasks = []board.Task{}
	}
	return tasks, nil
}

// scanTask scans a single task from a *sql.Row.
func scanTask(row *sql.Row) (board.Task, error) {
	var (
		t    board.Task
		meta sql.NullString
	)
	err := row.Scan(&t.ID, &t.ColumnID, &t.Title, &t.Content, &t.Position,
		&t.UpdateReason, &meta, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return board.Task{}, err
	}
	if t.Metadata, err = unmarshalMetadata(meta); err != nil {
		return board.Task{}, fmt.Errorf("scan task: %w", err)
	}
	return t, nil
}

// scanTaskRows scans a single task from *sql.Rows.
func scanTaskRows(rows *sql.Rows) (board.Task, error) {
	var (
		t    board.Task
		meta sql.NullString
	)
	err := rows.Scan(&t.ID, &t.ColumnID, &t.Title, &t.Content, &t.Position,
		&t.UpdateReason, &meta, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return board.Task{}, fmt.Errorf("scan task: %w", err)
	}
	if t.Metadata, err = unmarshalMetadata(meta); err != nil {
		return board.Task{}, fmt.Errorf("scan task: %w", err)
	}
	return t, nil
}
