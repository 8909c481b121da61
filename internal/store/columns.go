package store

import (
	"context"
	"fmt"

	"github.com/roach88/corkboard/internal/board"
)

const columnColumns = `id, board_id, name, position, wip_limit, is_done_column`

// InsertColumn inserts a column row, preserving the caller-supplied
// position. The owning board must already exist (foreign key).
func InsertColumn(ctx context.Context, q Querier, c board.Column) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO columns (id, board_id, name, position, wip_limit, is_done_column)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.ID, c.BoardID, c.Name, c.Position, c.WIPLimit, c.IsDone)
	if err != nil {
		return fmt.Errorf("insert column: %w", err)
	}
	return nil
}

// GetColumn retrieves a single column by ID.
// Returns sql.ErrNoRows if not found.
func GetColumn(ctx context.Context, q Querier, id string) (board.Column, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+columnColumns+` FROM columns WHERE id = ?
	`, id)

	var c board.Column
	err := row.Scan(&c.ID, &c.BoardID, &c.Name, &c.Position, &c.WIPLimit, &c.IsDone)
	if err != nil {
		return board.Column{}, err
	}
	return c, nil
}

// ListColumnsByBoard returns a board's columns ordered by position.
func ListColumnsByBoard(ctx context.Context, q Querier, boardID string) ([]board.Column, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+columnColumns+` FROM columns
		WHERE board_id = ?
		ORDER BY position ASC
	`, boardID)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var cols []board.Column
	for rows.Next() {
		var c board.Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Name, &c.Position, &c.WIPLimit, &c.IsDone); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	// Return empty slice instead of nil
	if cols == nil {
		cols = []board.Column{}
	}
	return cols, nil
}

// CountTasks returns the number of tasks resident in a column.
// This is the column's occupancy for capacity decisions and doubles
// as the next append position.
func CountTasks(ctx context.Context, q Querier, columnID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE column_id = ?`, columnID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

// DeleteColumnsByBoard removes all columns of a board and returns the
// affected count. The board's landing reference and the columns' tasks
// must be gone first (foreign keys).
func DeleteColumnsByBoard(ctx context.Context, q Querier, boardID string) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM columns WHERE board_id = ?`, boardID)
	if err != nil {
		return 0, fmt.Errorf("delete columns: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete columns: rows affected: %w", err)
	}
	return n, nil
}
