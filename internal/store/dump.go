package store

import (
	"context"
	"fmt"

	"github.com/roach88/corkboard/internal/board"
)

// Whole-table access for the export/import serializer. Deterministic
// ordering keeps exports reproducible: boards newest first, columns by
// (board, position), tasks by (column, position).

// ListAllBoards returns every board row.
func ListAllBoards(ctx context.Context, q Querier) ([]board.Board, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+boardColumns+` FROM boards ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all boards: %w", err)
	}
	defer rows.Close()

	boards := []board.Board{}
	for rows.Next() {
		b, err := scanBoardRows(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate all boards: %w", err)
	}
	return boards, nil
}

// ListAllColumns returns every column row.
func ListAllColumns(ctx context.Context, q Querier) ([]board.Column, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+columnColumns+` FROM columns ORDER BY board_id ASC, position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query all columns: %w", err)
	}
	defer rows.Close()

	cols := []board.Column{}
	for rows.Next() {
		var c board.Column
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Name, &c.Position, &c.WIPLimit, &c.IsDone); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate all columns: %w", err)
	}
	return cols, nil
}

// ListAllTasks returns every task row.
func ListAllTasks(ctx context.Context, q Querier) ([]board.Task, error) {
	return queryTasks(ctx, q, `
		SELECT `+taskColumns+` FROM tasks ORDER BY column_id ASC, position ASC, id ASC
	`)
}

// WipeAll deletes every row in foreign-key order. Landing references
// are cleared first so columns can go before boards.
func WipeAll(ctx context.Context, q Querier) error {
	steps := []string{
		`UPDATE boards SET landing_column_id = NULL`,
		`DELETE FROM tasks`,
		`DELETE FROM columns`,
		`DELETE FROM boards`,
	}
	for _, stmt := range steps {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("wipe store: %w", err)
		}
	}
	return nil
}
