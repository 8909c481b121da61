package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/corkboard/internal/board"
)

const boardColumns = `id, name, goal, landing_column_id, created_at, updated_at`

// InsertBoard inserts a board row. LandingColumnID may be nil; it is
// back-patched via SetLandingColumn once the board's columns exist.
func InsertBoard(ctx context.Context, q Querier, b board.Board) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO boards (id, name, goal, landing_column_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.Name, b.Goal, b.LandingColumnID, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert board: %w", err)
	}
	return nil
}

// SetLandingColumn back-patches a board's landing column reference.
func SetLandingColumn(ctx context.Context, q Querier, boardID, columnID string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE boards SET landing_column_id = ? WHERE id = ?`, columnID, boardID)
	if err != nil {
		return fmt.Errorf("set landing column: %w", err)
	}
	return nil
}

// GetBoard retrieves a single board by ID.
// Returns sql.ErrNoRows if not found.
func GetBoard(ctx context.Context, q Querier, id string) (board.Board, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+boardColumns+` FROM boards WHERE id = ?
	`, id)
	return scanBoard(row)
}

// ListBoards returns boards matching the filter's date bounds,
// newest-created first (ties broken by id for determinism). Substring
// search is applied by the caller, which owns text normalization.
func ListBoards(ctx context.Context, q Querier, f board.BoardFilter) ([]board.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards`
	var (
		conds []string
		args  []any
	)
	if f.CreatedAfter != nil {
		conds = append(conds, `created_at >= ?`)
		args = append(args, f.CreatedAfter.UTC())
	}
	if f.CreatedBefore != nil {
		conds = append(conds, `created_at <= ?`)
		args = append(args, f.CreatedBefore.UTC())
	}
	for i, c := range conds {
		if i == 0 {
			query += ` WHERE ` + c
		} else {
			query += ` AND ` + c
		}
	}
	query += ` ORDER BY created_at DESC, id ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query boards: %w", err)
	}
	defer rows.Close()

	var boards []board.Board
	for rows.Next() {
		b, err := scanBoardRows(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate boards: %w", err)
	}

	// Return empty slice instead of nil
	if boards == nil {
		boards = []board.Board{}
	}
	return boards, nil
}

// UpdateBoardRow writes back a board's mutable fields.
func UpdateBoardRow(ctx context.Context, q Querier, b board.Board) error {
	_, err := q.ExecContext(ctx, `
		UPDATE boards SET name = ?, goal = ?, updated_at = ? WHERE id = ?
	`, b.Name, b.Goal, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("update board: %w", err)
	}
	return nil
}

// ClearLandingColumn nulls a board's landing reference so its columns
// can be deleted without violating the foreign key.
func ClearLandingColumn(ctx context.Context, q Querier, boardID string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE boards SET landing_column_id = NULL WHERE id = ?`, boardID)
	if err != nil {
		return fmt.Errorf("clear landing column: %w", err)
	}
	return nil
}

// DeleteBoard removes a board row and returns the affected count.
func DeleteBoard(ctx context.Context, q Querier, id string) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete board: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete board: rows affected: %w", err)
	}
	return n, nil
}

// scanBoard scans a single board from a *sql.Row.
func scanBoard(row *sql.Row) (board.Board, error) {
	var (
		b       board.Board
		landing sql.NullString
	)
	err := row.Scan(&b.ID, &b.Name, &b.Goal, &landing, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return board.Board{}, err
	}
	if landing.Valid {
		b.LandingColumnID = &landing.String
	}
	return b, nil
}

// scanBoardRows scans a single board from *sql.Rows.
func scanBoardRows(rows *sql.Rows) (board.Board, error) {
	var (
		b       board.Board
		landing sql.NullString
	)
	err := rows.Scan(&b.ID, &b.Name, &b.Goal, &landing, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return board.Board{}, fmt.Errorf("scan board: %w", err)
	}
	if landing.Valid {
		b.LandingColumnID = &landing.String
	}
	return b, nil
}
