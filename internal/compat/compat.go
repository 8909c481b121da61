// Package compat exposes the previous API generation's call shapes on
// top of the current engine, so both client generations operate
// against one store without duplicated logic.
//
// The adapter is a fixed translation table, one method per legacy
// operation - no reflection, no runtime shape inspection. It performs
// no business logic of its own and preserves the engine's typed errors
// except where the legacy contract documented an absent-value return,
// noted per method.
package compat

import (
	"context"

	"github.com/roach88/corkboard/internal/board"
	"github.com/roach88/corkboard/internal/engine"
)

// Column is the legacy column definition: no explicit position, order
// is the slice order.
type Column struct {
	Name         string
	WIPLimit     int
	IsDoneColumn bool
}

// Adapter translates legacy call shapes onto an Engine.
type Adapter struct {
	engine *engine.Engine
}

// New creates an Adapter over the given engine.
func New(e *engine.Engine) *Adapter {
	return &Adapter{engine: e}
}

// CreateBoard creates a board from legacy column definitions, taking
// an explicit landingColumnPosition instead of returning a landing
// column id. Positions are assigned from slice order, and
// landingColumnPosition selects by that position value.
func (a *Adapter) CreateBoard(ctx context.Context, name, goal string, columns []Column, landingColumnPosition int) (string, error) {
	defs := make([]board.ColumnDef, len(columns))
	for i, c := range columns {
		defs[i] = board.ColumnDef{
			Name:     c.Name,
			Position: i,
			WIPLimit: c.WIPLimit,
			IsDone:   c.IsDoneColumn,
		}
	}

	b, err := a.engine.CreateBoard(ctx, name, goal, defs, landingColumnPosition)
	if err != nil {
		return "", err
	}
	return b.ID, nil
}

// GetBoard returns the board, or nil when it doesn't exist. The legacy
// contract returned an absent value on a missing board rather than an
// error; every other failure still propagates.
func (a *Adapter) GetBoard(ctx context.Context, id string) (*board.Board, error) {
	b, err := a.engine.GetBoard(ctx, id)
	if engine.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteBoard deletes a board, reporting whether anything was deleted.
func (a *Adapter) DeleteBoard(ctx context.Context, id string) (bool, error) {
	n, err := a.engine.DeleteBoard(ctx, id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddTask creates a task in a board's landing column - the legacy API
// had no column parameter; externally-created tasks always landed
// there. NotFound and CapacityFull propagate unchanged.
func (a *Adapter) AddTask(ctx context.Context, boardID, title, content string) (board.Task, error) {
	b, err := a.engine.GetBoard(ctx, boardID)
	if err != nil {
		return board.Task{}, err
	}
	if b.LandingColumnID == nil {
		return board.Task{}, engine.NewNotFoundError("column", "landing column of board "+boardID)
	}
	return a.engine.CreateTask(ctx, *b.LandingColumnID, title, content, nil)
}

// GetTask returns the task, or nil when it doesn't exist (absent-value
// legacy contract, as with GetBoard).
func (a *Adapter) GetTask(ctx context.Context, id string) (*board.Task, error) {
	t, err := a.engine.GetTask(ctx, id)
	if engine.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask replaces a task's content - the legacy single-field
// update. NotFound propagates; the legacy contract never swallowed
// mutation failures.
func (a *Adapter) UpdateTask(ctx context.Context, id, content string) (board.Task, error) {
	return a.engine.UpdateTask(ctx, id, board.TaskUpdate{Content: &content})
}

// MoveTask appends a task to the target column, recording reason. The
// legacy shape had no position parameter.
func (a *Adapter) MoveTask(ctx context.Context, taskID, columnID, reason string) error {
	return a.engine.MoveTask(ctx, taskID, columnID, nil, reason)
}

// DeleteTask deletes a task, reporting whether anything was deleted.
func (a *Adapter) DeleteTask(ctx context.Context, id string) (bool, error) {
	n, err := a.engine.DeleteTask(ctx, id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
