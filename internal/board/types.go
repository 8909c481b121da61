// Package board defines the persisted entity schema for kanban data:
// boards, their ordered columns, and the capacity-bounded, ordered
// tasks inside each column. All other packages operate on these types.
package board

import "time"

// Board is a named collection of ordered columns.
//
// LandingColumnID points at the column externally-created tasks default
// into. It is nil only transiently while a board is being created (the
// board row must exist before its columns can reference it, and the
// landing column must exist before the board can reference it back).
type Board struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Goal            string    `json:"goal"`
	LandingColumnID *string   `json:"landing_column_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Column is an ordered, capacity-bounded slot within a board.
//
// Position is the zero-based left-to-right rank, unique per board and
// fixed at board creation. WIPLimit caps the number of resident tasks;
// zero means unlimited. IsDone marks a terminal column for display
// purposes only - it does not exempt the column from its WIP limit.
type Column struct {
	ID       string `json:"id"`
	BoardID  string `json:"board_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	WIPLimit int    `json:"wip_limit"`
	IsDone   bool   `json:"is_done_column"`
}

// Task is a unit of work resident in exactly one column.
//
// Position is the zero-based vertical rank within the column, assigned
// at insert time (append-to-end). UpdateReason records why the task
// was last moved or edited; empty means no reason was given.
type Task struct {
	ID           string         `json:"id"`
	ColumnID     string         `json:"column_id"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	Position     int            `json:"position"`
	UpdateReason string         `json:"update_reason"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ColumnDef describes one column at board-creation time.
type ColumnDef struct {
	Name     string `yaml:"name"`
	Position int    `yaml:"position"`
	WIPLimit int    `yaml:"wip_limit"`
	IsDone   bool   `yaml:"is_done"`
}

// ColumnTree is a column with its resident tasks and the derived
// capacity fields computed when a full board is assembled.
type ColumnTree struct {
	Column
	Tasks          []Task `json:"tasks"`
	TaskCount      int    `json:"task_count"`
	IsAtCapacity   bool   `json:"is_at_capacity"`
	IsNearCapacity bool   `json:"is_near_capacity"`
	IsLanding      bool   `json:"is_landing"`
}

// BoardTree is a board with its columns ordered by position, each
// carrying its tasks ordered by position.
type BoardTree struct {
	Board
	Columns []ColumnTree `json:"columns"`
}

// BoardFilter narrows listBoards results. Zero values mean "no filter".
type BoardFilter struct {
	Search        string     // substring over name and goal
	CreatedAfter  *time.Time // inclusive lower bound
	CreatedBefore *time.Time // inclusive upper bound
}

// TaskFilter narrows listTasks results. Zero values mean "no filter".
type TaskFilter struct {
	BoardID         string
	ColumnID        string
	Search          string // substring over title and content
	HasUpdateReason *bool
	CreatedAfter    *time.Time
	CreatedBefore   *time.Time
	Limit           int // 0 means no limit
	Offset          int
}

// BoardUpdate is a partial board edit. Nil fields are left untouched.
type BoardUpdate struct {
	Name *string
	Goal *string
}

// TaskUpdate is a partial task edit. Nil fields are left untouched;
// position and column are never changed by an update (use a move).
type TaskUpdate struct {
	Title        *string
	Content      *string
	UpdateReason *string
	Metadata     map[string]any
}
