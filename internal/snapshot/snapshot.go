// Package snapshot implements the export/import serializer: a flat,
// lossless dump of every board, column, and task, and the atomic
// replace-on-import that consumes it.
//
// Import bypasses per-entity business rules (capacity, positioning) on
// purpose - the snapshot itself is the integrity guarantee, enforced
// by shape validation up front and foreign keys inside the replace
// transaction.
package snapshot

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/corkboard/internal/board"
	"github.com/roach88/corkboard/internal/engine"
	"github.com/roach88/corkboard/internal/store"
)

// Snapshot is the export document: every row of all three entity sets,
// foreign keys intact as plain identifiers, no nesting. Empty arrays
// are valid output, never omitted keys.
type Snapshot struct {
	Boards  []board.Board  `json:"boards"`
	Columns []board.Column `json:"columns"`
	Tasks   []board.Task   `json:"tasks"`
}

// Serializer reads and writes complete store snapshots.
type Serializer struct {
	store *store.Store
	retry store.RetryPolicy
}

// New creates a Serializer over the given store.
func New(s *store.Store) *Serializer {
	return &Serializer{store: s, retry: store.DefaultRetryPolicy}
}

// Export produces a snapshot of the entire store. All three tables are
// read inside one transaction so the snapshot is consistent. Boards
// without columns or tasks appear with their arrays empty elsewhere in
// the document, never dropped.
func (s *Serializer) Export(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.store.RunInTx(ctx, s.retry, func(tx *sql.Tx) error {
		var err error
		if snap.Boards, err = store.ListAllBoards(ctx, tx); err != nil {
			return err
		}
		if snap.Columns, err = store.ListAllColumns(ctx, tx); err != nil {
			return err
		}
		snap.Tasks, err = store.ListAllTasks(ctx, tx)
		return err
	})
	if err != nil {
		return Snapshot{}, engine.NewStorageError("export", err)
	}
	return snap, nil
}

// Import atomically replaces the store's entire contents with the
// snapshot. It is not a merge: everything present before the import is
// gone after it. Rows are inserted in foreign-key order (boards, then
// columns, then tasks) with landing references back-patched after the
// columns exist, so eager constraint checking holds at every
// intermediate point. Any failure rolls the whole replace back,
// leaving existing data untouched.
func (s *Serializer) Import(ctx context.Context, snap Snapshot) error {
	if err := checkLandingRefs(snap); err != nil {
		return err
	}

	err := s.store.RunInTx(ctx, s.retry, func(tx *sql.Tx) error {
		if err := store.WipeAll(ctx, tx); err != nil {
			return err
		}

		for _, b := range snap.Boards {
			insert := b
			insert.LandingColumnID = nil // back-patched below
			if err := store.InsertBoard(ctx, tx, insert); err != nil {
				return err
			}
		}
		for _, c := range snap.Columns {
			if err := store.InsertColumn(ctx, tx, c); err != nil {
				return err
			}
		}
		for _, b := range snap.Boards {
			if b.LandingColumnID != nil {
				if err := store.SetLandingColumn(ctx, tx, b.ID, *b.LandingColumnID); err != nil {
					return err
				}
			}
		}
		for _, t := range snap.Tasks {
			if err := store.InsertTask(ctx, tx, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return engine.NewStorageError("import", err)
	}
	return nil
}

// checkLandingRefs verifies that every non-null landing reference
// points at a column of the same board. Foreign keys catch dangling
// references inside the transaction, but not cross-board ones.
func checkLandingRefs(snap Snapshot) error {
	owner := make(map[string]string, len(snap.Columns))
	for _, c := range snap.Columns {
		owner[c.ID] = c.BoardID
	}
	for _, b := range snap.Boards {
		if b.LandingColumnID == nil {
			continue
		}
		boardID, ok := owner[*b.LandingColumnID]
		if !ok {
			return engine.NewStructuralImportError(
				fmt.Sprintf("board %s: landing column %s not in snapshot", b.ID, *b.LandingColumnID), nil)
		}
		if boardID != b.ID {
			return engine.NewStructuralImportError(
				fmt.Sprintf("board %s: landing column %s belongs to board %s", b.ID, *b.LandingColumnID, boardID), nil)
		}
	}
	return nil
}

// Encode renders a snapshot as the export JSON document.
func Encode(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses and validates an export document. The payload's shape
// is checked against the snapshot schema before anything touches
// storage; malformed documents are rejected with a structural error.
// An absent or null update_reason normalizes to the empty string.
func Decode(data []byte) (Snapshot, error) {
	if err := validateShape(data); err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, engine.NewStructuralImportError("decode snapshot", err)
	}
	if snap.Boards == nil {
		snap.Boards = []board.Board{}
	}
	if snap.Columns == nil {
		snap.Columns = []board.Column{}
	}
	if snap.Tasks == nil {
		snap.Tasks = []board.Task{}
	}
	return snap, nil
}
