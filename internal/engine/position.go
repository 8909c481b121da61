package engine

import (
	"context"
	"fmt"

	"github.com/roach88/corkboard/internal/store"
)

// Position allocator: task positions within a column are the dense
// zero-based range {0..n-1}. New tasks append at n (the current
// occupancy); removals close the gap by shifting every later sibling
// down one, inside the same transaction. Appending and compacting
// together keep the range dense after every committed operation, so
// occupancy doubles as the next append position.

// nextPosition returns the append position for a column: its current
// task count. Must be called inside the transaction that inserts.
func nextPosition(ctx context.Context, q store.Querier, columnID string) (int, error) {
	n, err := store.CountTasks(ctx, q, columnID)
	if err != nil {
		return 0, fmt.Errorf("next position: %w", err)
	}
	return n, nil
}

// clampPosition bounds a requested position to the valid insert range
// [0, max]. Out-of-range requests land at the nearest end rather than
// failing; the caller asked for "first" or "last" emphatically enough.
func clampPosition(requested, max int) int {
	if requested < 0 {
		return 0
	}
	if requested > max {
		return max
	}
	return requested
}

// openSlot shifts tasks at and after pos up one to make room for an
// insert at pos. No-op when pos is the append position.
func openSlot(ctx context.Context, q store.Querier, columnID string, pos, occupancy int) error {
	if pos >= occupancy {
		return nil
	}
	return store.ShiftPositions(ctx, q, columnID, pos, +1)
}

// closeGap shifts tasks after pos down one after a removal at pos.
func closeGap(ctx context.Context, q store.Querier, columnID string, pos int) error {
	return store.ShiftPositions(ctx, q, columnID, pos+1, -1)
}
