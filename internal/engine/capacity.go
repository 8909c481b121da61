package engine

import "github.com/roach88/corkboard/internal/board"

// Capacity guard: pure admission logic for a column's WIP limit.
//
// A column rejects one more task iff its limit is positive and its
// occupancy has reached it. A zero limit means unlimited. Done columns
// get no exemption. The guard must be consulted with an occupancy read
// inside the same transaction that inserts or moves the task, so two
// concurrent admissions can never both observe the last free slot.

// nearCapacityRatio is the occupancy fraction at which a column is
// reported as nearing its limit.
const nearCapacityRatio = 0.8

// Admit decides whether one more task may enter the column given its
// current occupancy. Returns nil to allow, or a capacity-full error
// carrying the column's name and configured limit.
func Admit(col board.Column, occupancy int) error {
	if col.WIPLimit > 0 && occupancy >= col.WIPLimit {
		return NewCapacityError(col.Name, col.WIPLimit)
	}
	return nil
}

// AtCapacity reports whether the column is full at the given occupancy.
func AtCapacity(col board.Column, occupancy int) bool {
	return col.WIPLimit > 0 && occupancy >= col.WIPLimit
}

// NearCapacity reports whether the column has reached 80% of its limit.
func NearCapacity(col board.Column, occupancy int) bool {
	return col.WIPLimit > 0 && float64(occupancy) >= nearCapacityRatio*float64(col.WIPLimit)
}
