package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/corkboard/internal/board"
)

// TestAdmit_UnlimitedColumn tests that a zero WIP limit always admits.
func TestAdmit_UnlimitedColumn(t *testing.T) {
	col := board.Column{Name: "Backlog", WIPLimit: 0}

	for _, occupancy := range []int{0, 1, 100, 10000} {
		assert.NoError(t, Admit(col, occupancy), "occupancy %d", occupancy)
	}
}

// TestAdmit_BelowLimit tests admission with room to spare.
func TestAdmit_BelowLimit(t *testing.T) {
	col := board.Column{Name: "Doing", WIPLimit: 3}

	assert.NoError(t, Admit(col, 0))
	assert.NoError(t, Admit(col, 2))
}

// TestAdmit_AtLimit tests rejection when the column is full.
func TestAdmit_AtLimit(t *testing.T) {
	col := board.Column{Name: "Doing", WIPLimit: 3}

	err := Admit(col, 3)
	require.Error(t, err)
	require.True(t, IsCapacityFull(err))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Doing", e.ColumnName)
	assert.Equal(t, 3, e.Limit)
}

// TestAdmit_OverLimit tests rejection above the limit (a state the
// engine never commits, but the guard must still reject).
func TestAdmit_OverLimit(t *testing.T) {
	col := board.Column{Name: "Doing", WIPLimit: 3}
	assert.True(t, IsCapacityFull(Admit(col, 4)))
}

// TestAdmit_DoneColumnNotExempt tests that the done flag does not
// bypass the WIP limit.
func TestAdmit_DoneColumnNotExempt(t *testing.T) {
	col := board.Column{Name: "Done", WIPLimit: 1, IsDone: true}

	assert.NoError(t, Admit(col, 0))
	assert.True(t, IsCapacityFull(Admit(col, 1)))
}

// TestAtCapacity covers the boundary exactly.
func TestAtCapacity(t *testing.T) {
	col := board.Column{WIPLimit: 5}

	assert.False(t, AtCapacity(col, 4))
	assert.True(t, AtCapacity(col, 5))
	assert.True(t, AtCapacity(col, 6))
	assert.False(t, AtCapacity(board.Column{WIPLimit: 0}, 1000))
}

// TestNearCapacity covers the 80% threshold.
func TestNearCapacity(t *testing.T) {
	tests := []struct {
		limit     int
		occupancy int
		near      bool
	}{
		{0, 1000, false}, // unlimited is never near
		{5, 3, false},
		{5, 4, true}, // 4 >= 0.8*5
		{5, 5, true},
		{10, 7, false},
		{10, 8, true},
		{2, 1, false}, // 1 < 1.6
		{2, 2, true},
	}
	for _, tt := range tests {
		col := board.Column{WIPLimit: tt.limit}
		assert.Equal(t, tt.near, NearCapacity(col, tt.occupancy),
			"limit=%d occupancy=%d", tt.limit, tt.occupancy)
	}
}
