package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPosition(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		max       int
		want      int
	}{
		{"negative clamps to head", -3, 5, 0},
		{"zero stays", 0, 5, 0},
		{"interior stays", 3, 5, 3},
		{"max stays", 5, 5, 5},
		{"beyond max clamps to tail", 9, 5, 5},
		{"empty column", 2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampPosition(tt.requested, tt.max))
		})
	}
}
