package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// applyShift mirrors ShiftLevelIndexes on an in-memory list of level indexes.
func applyShift(indexes []int, shift IndexShift) []int {
	shifted := make([]int, len(indexes))
	for i, idx := range indexes {
		if idx != DeletedIndex && idx >= shift.From && idx <= shift.To {
			idx += shift.Delta
		}
		shifted[i] = idx
	}
	return shifted
}

func TestInsertShift(t *testing.T) {
	tests := []struct {
		name string
		at   int
		want []int
	}{
		{name: "first", at: 0, want: []int{1, 2, 3, DeletedIndex}},
		{name: "middle", at: 1, want: []int{0, 2, 3, DeletedIndex}},
		{name: "last", at: 2, want: []int{0, 1, 3, DeletedIndex}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := applyShift([]int{0, 1, 2, DeletedIndex}, insertShift(tc.at, 2))
			assert.Equal(t, tc.want, got)

			// the new level fills the hole
			assert.ElementsMatch(t, []int{0, 1, 2, 3, DeletedIndex}, append(got, tc.at))
		})
	}
}

func TestMoveShift(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     IndexShift
		// indexes of levels 0..4 once the moved level takes `to`
		wantIndexes []int
	}{
		{name: "down the list", from: 1, to: 3, want: IndexShift{From: 2, To: 3, Delta: -1}, wantIndexes: []int{0, 3, 1, 2, 4}},
		{name: "up the list", from: 3, to: 0, want: IndexShift{From: 0, To: 2, Delta: 1}, wantIndexes: []int{1, 2, 3, 0, 4}},
		{name: "next slot", from: 2, to: 3, want: IndexShift{From: 3, To: 3, Delta: -1}, wantIndexes: []int{0, 1, 3, 2, 4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			shift := moveShift(tc.from, tc.to)
			assert.Equal(t, tc.want, shift)

			got := applyShift([]int{0, 1, 2, 3, 4}, shift)
			got[tc.from] = tc.to
			assert.Equal(t, tc.wantIndexes, got)
		})
	}
}

func TestRemoveShift(t *testing.T) {
	t.Run("middle", func(t *testing.T) {
		got := applyShift([]int{0, 1, 2, 3}, removeShift(1, 3))
		got[1] = DeletedIndex
		assert.Equal(t, []int{0, DeletedIndex, 1, 2}, got)
	})
	t.Run("last", func(t *testing.T) {
		shift := removeShift(3, 3)
		assert.True(t, shift.IsEmpty())
	})
}
