package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCell(t *testing.T) {
	tests := []struct {
		cell int
		want bool
	}{
		{cell: -1, want: false},
		{cell: 0, want: false},
		{cell: 1, want: true},
		{cell: 24, want: true},
		{cell: 48, want: true},
		{cell: 49, want: false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsValidCell(tc.cell), "cell %d", tc.cell)
	}
}

func TestNeighbors(t *testing.T) {
	tests := []struct {
		name string
		cell int
		want []int
	}{
		{name: "first cell", cell: 1, want: []int{2, 9}},
		{name: "last cell", cell: 48, want: []int{47, 40}},
		{name: "inner cell", cell: 20, want: []int{21, 19, 28, 12}},
		{name: "row end does not wrap", cell: 8, want: []int{9, 7, 16}},
		{name: "off board", cell: 60, want: []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Neighbors(tc.cell))
		})
	}
}

func TestNeighborsStayOnBoard(t *testing.T) {
	for cell := MinCell; cell <= MaxCell; cell++ {
		adjacent := Neighbors(cell)
		assert.LessOrEqual(t, len(adjacent), 4)
		for _, next := range adjacent {
			assert.True(t, IsValidCell(next), "neighbour %d of %d", next, cell)
		}
	}
}
