// Package board holds the rules of the game board: a fixed grid of 48 cells
// addressed 1..48 on 8 columns, the per-role neighbour counts a level layout
// must respect and the single-road connectivity check between the player's
// start cell and the target cells.
package board

const (
	GridWidth = 8
	MinCell   = 1
	MaxCell   = 48
)

// directions are tried in this order; the connectivity walk depends on it.
var directions = [4]int{1, -1, GridWidth, -GridWidth}

// IsValidCell reports whether cell lies on the board.
func IsValidCell(cell int) bool {
	return cell >= MinCell && cell <= MaxCell
}

// Neighbors returns the cells adjacent to cell (right, left, down, up), skipping those off the board.
// Adjacency is plain arithmetic: cells 8 and 9 are neighbours.
func Neighbors(cell int) []int {
	adjacent := make([]int, 0, len(directions))
	for _, dir := range directions {
		if next := cell + dir; IsValidCell(next) {
			adjacent = append(adjacent, next)
		}
	}
	return adjacent
}

type cellSet map[int]struct{}

func newCellSet(cells ...int) cellSet {
	set := make(cellSet, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	return set
}

func (s cellSet) has(cell int) bool {
	_, ok := s[cell]
	return ok
}

func (s cellSet) add(cell int) {
	s[cell] = struct{}{}
}
