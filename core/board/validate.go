package board

// IsValidBoard checks the shape of a road layout: every cell of the layout
// (road, start and targets) is counted against its neighbours in the layout.
//   - the start cell is an open end: exactly 1 neighbour
//   - a target is an end or sits on the road: 1 or 2 neighbours
//   - a road cell links two cells: exactly 2 neighbours
func IsValidBoard(start int, targets, road []int) bool {
	onRoad := newCellSet(road...)
	isTarget := newCellSet(targets...)

	points := newCellSet(road...)
	points.add(start)
	for _, t := range targets {
		points.add(t)
	}

	for point := range points {
		var adjacent int
		for _, next := range Neighbors(point) {
			if points.has(next) {
				adjacent++
			}
		}

		if point == start && adjacent != 1 {
			return false
		}
		if isTarget.has(point) && adjacent != 1 && adjacent != 2 {
			return false
		}
		if onRoad.has(point) && adjacent != 2 {
			return false
		}
	}
	return true
}
