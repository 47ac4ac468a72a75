package board

// CheckConnect reports whether the road leads from start to target without forking.
// A step reaching two or more new cells (road cells or the target) is a fork: a target seen in
// the same step as a new road cell counts as a fork, so the target has to end the road.
func CheckConnect(start, target int, road []int) bool {
	return traverse(start, []int{target}, road, true)
}

// CheckConnectAll reports whether every target can be collected by walking the road from start.
// Targets are picked up as soon as they are seen and the walk goes on from them;
// only road cells count toward a fork. The walk stops as soon as no target is left,
// whatever is still queued.
func CheckConnectAll(start int, targets, road []int) bool {
	return traverse(start, targets, road, false)
}

// traverse walks the road breadth-first from start until every target is reached.
// countTargets makes a target seen during a step count toward the fork limit of that step.
func traverse(start int, targets, road []int, countTargets bool) bool {
	onRoad := newCellSet(road...)
	remaining := newCellSet(targets...)
	visited := newCellSet(start)
	queue := []int{start}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		if len(remaining) == 0 {
			return true
		}

		var reached int
		for _, next := range Neighbors(curr) {
			switch {
			case remaining.has(next):
				delete(remaining, next)
				visited.add(next)
				queue = append(queue, next)
				if countTargets {
					reached++
				}
			case !visited.has(next) && onRoad.has(next):
				visited.add(next)
				queue = append(queue, next)
				reached++
			}
			if reached >= 2 { // fork
				return false
			}
		}
	}
	return false
}
