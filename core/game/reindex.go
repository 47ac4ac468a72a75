package game

// IndexShift moves the live levels of a mode whose index lies in [From, To] by Delta.
type IndexShift struct {
	From  int
	To    int
	Delta int
}

func (s IndexShift) IsEmpty() bool {
	return s.From > s.To || s.Delta == 0
}

// insertShift makes room at `at` in a mode whose last index is `last`.
func insertShift(at, last int) IndexShift {
	return IndexShift{From: at, To: last, Delta: 1}
}

// moveShift closes the gap left at `from` and opens one at `to`. The moved level itself is not part of the range.
func moveShift(from, to int) IndexShift {
	if from < to {
		return IndexShift{From: from + 1, To: to, Delta: -1}
	}
	return IndexShift{From: to, To: from - 1, Delta: 1}
}

// removeShift closes the gap left at `at` in a mode whose last index is `last`.
func removeShift(at, last int) IndexShift {
	return IndexShift{From: at + 1, To: last, Delta: -1}
}
