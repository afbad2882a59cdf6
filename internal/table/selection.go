package table

// Selection is a rectangular range of body cells, inclusive on both
// corners. Selections are ephemeral UI state; they are never persisted.
type Selection struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// Normalize returns the selection with its corners ordered so that
// Start is the top-left and End the bottom-right.
func (s Selection) Normalize() Selection {
	if s.StartRow > s.EndRow {
		s.StartRow, s.EndRow = s.EndRow, s.StartRow
	}
	if s.StartCol > s.EndCol {
		s.StartCol, s.EndCol = s.EndCol, s.StartCol
	}
	return s
}

// Single returns a selection covering exactly one cell.
func Single(row, col int) Selection {
	return Selection{StartRow: row, StartCol: col, EndRow: row, EndCol: col}
}
