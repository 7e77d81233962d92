package schedule

// Grid is the availability grid: Grid[dateIndex][timeIndex] is true when
// the user is available in that slot. Columns are dates, rows are time
// slots.
type Grid [][]bool

// NewGrid returns an all-false grid with the given shape.
func NewGrid(cols, rows int) Grid {
	g := make(Grid, cols)
	for d := range g {
		g[d] = make([]bool, rows)
	}
	return g
}

// Cols returns the number of date columns.
func (g Grid) Cols() int { return len(g) }

// Rows returns the number of time slots per column.
func (g Grid) Rows() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Clone returns a deep copy.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for d, col := range g {
		out[d] = make([]bool, len(col))
		copy(out[d], col)
	}
	return out
}

// Reshape returns a grid of the new shape, keeping values at indices
// present in both shapes and filling new cells with false. The receiver
// is not modified.
func (g Grid) Reshape(cols, rows int) Grid {
	out := NewGrid(cols, rows)
	for d := 0; d < cols && d < len(g); d++ {
		for t := 0; t < rows && t < len(g[d]); t++ {
			out[d][t] = g[d][t]
		}
	}
	return out
}

// Cleared returns an all-false grid of the same shape.
func (g Grid) Cleared() Grid {
	return NewGrid(g.Cols(), g.Rows())
}

// At reports the value at (dateIndex, timeIndex); out-of-range reads are
// false rather than a panic, since remote state and local shape can be
// momentarily out of step between a dimension change and its reshape.
func (g Grid) At(dateIndex, timeIndex int) bool {
	if dateIndex < 0 || dateIndex >= len(g) {
		return false
	}
	col := g[dateIndex]
	if timeIndex < 0 || timeIndex >= len(col) {
		return false
	}
	return col[timeIndex]
}

// CountSelected returns the number of true cells.
func (g Grid) CountSelected() int {
	n := 0
	for _, col := range g {
		for _, v := range col {
			if v {
				n++
			}
		}
	}
	return n
}

// Matches reports whether g has exactly the given shape.
func (g Grid) Matches(cols, rows int) bool {
	if len(g) != cols {
		return false
	}
	for _, col := range g {
		if len(col) != rows {
			return false
		}
	}
	return true
}
