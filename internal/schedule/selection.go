package schedule

import "errors"

// Selection errors.
var (
	// ErrSubjectAbsent is returned when a drag is started while the user
	// is marked absent. Absence and availability editing are mutually
	// exclusive; the caller surfaces a warning and the grid is unchanged.
	ErrSubjectAbsent = errors.New("cannot edit schedule while marked absent")
)

// Point addresses one grid cell.
type Point struct {
	DateIndex int
	TimeIndex int
}

// Range is the in-progress drag rectangle. From is fixed at the cell the
// drag started on; To follows the pointer.
type Range struct {
	From Point
	To   Point
}

// Normalized returns the rectangle as inclusive [min,max] bounds,
// normalized independently per axis, so a drag is the same axis-aligned
// rectangle regardless of direction.
func (r Range) Normalized() (minD, maxD, minT, maxT int) {
	minD, maxD = r.From.DateIndex, r.To.DateIndex
	if minD > maxD {
		minD, maxD = maxD, minD
	}
	minT, maxT = r.From.TimeIndex, r.To.TimeIndex
	if minT > maxT {
		minT, maxT = maxT, minT
	}
	return minD, maxD, minT, maxT
}

// Contains reports whether the cell is inside the rectangle.
func (r Range) Contains(dateIndex, timeIndex int) bool {
	minD, maxD, minT, maxT := r.Normalized()
	return dateIndex >= minD && dateIndex <= maxD &&
		timeIndex >= minT && timeIndex <= maxT
}

// Selection is an Idle/Dragging state machine over the grid. Idle has a
// nil range; a pointer-down transitions to Dragging, pointer-moves extend
// the rectangle's To corner, and the release commits the rectangle into a
// grid. The release must be observed globally (the pointer can leave the
// grid mid-drag); missing it would leave the machine stuck in Dragging.
type Selection struct {
	rng      *Range
	additive bool
}

// Dragging reports whether a drag is in progress.
func (s *Selection) Dragging() bool { return s.rng != nil }

// Additive reports the pending commit polarity: true marks cells
// available, false clears them. Between drags it is only a hint carrying
// the last drag's polarity; each new drag recomputes it from the pressed
// cell.
func (s *Selection) Additive() bool { return s.additive }

// Range returns a copy of the drag rectangle and whether one exists.
func (s *Selection) Range() (Range, bool) {
	if s.rng == nil {
		return Range{}, false
	}
	return *s.rng, true
}

// Start begins a drag on the pressed cell. The polarity is the opposite
// of the cell's current state: starting on a selected cell deselects, on
// an empty cell selects. Starting while the subject is absent is refused.
func (s *Selection) Start(dateIndex, timeIndex int, cellSelected, subjectAbsent bool) error {
	if subjectAbsent {
		return ErrSubjectAbsent
	}
	p := Point{DateIndex: dateIndex, TimeIndex: timeIndex}
	s.rng = &Range{From: p, To: p}
	s.additive = !cellSelected
	return nil
}

// Extend moves the rectangle's To corner while dragging. From never moves
// for the drag's lifetime. A no-op when idle.
func (s *Selection) Extend(dateIndex, timeIndex int) {
	if s.rng == nil {
		return
	}
	s.rng.To = Point{DateIndex: dateIndex, TimeIndex: timeIndex}
}

// Covers reports whether the cell is inside the in-progress drag
// rectangle (the drag preview). Always false when idle.
func (s *Selection) Covers(dateIndex, timeIndex int) bool {
	if s.rng == nil {
		return false
	}
	return s.rng.Contains(dateIndex, timeIndex)
}

// Release commits the rectangle into the grid and returns to Idle. Every
// cell in the normalized rectangle is set to the drag's polarity; cells
// outside the grid's bounds are ignored. Committing the same rectangle
// twice yields the same grid. When idle, the grid is returned unchanged.
// The additive hint is retained for the caller's benefit only.
func (s *Selection) Release(g Grid) Grid {
	if s.rng == nil {
		return g
	}
	minD, maxD, minT, maxT := s.rng.Normalized()
	s.rng = nil

	out := g.Clone()
	for d := minD; d <= maxD && d < len(out); d++ {
		if d < 0 {
			continue
		}
		for t := minT; t <= maxT && t < len(out[d]); t++ {
			if t < 0 {
				continue
			}
			out[d][t] = s.additive
		}
	}
	return out
}

// Cancel drops the drag without committing.
func (s *Selection) Cancel() { s.rng = nil }

// CellAt maps a pointer position inside the grid's bounding box to a cell.
// Positions outside [0,width) x [0,height) map to no cell, which callers
// use to clear hover state rather than extend a selection.
func CellAt(x, y, width, height float64, cols, rows int) (Point, bool) {
	if cols <= 0 || rows <= 0 || width <= 0 || height <= 0 {
		return Point{}, false
	}
	if x < 0 || y < 0 || x >= width || y >= height {
		return Point{}, false
	}
	colWidth := width / float64(cols)
	rowHeight := height / float64(rows)
	p := Point{
		DateIndex: int(x / colWidth),
		TimeIndex: int(y / rowHeight),
	}
	// Guard the far edge against float rounding.
	if p.DateIndex >= cols {
		p.DateIndex = cols - 1
	}
	if p.TimeIndex >= rows {
		p.TimeIndex = rows - 1
	}
	return p, true
}
