package schedule

import (
	"errors"
	"testing"
)

func TestSelection_DragCommit(t *testing.T) {
	g := NewGrid(4, 6)
	var sel Selection

	if err := sel.Start(1, 1, false, false); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if !sel.Dragging() {
		t.Fatal("not dragging after Start")
	}
	if !sel.Additive() {
		t.Error("drag starting on an empty cell should be additive")
	}
	sel.Extend(2, 4)

	got := sel.Release(g)
	if sel.Dragging() {
		t.Error("still dragging after Release")
	}
	for d := 0; d < 4; d++ {
		for ts := 0; ts < 6; ts++ {
			want := d >= 1 && d <= 2 && ts >= 1 && ts <= 4
			if got[d][ts] != want {
				t.Errorf("cell (%d,%d) = %v, want %v", d, ts, got[d][ts], want)
			}
		}
	}
}

func TestSelection_RectangleOrderIndependent(t *testing.T) {
	g := NewGrid(3, 6)

	var forward Selection
	_ = forward.Start(0, 1, false, false)
	forward.Extend(2, 5)
	a := forward.Release(g)

	var backward Selection
	_ = backward.Start(2, 5, false, false)
	backward.Extend(0, 1)
	b := backward.Release(g)

	for d := range a {
		for ts := range a[d] {
			if a[d][ts] != b[d][ts] {
				t.Fatalf("cell (%d,%d): forward %v != backward %v", d, ts, a[d][ts], b[d][ts])
			}
		}
	}
}

func TestSelection_CommitIdempotent(t *testing.T) {
	g := NewGrid(3, 3)

	commit := func(base Grid) Grid {
		var sel Selection
		_ = sel.Start(0, 0, false, false)
		sel.Extend(1, 1)
		return sel.Release(base)
	}

	once := commit(g)
	twice := commit(once)
	for d := range once {
		for ts := range once[d] {
			if once[d][ts] != twice[d][ts] {
				t.Fatalf("cell (%d,%d) changed on second identical commit", d, ts)
			}
		}
	}
}

func TestSelection_SubtractiveDrag(t *testing.T) {
	g := NewGrid(2, 2)
	g[0][0] = true
	g[1][1] = true

	var sel Selection
	// Pointer-down on a selected cell: the drag deselects.
	if err := sel.Start(0, 0, true, false); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if sel.Additive() {
		t.Error("drag starting on a selected cell should be subtractive")
	}
	sel.Extend(1, 1)
	got := sel.Release(g)
	if got.CountSelected() != 0 {
		t.Errorf("CountSelected() = %d after subtractive drag, want 0", got.CountSelected())
	}
}

func TestSelection_AdditiveRecomputedPerDrag(t *testing.T) {
	var sel Selection

	_ = sel.Start(0, 0, true, false) // subtractive
	_ = sel.Release(NewGrid(1, 1))
	if sel.Additive() {
		t.Fatal("hint should be subtractive after subtractive drag")
	}

	// The retained hint must not leak into the next drag's polarity.
	_ = sel.Start(0, 0, false, false)
	if !sel.Additive() {
		t.Error("new drag on empty cell must be additive regardless of hint")
	}
}

func TestSelection_AbsentGuard(t *testing.T) {
	var sel Selection
	err := sel.Start(0, 0, false, true)
	if !errors.Is(err, ErrSubjectAbsent) {
		t.Fatalf("Start while absent = %v, want ErrSubjectAbsent", err)
	}
	if sel.Dragging() {
		t.Error("refused Start must not change state")
	}
}

func TestSelection_ReleaseWhileIdle(t *testing.T) {
	g := NewGrid(2, 2)
	g[0][1] = true
	var sel Selection
	got := sel.Release(g)
	if !got.At(0, 1) || got.CountSelected() != 1 {
		t.Error("Release while idle must return the grid unchanged")
	}
}

func TestSelection_ExtendClampedByRelease(t *testing.T) {
	// A drag can wander outside the grid; commit ignores out-of-range cells.
	g := NewGrid(2, 2)
	var sel Selection
	_ = sel.Start(0, 0, false, false)
	sel.Extend(5, 9)
	got := sel.Release(g)
	if got.CountSelected() != 4 {
		t.Errorf("CountSelected() = %d, want 4 (whole grid)", got.CountSelected())
	}
}

func TestCellAt(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		want   Point
		wantOK bool
	}{
		{"origin", 0, 0, Point{0, 0}, true},
		{"middle", 55, 45, Point{1, 2}, true},
		{"far corner inside", 99.9, 59.9, Point{1, 2}, true},
		{"left of grid", -1, 10, Point{}, false},
		{"right of grid", 100, 10, Point{}, false},
		{"below grid", 10, 60, Point{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CellAt(tt.x, tt.y, 100, 60, 2, 3)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("CellAt = %+v, want %+v", got, tt.want)
			}
		})
	}

	if _, ok := CellAt(1, 1, 100, 60, 0, 3); ok {
		t.Error("zero columns must map to no cell")
	}
}
