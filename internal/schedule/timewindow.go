// Package schedule implements the collaborative schedule state: the time
// grid geometry, the availability grid, the drag selection state machine,
// and the reconciler that merges local edits, server snapshots, and
// realtime patches into one aggregate.
package schedule

import "fmt"

// Slot length options in minutes.
var SlotLengths = []int{15, 20, 30, 60}

// DefaultSlotLength is used for new schedules.
const DefaultSlotLength = 30

// MinutesPerDay is 24 hours * 60 minutes.
const MinutesPerDay = 24 * 60

// H12Time is a wall-clock hour in 12-hour notation.
type H12Time struct {
	Hour int  // 1..12
	IsAM bool
}

// Hour24 converts to a 0..23 hour. Midnight (12 AM) maps to 0 and noon
// (12 PM) maps to 12.
func (t H12Time) Hour24() int {
	switch {
	case t.IsAM && t.Hour == 12:
		return 0
	case !t.IsAM && t.Hour != 12:
		return t.Hour + 12
	default:
		return t.Hour
	}
}

// FromHour24 converts a 0..23 hour to 12-hour notation. It is the inverse
// of Hour24 for every valid H12Time.
func FromHour24(h int) H12Time {
	switch {
	case h == 0:
		return H12Time{Hour: 12, IsAM: true}
	case h < 12:
		return H12Time{Hour: h, IsAM: true}
	case h == 12:
		return H12Time{Hour: 12, IsAM: false}
	default:
		return H12Time{Hour: h - 12, IsAM: false}
	}
}

// String formats the time like "9 AM".
func (t H12Time) String() string {
	period := "PM"
	if t.IsAM {
		period = "AM"
	}
	return fmt.Sprintf("%d %s", t.Hour, period)
}

// Valid reports whether the hour is in 1..12.
func (t H12Time) Valid() bool {
	return t.Hour >= 1 && t.Hour <= 12
}

// TimeWindow is the daily time-of-day range covered by each grid column.
type TimeWindow struct {
	From H12Time
	To   H12Time
}

// Minutes returns the length of the window in minutes.
//
// A window from midnight to midnight is the whole-day sentinel (1440).
// From before To is a same-day span; From after To wraps overnight
// through midnight (10 PM to 2 AM is four hours). From equal to To at any
// other hour is an empty window: a first-class "no time selected" state,
// not an error.
func (w TimeWindow) Minutes() int {
	from, to := w.From.Hour24(), w.To.Hour24()
	switch {
	case from == 0 && to == 0:
		return MinutesPerDay
	case from <= to:
		return (to - from) * 60
	default:
		return (24 - from + to) * 60
	}
}

// IsEmpty reports whether the window covers no time at all.
func (w TimeWindow) IsEmpty() bool {
	return w.Minutes() == 0
}

// Geometry is the derived shape of one grid column. It is never stored;
// it is recomputed whenever the window or slot length changes.
type Geometry struct {
	Rows           int // slots per column
	SlotsPerHour   int
	HoursPerColumn int
}

// Geometry derives the column shape for the given slot length.
// An empty window yields zero rows, meaning no grid is rendered.
func (w TimeWindow) Geometry(slotLength int) Geometry {
	if !ValidSlotLength(slotLength) {
		return Geometry{}
	}
	mins := w.Minutes()
	return Geometry{
		Rows:           mins / slotLength,
		SlotsPerHour:   60 / slotLength,
		HoursPerColumn: mins / 60,
	}
}

// ValidSlotLength reports whether n is one of the supported slot lengths.
func ValidSlotLength(n int) bool {
	for _, l := range SlotLengths {
		if n == l {
			return true
		}
	}
	return false
}

// RowLabel returns the wall-clock label for hour offset i within the
// window, wrapping past midnight for overnight windows.
func (w TimeWindow) RowLabel(i int) string {
	h := (w.From.Hour24() + i) % 24
	return FromHour24(h).String()
}

// SlotLabel returns the wall-clock label for the start of slot timeIndex,
// like "2:30 PM", wrapping past midnight for overnight windows.
func (w TimeWindow) SlotLabel(timeIndex, slotLength int) string {
	mins := (w.From.Hour24()*60 + timeIndex*slotLength) % MinutesPerDay
	t := FromHour24(mins / 60)
	period := "PM"
	if t.IsAM {
		period = "AM"
	}
	return fmt.Sprintf("%d:%02d %s", t.Hour, mins%60, period)
}
