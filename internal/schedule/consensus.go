package schedule

import "fmt"

// BestSlot is a contiguous run of slots in one column where attendance is
// highest across the room.
type BestSlot struct {
	DateIndex int
	FromSlot  int // inclusive
	ToSlot    int // inclusive
	Count     int // participants available, self included
}

// BestSlots scans the grid for the cells with the highest attendance
// (self plus others) and returns the contiguous runs holding that count,
// at most max runs, in grid order. An empty grid or a room where nobody
// marked anything yields nil.
func BestSlots(d *Data, max int) []BestSlot {
	cols, rows := d.Cols(), d.Rows()
	if cols == 0 || rows == 0 || max <= 0 {
		return nil
	}

	count := func(dateIndex, timeIndex int) int {
		n := len(d.Occupancy(dateIndex, timeIndex))
		if d.UserSchedule.At(dateIndex, timeIndex) {
			n++
		}
		return n
	}

	best := 0
	for dc := 0; dc < cols; dc++ {
		for t := 0; t < rows; t++ {
			if n := count(dc, t); n > best {
				best = n
			}
		}
	}
	if best == 0 {
		return nil
	}

	var out []BestSlot
	for dc := 0; dc < cols; dc++ {
		t := 0
		for t < rows {
			if count(dc, t) != best {
				t++
				continue
			}
			start := t
			for t < rows && count(dc, t) == best {
				t++
			}
			out = append(out, BestSlot{DateIndex: dc, FromSlot: start, ToSlot: t - 1, Count: best})
			if len(out) == max {
				return out
			}
		}
	}
	return out
}

// Describe renders the run as a line like "Tue 4/12, 2:30 PM to 3:30 PM
// (3 of 4 available)".
func (b BestSlot) Describe(d *Data) string {
	day := d.Dates.ColumnLabel(b.DateIndex)
	if wd := d.Dates.ColumnWeekday(b.DateIndex); wd != "" && wd != day {
		day = wd + " " + day
	}
	from := d.TimeRange.SlotLabel(b.FromSlot, d.SlotLength)
	to := d.TimeRange.SlotLabel(b.ToSlot+1, d.SlotLength)
	return fmt.Sprintf("%s, %s to %s (%d of %d available)",
		day, from, to, b.Count, d.ParticipantCount())
}
