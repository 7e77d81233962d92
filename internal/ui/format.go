package ui

import (
	"fmt"
	"strings"

	"github.com/quorum-sh/quorum/internal/schedule"
)

// RoomUIDFromArg extracts a room UID from either a bare UID or a share
// link pasted straight from the browser.
func RoomUIDFromArg(arg string) string {
	arg = strings.TrimSpace(arg)
	arg = strings.TrimSuffix(arg, "/")
	if i := strings.LastIndex(arg, "/"); i >= 0 {
		arg = arg[i+1:]
	}
	return arg
}

// PrintRoom renders a room snapshot as a plain availability table: one
// row per time slot, one column per day, each cell showing how many
// participants are free.
func PrintRoom(d *schedule.Data) {
	name := d.EventName
	if name == "" {
		name = "(untitled event)"
	}
	fmt.Println(formatHeader(name))
	fmt.Printf("%s\n\n", formatMuted(fmt.Sprintf("%d participant(s), %dm slots",
		d.ParticipantCount(), d.SlotLength)))

	cols, rows := d.Cols(), d.Rows()
	if cols == 0 || rows == 0 {
		fmt.Println("No schedule yet.")
		return
	}

	const gutter = 9
	const colWidth = 7

	shown := visibleColumns(cols, termWidth(), gutter, colWidth)

	fmt.Print(strings.Repeat(" ", gutter))
	for dc := 0; dc < shown; dc++ {
		fmt.Printf("%*s", colWidth, d.Dates.ColumnLabel(dc))
	}
	fmt.Println()

	geo := d.Geometry()
	total := d.ParticipantCount()
	for t := 0; t < rows; t++ {
		label := ""
		if geo.SlotsPerHour > 0 && t%geo.SlotsPerHour == 0 {
			label = d.TimeRange.RowLabel(t / geo.SlotsPerHour)
		}
		fmt.Printf("%*s", gutter, label)
		for dc := 0; dc < shown; dc++ {
			fmt.Printf("%*s", colWidth, slotCell(d, dc, t, total))
		}
		fmt.Println()
	}
	if shown < cols {
		fmt.Println(formatMuted(fmt.Sprintf("(+%d more day(s); widen the terminal to see them)", cols-shown)))
	}

	fmt.Println()
	printParticipants(d)
	printBest(d)
}

// visibleColumns caps how many day columns fit in the terminal. At least
// one is always shown.
func visibleColumns(cols, width, gutter, colWidth int) int {
	fit := (width - gutter) / colWidth
	if fit < 1 {
		fit = 1
	}
	if fit > cols {
		return cols
	}
	return fit
}

// slotCell renders one cell as "free/total", colored by how close the
// slot is to consensus.
func slotCell(d *schedule.Data, dateIndex, timeIndex, total int) string {
	free := len(d.Occupancy(dateIndex, timeIndex))
	if d.UserSchedule.At(dateIndex, timeIndex) {
		free++
	}
	switch {
	case free == 0:
		return formatMuted("·")
	case free == total:
		return formatConsensus(fmt.Sprintf("%d/%d", free, total))
	default:
		return formatPartial(fmt.Sprintf("%d/%d", free, total))
	}
}

func printParticipants(d *schedule.Data) {
	self := d.UserName
	if self == "" {
		self = "you"
	}
	names := []string{self + " (you)"}
	for i, n := range d.Others {
		if n == "" {
			n = fmt.Sprintf("guest %d", i+1)
		}
		if d.OtherAbsent(i) {
			entry := formatAbsent(n)
			if r := d.AbsentReasons[i+1]; r != nil && *r != "" {
				entry += " " + formatMuted("("+*r+")")
			}
			names = append(names, entry)
			continue
		}
		names = append(names, n)
	}
	fmt.Printf("Who: %s\n", strings.Join(names, ", "))
}

func printBest(d *schedule.Data) {
	best := schedule.BestSlots(d, 3)
	if len(best) == 0 {
		fmt.Println(formatMuted("No availability marked yet."))
		return
	}
	fmt.Println("Best times:")
	for _, b := range best {
		fmt.Printf("  %s %s\n", formatConsensus("•"), b.Describe(d))
	}
}
