package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/quorum-sh/quorum/internal/realtime"
	"github.com/quorum-sh/quorum/internal/schedule"
)

// Fixed line offsets of the grid's first cell. handleMouseMsg maps
// pointer coordinates through the same numbers, so View and Update must
// agree on them.
const (
	createGridTop = 7
	roomGridTop   = 5
)

func (m Model) gridLeft() int { return timeGutter + 1 }

func (m Model) gridTop() int {
	if m.screen == ScreenRoom {
		return roomGridTop
	}
	return createGridTop
}

// legendAt maps a terminal row to a participant hover index.
func (m Model) legendAt(y int) (int, bool) {
	top := m.gridTop() + m.data.Rows()*cellHeight + 2
	idx := y - top
	if idx < 0 || idx >= 1+len(m.data.Others) {
		return 0, false
	}
	return idx, true
}

// View renders the model.
func (m Model) View() string {
	if m.screen == ScreenRoom {
		return m.viewRoom()
	}
	return m.viewCreate()
}

func (m Model) viewCreate() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("quorum") +
		m.styles.Subtitle.Render("  plan something together") + "\n")
	b.WriteString("\n")

	b.WriteString(m.inputLine("Event", m.eventName.View(), m.focus == FocusEventName) + "\n")
	b.WriteString(m.optionsLine() + "\n")
	b.WriteString(m.dateStrip() + "\n")
	b.WriteString("\n")

	m.writeGrid(&b)

	b.WriteString("\n")
	if m.creating {
		b.WriteString(m.styles.Subtitle.Render("Creating room...") + "\n")
	}
	b.WriteString(m.styles.Help.Render(m.createHelp()) + "\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) viewRoom() string {
	var b strings.Builder

	title := m.data.EventName
	if title == "" {
		title = "(untitled event)"
	}
	if m.focus == FocusEventName {
		title = m.eventName.View()
	}
	conn := m.styles.ConnState.Render(connLabel(m.connState))
	if m.connState != realtime.StateOpen {
		conn = m.styles.StatusWarning.Render(connLabel(m.connState))
	}
	b.WriteString(m.styles.Title.Render(title) + "  " + conn + "\n")
	b.WriteString(m.styles.Subtitle.Render(m.shareURL()) + "\n")
	b.WriteString(m.roomInputLine() + "\n")
	b.WriteString("\n")

	m.writeGrid(&b)

	b.WriteString("\n")
	m.writeLegend(&b)
	b.WriteString(m.hoverLine())
	b.WriteString(m.styles.Help.Render(m.roomHelp()) + "\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) inputLine(label, view string, focused bool) string {
	l := m.styles.InputLabel.Render(label)
	if focused {
		l = m.styles.InputFocused.Render(label)
	}
	return l + "  " + view
}

// roomInputLine shows whichever secondary input is active; the name by
// default. It always occupies exactly one line so the grid stays put.
func (m Model) roomInputLine() string {
	if m.focus == FocusAbsentReason {
		return m.inputLine("Reason", m.absentReason.View(), true)
	}
	name := m.userName.View()
	if m.focus != FocusUserName && m.data.UserName != "" {
		name = m.styles.LegendName.Render(m.data.UserName)
	}
	line := m.inputLine("You", name, m.focus == FocusUserName)
	if m.data.SelfAbsent() {
		line += "  " + m.styles.LegendAbsent.Render("absent")
		if r := m.data.SelfAbsentReason(); r != "" {
			line += " " + m.styles.LegendReason.Render(r)
		}
	}
	return line
}

func (m Model) optionsLine() string {
	mode := "dates"
	if m.data.Dates.Mode() == schedule.WeekdayPattern {
		mode = "weekdays"
	}
	return m.styles.Subtitle.Render(fmt.Sprintf(
		"mode %s   window %s - %s   slot %dm",
		mode, m.data.TimeRange.From, m.data.TimeRange.To, m.data.SlotLength,
	))
}

// dateStrip renders the day picker: upcoming dates in dates mode, the
// seven weekday toggles in weekday mode.
func (m Model) dateStrip() string {
	var parts []string
	if m.data.Dates.Mode() == schedule.WeekdayPattern {
		names := []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
		for i, n := range names {
			label := fmt.Sprintf("%d:%s", i+1, n)
			if containsInt(m.data.Dates.Weekdays(), i+1) {
				label = m.styles.Title.Render(label)
			} else {
				label = m.styles.Subtitle.Render(label)
			}
			parts = append(parts, label)
		}
		return strings.Join(parts, " ")
	}

	for i := 0; i < dateStripDays; i++ {
		day := m.stripDate(i)
		label := fmt.Sprintf("%2d", day.Day())
		switch {
		case i == m.dateCursor && m.data.Dates.Contains(day):
			label = m.styles.Title.Render("[" + label + "]")
		case i == m.dateCursor:
			label = m.styles.LegendName.Render("[" + label + "]")
		case m.data.Dates.Contains(day):
			label = m.styles.Title.Render(" " + label + " ")
		default:
			label = m.styles.Subtitle.Render(" " + label + " ")
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "")
}

// writeGrid renders the column headers and every cell row.
func (m Model) writeGrid(b *strings.Builder) {
	cols, rows := m.data.Cols(), m.data.Rows()
	if cols == 0 || rows == 0 {
		b.WriteString(m.styles.Subtitle.Render("Pick days and a time window to see the grid.") + "\n")
		return
	}

	b.WriteString(strings.Repeat(" ", m.gridLeft()))
	for d := 0; d < cols; d++ {
		b.WriteString(m.styles.ColumnHeader.Render(m.data.Dates.ColumnLabel(d)))
	}
	b.WriteString("\n")

	geo := m.data.Geometry()
	for t := 0; t < rows; t++ {
		label := ""
		if geo.SlotsPerHour > 0 && t%geo.SlotsPerHour == 0 {
			label = m.data.TimeRange.RowLabel(t / geo.SlotsPerHour)
		}
		b.WriteString(m.styles.TimeLabel.Render(label) + " ")
		for d := 0; d < cols; d++ {
			b.WriteString(m.renderCell(d, t))
		}
		b.WriteString("\n")
	}
}

func (m Model) renderCell(dateIndex, timeIndex int) string {
	var look cellLook
	if m.screen == ScreenRoom {
		look = resolveRoomCell(m.palette, m.data, m.selection, m.hovered, dateIndex, timeIndex)
	} else {
		look = resolveCreateCell(m.palette, m.selection,
			m.data.UserSchedule.At(dateIndex, timeIndex),
			m.selection.Covers(dateIndex, timeIndex))
	}

	content := ""
	if look.showCount {
		if n := len(m.data.Occupancy(dateIndex, timeIndex)); n > 0 {
			content = fmt.Sprintf("%d", n)
		}
	}
	return m.styles.Cell(look).Render(content)
}

// writeLegend lists the participants: self first, then the others in
// their ring colors, struck through when absent.
func (m Model) writeLegend(b *strings.Builder) {
	b.WriteString(m.styles.Subtitle.Render("who's in") + "\n")

	b.WriteString(m.legendEntry(hoverSelf, m.selfLabel(), m.data.SelfAbsent(), m.data.SelfAbsentReason(), m.palette.Self) + "\n")
	for i, name := range m.data.Others {
		if name == "" {
			name = fmt.Sprintf("guest %d", i+1)
		}
		reason := ""
		if m.data.OtherAbsent(i) {
			if r := m.data.AbsentReasons[i+1]; r != nil {
				reason = *r
			}
		}
		c := m.palette.OtherColor(i, len(m.data.Others))
		b.WriteString(m.legendEntry(1+i, name, m.data.OtherAbsent(i), reason, c) + "\n")
	}
}

func (m Model) selfLabel() string {
	if m.data.UserName != "" {
		return m.data.UserName + " (you)"
	}
	return "you"
}

func (m Model) legendEntry(hoverIdx int, name string, absent bool, reason string, swatch lipgloss.Color) string {
	marker := "  "
	if m.hovered == hoverIdx {
		marker = "> "
	}
	sw := lipgloss.NewStyle().Background(swatch).Render("  ")
	label := m.styles.LegendName.Render(name)
	if absent {
		label = m.styles.LegendAbsent.Render(name)
		if reason != "" {
			label += " " + m.styles.LegendReason.Render(reason)
		}
	}
	return marker + sw + " " + label
}

// hoverLine names everyone available in the slot under the pointer. It
// always occupies one line so the rows below it do not shift.
func (m Model) hoverLine() string {
	if m.hoverCell == nil {
		return "\n"
	}
	d, t := m.hoverCell.DateIndex, m.hoverCell.TimeIndex
	users := m.data.SlotUsers(d, t)
	var names []string
	if len(users) > 0 && users[0] {
		names = append(names, m.selfLabel())
	}
	for i, name := range m.data.Others {
		if i+1 < len(users) && users[i+1] {
			if name == "" {
				name = fmt.Sprintf("guest %d", i+1)
			}
			names = append(names, name)
		}
	}
	slot := m.data.TimeRange.SlotLabel(t, m.data.SlotLength)
	if len(names) == 0 {
		return m.styles.Subtitle.Render(slot+": nobody yet") + "\n"
	}
	return m.styles.Subtitle.Render(slot+": "+strings.Join(names, ", ")) + "\n"
}

func (m Model) statusLine() string {
	if m.statusMsg == "" {
		return "\n"
	}
	if m.statusIsErr {
		return m.styles.StatusError.Render(m.statusMsg) + "\n"
	}
	return m.styles.Status.Render(m.statusMsg) + "\n"
}

func (m Model) createHelp() string {
	if m.data.Dates.Mode() == schedule.WeekdayPattern {
		return "1-7 toggle day • m dates mode • [/] {/} window • s slot • drag to mark • c create • q quit"
	}
	return "h/l move • space toggle day • m weekday mode • [/] {/} window • s slot • drag to mark • c create • q quit"
}

func (m Model) roomHelp() string {
	h := "drag to mark • n name • a absent • y copy link • b best • tab peek • q quit"
	if m.isOwner {
		h = "drag to mark • e rename • n name • y copy link • b best • tab peek • D delete • q quit"
	}
	return h
}

func connLabel(s realtime.State) string {
	switch s {
	case realtime.StateOpen:
		return "live"
	case realtime.StateConnecting:
		return "connecting"
	case realtime.StateDisconnected:
		return "reconnecting"
	default:
		return "offline"
	}
}

func containsInt(xs []int, n int) bool {
	for _, x := range xs {
		if x == n {
			return true
		}
	}
	return false
}
