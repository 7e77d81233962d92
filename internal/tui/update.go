package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/quorum-sh/quorum/internal/realtime"
	"github.com/quorum-sh/quorum/internal/schedule"
	"github.com/quorum-sh/quorum/internal/tui/commands"
)

const statusDuration = 4 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case commands.DraftLoadedMsg:
		if msg.Data != nil {
			*m.data = *msg.Data
			m.data.Reshape()
			m.eventName.SetValue(m.data.EventName)
			return m.status("Recovered your draft")
		}
		return m, nil

	case commands.RoomCreatedMsg:
		m.roomUID = msg.UID
		return m, tea.Batch(
			commands.ClearDraft(m.store),
			commands.FetchCreatedRoom(m.client, msg.UID),
		)

	case commands.SnapshotMsg:
		m.roomUID = msg.UID
		m.isOwner = msg.IsOwner
		m.creating = false
		m.screen = ScreenRoom
		m.reconciler.LoadSnapshot(msg.Data)
		m.eventName.SetValue(m.data.EventName)
		m.userName.SetValue(m.data.UserName)
		m.absentReason.SetValue(m.data.SelfAbsentReason())
		return m, commands.OpenChannel(m.cfg, m.client, m.roomUID, m.events, debugLog)

	case commands.ChannelOpenedMsg:
		m.channel = msg.Channel
		m.reconciler = schedule.NewReconciler(m.data, msg.Channel)
		// The debouncer fires on a timer goroutine; it must not touch
		// model state. It only enqueues, and the send happens back on
		// the update loop where UserName is read safely.
		events := m.events
		delay := time.Duration(m.cfg.Realtime.AbsentDebounceMS) * time.Millisecond
		m.debounce = realtime.NewDebouncer(delay, func(reason *string) {
			select {
			case events <- commands.AbsentReasonMsg{Reason: reason}:
			default:
				LogEvent("tui_event_dropped", nil)
			}
		})
		return m, commands.WaitForEvent(m.events)

	case commands.AbsentReasonMsg:
		if m.channel != nil {
			m.channel.SendAbsent(m.data.UserName, msg.Reason)
		}
		return m, commands.WaitForEvent(m.events)

	case commands.PatchMsg:
		return m.handlePatch(msg.Patch)

	case commands.ConnStateMsg:
		m.connState = msg.State
		return m, commands.WaitForEvent(m.events)

	case commands.RoomDeletedACKMsg:
		if m.channel != nil {
			m.channel.Close()
			m.channel = nil
		}
		return m, tea.Quit

	case commands.CopiedMsg:
		return m.status("Share link copied to clipboard")

	case commands.ErrMsg:
		return m.statusError(fmt.Sprintf("Error: %v", msg.Err))

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.statusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

func (m Model) status(text string) (tea.Model, tea.Cmd) {
	m.statusMsg = text
	m.statusIsErr = false
	m.statusTime = time.Now().Add(statusDuration)
	return m, clearStatusLater()
}

func (m Model) statusError(text string) (tea.Model, tea.Cmd) {
	m.statusMsg = text
	m.statusIsErr = true
	m.statusTime = time.Now().Add(statusDuration)
	m.creating = false
	return m, clearStatusLater()
}

func clearStatusLater() tea.Cmd {
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}

// handlePatch merges one remote update and re-arms the event wait.
func (m Model) handlePatch(p schedule.Patch) (tea.Model, tea.Cmd) {
	LogEvent("PATCH", map[string]any{"type": p.Type.String()})

	if terminal := m.reconciler.ApplyRemotePatch(p); terminal {
		m = m.leaveDeletedRoom()
		updated, cmd := m.statusError("Room was deleted by its owner")
		return updated, tea.Batch(cmd, commands.WaitForEvent(m.events))
	}

	// Keep idle inputs in sync with server-owned fields.
	if m.focus != FocusEventName {
		m.eventName.SetValue(m.data.EventName)
	}
	if m.focus != FocusUserName {
		m.userName.SetValue(m.data.UserName)
	}
	if m.focus != FocusAbsentReason {
		m.absentReason.SetValue(m.data.SelfAbsentReason())
	}
	if m.hovered-1 >= len(m.data.Others) {
		m.hovered = hoverNone
	}
	return m, commands.WaitForEvent(m.events)
}

// leaveDeletedRoom drops the dead session and returns to a fresh create
// screen.
func (m Model) leaveDeletedRoom() Model {
	if m.channel != nil {
		m.channel.Close()
		m.channel = nil
	}
	if m.debounce != nil {
		m.debounce.Cancel()
		m.debounce = nil
	}
	data := schedule.New()
	m.data = data
	m.reconciler = schedule.NewReconciler(data, nil)
	m.selection = &schedule.Selection{}
	m.screen = ScreenCreate
	m.focus = FocusGrid
	m.roomUID = ""
	m.isOwner = false
	m.hovered = hoverNone
	m.hoverCell = nil
	m.confirmDelete = false
	m.eventName.SetValue("")
	m.userName.SetValue("")
	m.absentReason.SetValue("")
	return m
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focus {
	case FocusEventName:
		return m.handleEventNameKeys(msg)
	case FocusUserName:
		return m.handleUserNameKeys(msg)
	case FocusAbsentReason:
		return m.handleAbsentReasonKeys(msg)
	}

	if m.screen == ScreenCreate {
		return m.handleCreateKeys(msg)
	}
	return m.handleRoomKeys(msg)
}

func (m Model) handleEventNameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.eventName.Blur()
		m.focus = FocusGrid
		return m, nil
	}

	var cmd tea.Cmd
	before := m.eventName.Value()
	m.eventName, cmd = m.eventName.Update(msg)
	if v := m.eventName.Value(); v != before {
		m.data.EventName = v
		if m.channel != nil && m.isOwner {
			m.channel.SendEventName(v)
		}
	}
	return m, cmd
}

func (m Model) handleUserNameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.userName.Blur()
		m.focus = FocusGrid
		return m, nil
	}

	var cmd tea.Cmd
	before := m.userName.Value()
	m.userName, cmd = m.userName.Update(msg)
	if v := m.userName.Value(); v != before {
		m.data.UserName = v
		if m.channel != nil {
			m.channel.SendUserName(v)
		}
	}
	return m, cmd
}

func (m Model) handleAbsentReasonKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	setReason := func(v string) {
		m.data.SetSelfAbsent(&v)
		if m.debounce != nil {
			reason := v
			m.debounce.Set(&reason)
		}
	}

	switch msg.String() {
	case "esc", "enter":
		if m.debounce != nil {
			m.debounce.Flush()
		}
		m.absentReason.Blur()
		m.focus = FocusGrid
		return m, nil

	case "up", "down":
		// Cycle the canned excuses before falling back to free text.
		if msg.String() == "up" {
			m.excuseIndex--
		} else {
			m.excuseIndex++
		}
		if m.excuseIndex >= len(excuses) {
			m.excuseIndex = -1
		}
		if m.excuseIndex < -1 {
			m.excuseIndex = len(excuses) - 1
		}
		if m.excuseIndex >= 0 {
			m.absentReason.SetValue(excuses[m.excuseIndex])
			setReason(excuses[m.excuseIndex])
		} else {
			m.absentReason.SetValue("")
			setReason("")
		}
		return m, nil
	}

	var cmd tea.Cmd
	before := m.absentReason.Value()
	m.absentReason, cmd = m.absentReason.Update(msg)
	if v := m.absentReason.Value(); v != before {
		m.excuseIndex = -1
		setReason(v)
	}
	return m, cmd
}

func (m Model) handleCreateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		m.selection.Cancel()
		return m, nil

	case "tab", "e":
		m.focus = FocusEventName
		return m, m.eventName.Focus()

	case "m":
		if m.data.Dates.Mode() == schedule.ExplicitDates {
			m.data.Dates = mustWeekdays(nil)
		} else {
			m.data.Dates = schedule.NewExplicitDates(nil)
		}
		m.data.Reshape()
		return m, commands.SaveDraft(m.store, m.data)

	case "left", "h":
		if m.dateCursor > 0 {
			m.dateCursor--
		}
		return m, nil

	case "right", "l":
		if m.dateCursor < dateStripDays-1 {
			m.dateCursor++
		}
		return m, nil

	case " ", "enter":
		if m.data.Dates.Mode() != schedule.ExplicitDates {
			return m, nil
		}
		day := m.stripDate(m.dateCursor)
		if m.data.Dates.Contains(day) {
			m.data.Dates = m.data.Dates.WithoutDate(day)
		} else {
			next, err := m.data.Dates.WithDate(day)
			if errors.Is(err, schedule.ErrTooManyDates) {
				return m.statusError(fmt.Sprintf("No more than %d dates per event", schedule.MaxExplicitDates))
			}
			m.data.Dates = next
		}
		m.data.Reshape()
		return m, commands.SaveDraft(m.store, m.data)

	case "1", "2", "3", "4", "5", "6", "7":
		if m.data.Dates.Mode() != schedule.WeekdayPattern {
			return m, nil
		}
		day := int(msg.String()[0] - '0')
		next, err := m.data.Dates.ToggleWeekday(day)
		if err != nil {
			return m, nil
		}
		m.data.Dates = next
		m.data.Reshape()
		return m, commands.SaveDraft(m.store, m.data)

	case "[":
		return m.shiftWindow(-1, true)
	case "]":
		return m.shiftWindow(+1, true)
	case "{":
		return m.shiftWindow(-1, false)
	case "}":
		return m.shiftWindow(+1, false)

	case "s":
		m.data.SlotLength = nextSlotLength(m.data.SlotLength)
		m.data.Reshape()
		return m, commands.SaveDraft(m.store, m.data)

	case "x":
		m.data.UserSchedule = m.data.UserSchedule.Cleared()
		return m, commands.SaveDraft(m.store, m.data)

	case "c", "ctrl+s":
		return m.submitCreate()
	}
	return m, nil
}

func (m Model) shiftWindow(delta int, from bool) (tea.Model, tea.Cmd) {
	if from {
		h := (m.data.TimeRange.From.Hour24() + delta + 24) % 24
		m.data.TimeRange.From = schedule.FromHour24(h)
	} else {
		h := (m.data.TimeRange.To.Hour24() + delta + 24) % 24
		m.data.TimeRange.To = schedule.FromHour24(h)
	}
	m.data.Reshape()
	return m, commands.SaveDraft(m.store, m.data)
}

func nextSlotLength(current int) int {
	for i, n := range schedule.SlotLengths {
		if n == current {
			return schedule.SlotLengths[(i+1)%len(schedule.SlotLengths)]
		}
	}
	return schedule.DefaultSlotLength
}

func (m Model) submitCreate() (tea.Model, tea.Cmd) {
	if m.creating {
		return m, nil
	}
	if m.data.EventName == "" {
		return m.statusError("Give the event a name first (tab)")
	}
	if m.data.Cols() == 0 {
		return m.statusError("Pick at least one day")
	}
	if m.data.Rows() == 0 {
		return m.statusError("The time window is empty")
	}
	m.creating = true
	m.statusMsg = "Creating room..."
	m.statusIsErr = false
	return m, commands.CreateRoom(m.client, m.data)
}

func (m Model) handleRoomKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "D" {
		m.confirmDelete = false
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc":
		m.selection.Cancel()
		return m, nil

	case "e":
		if !m.isOwner {
			return m.status("Only the owner can rename the event")
		}
		m.focus = FocusEventName
		return m, m.eventName.Focus()

	case "n":
		m.focus = FocusUserName
		return m, m.userName.Focus()

	case "a":
		return m.toggleAbsent()

	case "y":
		return m, commands.CopyShareLink(m.shareURL())

	case "x":
		if m.data.SelfAbsent() {
			return m.statusError("You're marked absent; press a to come back first")
		}
		m.reconciler.ApplyLocalEdit(m.data.UserSchedule.Cleared())
		return m, nil

	case "b":
		return m.showBestSlots()

	case "tab":
		m.hovered = m.nextHover(+1)
		return m, nil
	case "shift+tab":
		m.hovered = m.nextHover(-1)
		return m, nil

	case "D":
		if !m.isOwner {
			return m.status("Only the owner can delete the room")
		}
		if !m.confirmDelete {
			m.confirmDelete = true
			return m.statusError("Press D again to delete the room for everyone")
		}
		m.confirmDelete = false
		return m, commands.DeleteRoom(m.client, m.roomUID)
	}
	return m, nil
}

// toggleAbsent flips the user's absence. Becoming absent clears their
// schedule and opens the reason input; the owner can't be absent.
func (m Model) toggleAbsent() (tea.Model, tea.Cmd) {
	if m.isOwner {
		return m.status("The owner can't sit this one out")
	}

	if m.data.SelfAbsent() {
		m.data.SetSelfAbsent(nil)
		if m.debounce != nil {
			m.debounce.Cancel()
		}
		if m.channel != nil {
			m.channel.SendAbsent(m.data.UserName, nil)
		}
		m.absentReason.SetValue("")
		return m, nil
	}

	reason := ""
	m.data.SetSelfAbsent(&reason)
	if m.channel != nil {
		m.channel.SendAbsent(m.data.UserName, &reason)
	}
	m.excuseIndex = -1
	m.absentReason.SetValue("")
	m.focus = FocusAbsentReason
	return m, m.absentReason.Focus()
}

func (m Model) showBestSlots() (tea.Model, tea.Cmd) {
	best := schedule.BestSlots(m.data, 3)
	if len(best) == 0 {
		return m.status("No availability marked yet")
	}
	return m.status("Best: " + best[0].Describe(m.data))
}

// nextHover cycles none -> self -> each other participant.
func (m Model) nextHover(step int) int {
	total := 1 + len(m.data.Others) // self plus others
	h := m.hovered + step
	if h < hoverNone {
		return total - 1
	}
	if h >= total {
		return hoverNone
	}
	return h
}

// handleMouseMsg maps pointer events to the selection engine.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	LogMouse(msg)

	cell, onGrid := m.cellAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if !onGrid {
			if legend, ok := m.legendAt(msg.Y); ok && m.screen == ScreenRoom {
				if m.hovered == legend {
					m.hovered = hoverNone
				} else {
					m.hovered = legend
				}
			}
			return m, nil
		}
		err := m.selection.Start(cell.DateIndex, cell.TimeIndex,
			m.data.UserSchedule.At(cell.DateIndex, cell.TimeIndex),
			m.data.SelfAbsent())
		if errors.Is(err, schedule.ErrSubjectAbsent) {
			return m.statusError("You're marked absent; press a to come back first")
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.selection.Dragging() {
			if onGrid {
				m.selection.Extend(cell.DateIndex, cell.TimeIndex)
			}
			return m, nil
		}
		if onGrid {
			c := cell
			m.hoverCell = &c
		} else {
			m.hoverCell = nil
		}
		return m, nil

	case tea.MouseActionRelease:
		if !m.selection.Dragging() {
			return m, nil
		}
		next := m.selection.Release(m.data.UserSchedule)
		if m.screen == ScreenRoom {
			m.reconciler.ApplyLocalEdit(next)
			return m, nil
		}
		m.data.UserSchedule = next
		return m, commands.SaveDraft(m.store, m.data)
	}

	return m, nil
}

// cellAt maps terminal coordinates to a grid cell.
func (m Model) cellAt(x, y int) (schedule.Point, bool) {
	cols, rows := m.data.Cols(), m.data.Rows()
	if cols == 0 || rows == 0 {
		return schedule.Point{}, false
	}
	left := m.gridLeft()
	top := m.gridTop()
	return schedule.CellAt(
		float64(x-left), float64(y-top),
		float64(cols*cellWidth), float64(rows*cellHeight),
		cols, rows,
	)
}

func mustWeekdays(days []int) schedule.DateSelection {
	sel, err := schedule.NewWeekdayPattern(days)
	if err != nil {
		return schedule.DateSelection{}
	}
	return sel
}
