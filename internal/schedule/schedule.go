package schedule

// Data is the aggregate root for one room session. It is created once per
// session, either empty (create flow) or hydrated from a server snapshot
// (join flow), and mutated in place for the session's duration.
//
// UserSchedule is the user's own availability and is the only grid edited
// locally. OthersSchedule, Others, and AbsentReasons are authoritative
// copies of server-broadcast state: they are only ever replaced wholesale
// by an incoming message, never mutated cell by cell.
type Data struct {
	EventName  string
	UserName   string
	Dates      DateSelection
	SlotLength int
	TimeRange  TimeWindow

	UserSchedule Grid

	// OthersSchedule[d][t] lists the indices into Others of the other
	// participants available in that slot. Indices are zero-based into
	// Others, not offset by the self slot.
	OthersSchedule [][][]int
	Others         []string

	// AbsentReasons[0] is the user's own; AbsentReasons[i+1] belongs to
	// Others[i]. nil means present; "" means absent with no reason given.
	AbsentReasons []*string
}

// New returns an empty schedule with product defaults: no dates, a 9 AM
// to 5 PM window, and the default slot length.
func New() *Data {
	d := &Data{
		Dates:      NewExplicitDates(nil),
		SlotLength: DefaultSlotLength,
		TimeRange: TimeWindow{
			From: H12Time{Hour: 9, IsAM: true},
			To:   H12Time{Hour: 5, IsAM: false},
		},
		AbsentReasons: []*string{nil},
	}
	d.Reshape()
	return d
}

// Geometry returns the current derived column shape.
func (d *Data) Geometry() Geometry {
	return d.TimeRange.Geometry(d.SlotLength)
}

// Cols returns the number of date columns.
func (d *Data) Cols() int { return d.Dates.Len() }

// Rows returns the number of time slots per column.
func (d *Data) Rows() int { return d.Geometry().Rows }

// Reshape rebuilds UserSchedule to the shape implied by Dates, TimeRange,
// and SlotLength, keeping values at overlapping indices. It must run
// after any mutation of those three fields and before the next grid read.
// It is cheap when the shape already matches.
func (d *Data) Reshape() {
	cols, rows := d.Cols(), d.Rows()
	if d.UserSchedule.Matches(cols, rows) {
		return
	}
	d.UserSchedule = d.UserSchedule.Reshape(cols, rows)
}

// SelfAbsent reports whether the user is currently marked absent.
func (d *Data) SelfAbsent() bool {
	return len(d.AbsentReasons) > 0 && d.AbsentReasons[0] != nil
}

// SelfAbsentReason returns the user's absence reason, or "" when present.
func (d *Data) SelfAbsentReason() string {
	if !d.SelfAbsent() {
		return ""
	}
	return *d.AbsentReasons[0]
}

// SetSelfAbsent marks the user absent with the given reason, or present
// when reason is nil. Becoming absent clears the user's own schedule:
// absence and availability are mutually exclusive.
func (d *Data) SetSelfAbsent(reason *string) {
	if len(d.AbsentReasons) == 0 {
		d.AbsentReasons = []*string{nil}
	}
	d.AbsentReasons[0] = reason
	if reason != nil {
		d.UserSchedule = d.UserSchedule.Cleared()
	}
}

// OtherAbsent reports whether Others[i] is marked absent.
func (d *Data) OtherAbsent(i int) bool {
	return i+1 < len(d.AbsentReasons) && d.AbsentReasons[i+1] != nil
}

// Occupancy returns the other-participant indices available in the cell.
// Out-of-range cells are empty.
func (d *Data) Occupancy(dateIndex, timeIndex int) []int {
	if dateIndex < 0 || dateIndex >= len(d.OthersSchedule) {
		return nil
	}
	col := d.OthersSchedule[dateIndex]
	if timeIndex < 0 || timeIndex >= len(col) {
		return nil
	}
	return col[timeIndex]
}

// ParticipantCount is self plus all known others.
func (d *Data) ParticipantCount() int { return len(d.Others) + 1 }

// SlotUsers returns, for a cell with any occupancy, which participants
// (index 0 = self) are available in it. It returns nil when the cell is
// empty, which callers use to clear hover state.
func (d *Data) SlotUsers(dateIndex, timeIndex int) []bool {
	occ := d.Occupancy(dateIndex, timeIndex)
	self := d.UserSchedule.At(dateIndex, timeIndex)
	if !self && len(occ) == 0 {
		return nil
	}
	users := make([]bool, d.ParticipantCount())
	users[0] = self
	for _, idx := range occ {
		if idx+1 < len(users) {
			users[idx+1] = true
		}
	}
	return users
}
