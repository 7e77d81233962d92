package schedule

// PatchType tags a partial update broadcast by the room server. The set
// is closed: every variant has exactly one merge path in ApplyRemotePatch
// and unknown wire tags never become a Patch.
type PatchType int

const (
	PatchEditSchedule PatchType = iota
	PatchEditUserName
	PatchEditEventName
	PatchOtherSetAbsentReason
	PatchUserSetAbsentReason
	PatchRoomDeleted
)

// String returns the wire tag for the patch type.
func (t PatchType) String() string {
	switch t {
	case PatchEditSchedule:
		return "editSchedule"
	case PatchEditUserName:
		return "editUserName"
	case PatchEditEventName:
		return "editEventName"
	case PatchOtherSetAbsentReason:
		return "otherSetAbsentReason"
	case PatchUserSetAbsentReason:
		return "userSetAbsentReason"
	case PatchRoomDeleted:
		return "roomDeleted"
	default:
		return "unknown"
	}
}

// Patch is one decoded realtime update. Only the fields selected by Type
// are meaningful.
type Patch struct {
	Type           PatchType
	EventName      string
	UserName       string
	Others         []string
	OthersSchedule [][][]int
	AbsentReasons  []*string
}

// Publisher is where the reconciler sends the user's own edits. The
// realtime channel implements it; tests use a recording fake.
type Publisher interface {
	// PublishSchedule broadcasts the user's full availability grid.
	PublishSchedule(userName string, schedule Grid)
}

// Reconciler owns the session's Data and applies its three classes of
// mutation: optimistic local edits, full snapshot loads, and partial
// remote patches. All three preserve the grid-shape invariant by running
// the reshape reaction before returning.
type Reconciler struct {
	data *Data
	pub  Publisher
}

// NewReconciler wraps the given aggregate. pub may be nil for sessions
// without a live channel (the create flow).
func NewReconciler(data *Data, pub Publisher) *Reconciler {
	return &Reconciler{data: data, pub: pub}
}

// Data returns the owned aggregate.
func (r *Reconciler) Data() *Data { return r.data }

// ApplyLocalEdit replaces the user's own availability grid and publishes
// it. This is optimistic: local state reflects the edit immediately,
// before any server acknowledgement.
func (r *Reconciler) ApplyLocalEdit(newSchedule Grid) {
	r.data.UserSchedule = newSchedule
	r.data.Reshape()
	if r.pub != nil {
		r.pub.PublishSchedule(r.data.UserName, r.data.UserSchedule)
	}
}

// LoadSnapshot replaces the whole aggregate with a server snapshot, as at
// join time. Others' state in the snapshot stays authoritative.
func (r *Reconciler) LoadSnapshot(snap *Data) {
	*r.data = *snap
	r.data.Reshape()
}

// ApplyRemotePatch merges a partial update. It returns true when the
// patch terminates the session (the room was deleted).
//
// Remote patches never touch UserSchedule, so a patch arriving mid-drag
// cannot disturb the drag in progress; last-writer-wins applies only to
// the server-owned fields.
func (r *Reconciler) ApplyRemotePatch(p Patch) (terminal bool) {
	switch p.Type {
	case PatchEditSchedule:
		r.data.UserName = p.UserName
		r.data.Others = p.Others
		r.data.OthersSchedule = p.OthersSchedule
		r.data.AbsentReasons = p.AbsentReasons
	case PatchEditUserName:
		r.data.Others = p.Others
	case PatchEditEventName:
		r.data.EventName = p.EventName
	case PatchOtherSetAbsentReason:
		r.data.Others = p.Others
		r.data.OthersSchedule = p.OthersSchedule
		r.data.AbsentReasons = p.AbsentReasons
	case PatchUserSetAbsentReason:
		// Only the user's own slot, and only when the server reports a
		// reason. A nil here is the server echoing an older state; taking
		// it would clear a reason the user is actively mid-typing.
		if len(p.AbsentReasons) > 0 && p.AbsentReasons[0] != nil {
			if len(r.data.AbsentReasons) == 0 {
				r.data.AbsentReasons = []*string{nil}
			}
			r.data.AbsentReasons[0] = p.AbsentReasons[0]
		}
	case PatchRoomDeleted:
		return true
	}
	r.data.Reshape()
	return false
}
