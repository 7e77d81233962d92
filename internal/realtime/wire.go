// Package realtime maintains the websocket session with a room: outbound
// edits, inbound partial updates, liveness pings, and reconnection.
//
// The protocol is asymmetric on purpose: frames we send carry snake_case
// keys under "message_type", broadcasts we receive carry camelCase keys
// under "messageType". Both directions share the literal text frames
// "ping" and "pong" for liveness.
package realtime

import (
	"encoding/json"
	"fmt"

	"github.com/quorum-sh/quorum/internal/schedule"
)

type outboundFrame struct {
	MessageType string `json:"message_type"`
	Payload     any    `json:"payload"`
}

type editSchedulePayload struct {
	UserName     string   `json:"user_name"`
	UserSchedule [][]bool `json:"user_schedule"`
}

type editNamePayload struct {
	Name string `json:"name"`
}

type editIsAbsentPayload struct {
	UserName string `json:"user_name"`
	// nil means present; a string (possibly empty) means absent.
	AbsentReason *string `json:"absent_reason"`
}

type inboundFrame struct {
	MessageType string          `json:"messageType"`
	Payload     json.RawMessage `json:"payload"`
}

type inboundPayload struct {
	UserName       string    `json:"userName"`
	EventName      string    `json:"eventName"`
	Others         []string  `json:"others"`
	OthersSchedule [][][]int `json:"othersSchedule"`
	AbsentReasons  []*string `json:"absentReasons"`
}

// patchTypes maps wire tags to the closed patch set. A tag outside this
// map is dropped by the read loop, never dispatched.
var patchTypes = map[string]schedule.PatchType{
	"editSchedule":         schedule.PatchEditSchedule,
	"editUserName":         schedule.PatchEditUserName,
	"editEventName":        schedule.PatchEditEventName,
	"otherSetAbsentReason": schedule.PatchOtherSetAbsentReason,
	"userSetAbsentReason":  schedule.PatchUserSetAbsentReason,
	"roomDeleted":          schedule.PatchRoomDeleted,
}

// decodePatch turns one inbound text frame into a Patch. Liveness frames
// are not patches; the read loop filters them before calling this.
func decodePatch(raw []byte) (schedule.Patch, error) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return schedule.Patch{}, fmt.Errorf("decode frame: %w", err)
	}
	t, ok := patchTypes[frame.MessageType]
	if !ok {
		return schedule.Patch{}, fmt.Errorf("unknown message type %q", frame.MessageType)
	}

	p := schedule.Patch{Type: t}
	if len(frame.Payload) == 0 {
		return p, nil
	}
	var body inboundPayload
	if err := json.Unmarshal(frame.Payload, &body); err != nil {
		return schedule.Patch{}, fmt.Errorf("decode %s payload: %w", frame.MessageType, err)
	}
	p.UserName = body.UserName
	p.EventName = body.EventName
	p.Others = body.Others
	p.OthersSchedule = body.OthersSchedule
	p.AbsentReasons = body.AbsentReasons
	return p, nil
}
