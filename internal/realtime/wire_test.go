package realtime

import (
	"reflect"
	"testing"

	"github.com/quorum-sh/quorum/internal/schedule"
)

func strptr(s string) *string { return &s }

func TestDecodePatch(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want schedule.Patch
	}{
		{
			name: "edit schedule",
			raw: `{"messageType":"editSchedule","payload":{
				"userName":"ana",
				"others":["bo"],
				"othersSchedule":[[[0],[]]],
				"absentReasons":[null,"sick"]}}`,
			want: schedule.Patch{
				Type:           schedule.PatchEditSchedule,
				UserName:       "ana",
				Others:         []string{"bo"},
				OthersSchedule: [][][]int{{{0}, {}}},
				AbsentReasons:  []*string{nil, strptr("sick")},
			},
		},
		{
			name: "edit user name",
			raw:  `{"messageType":"editUserName","payload":{"others":["cy","bo"]}}`,
			want: schedule.Patch{
				Type:   schedule.PatchEditUserName,
				Others: []string{"cy", "bo"},
			},
		},
		{
			name: "edit event name",
			raw:  `{"messageType":"editEventName","payload":{"eventName":"retro"}}`,
			want: schedule.Patch{
				Type:      schedule.PatchEditEventName,
				EventName: "retro",
			},
		},
		{
			name: "other set absent reason",
			raw: `{"messageType":"otherSetAbsentReason","payload":{
				"others":["bo"],
				"othersSchedule":[[[],[]]],
				"absentReasons":[null,""]}}`,
			want: schedule.Patch{
				Type:           schedule.PatchOtherSetAbsentReason,
				Others:         []string{"bo"},
				OthersSchedule: [][][]int{{{}, {}}},
				AbsentReasons:  []*string{nil, strptr("")},
			},
		},
		{
			name: "user set absent reason",
			raw:  `{"messageType":"userSetAbsentReason","payload":{"absentReasons":["on leave"]}}`,
			want: schedule.Patch{
				Type:          schedule.PatchUserSetAbsentReason,
				AbsentReasons: []*string{strptr("on leave")},
			},
		},
		{
			name: "room deleted has no payload",
			raw:  `{"messageType":"roomDeleted"}`,
			want: schedule.Patch{Type: schedule.PatchRoomDeleted},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodePatch([]byte(tt.raw))
			if err != nil {
				t.Fatalf("decodePatch: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("patch = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodePatchErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown type", `{"messageType":"compactRoom","payload":{}}`},
		{"not json", `ponng`},
		{"mistyped payload", `{"messageType":"editUserName","payload":{"others":"bo"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodePatch([]byte(tt.raw)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
