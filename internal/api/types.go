// Package api is the HTTP client for the room server's REST surface:
// authentication, room creation, snapshot fetch, and deletion. The
// realtime socket lives in the realtime package.
package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quorum-sh/quorum/internal/schedule"
)

// Schedule type tags on the wire.
const (
	scheduleTypeDates      = 0
	scheduleTypeDaysOfWeek = 1
)

const wireDateLayout = "2006-01-02"

// TimeRange is the wire form of a time window, in 24h hours.
type TimeRange struct {
	FromHour int `json:"from_hour"`
	ToHour   int `json:"to_hour"`
}

// DateList is the "dates" field of a room creation: a list of ISO dates
// in explicit-dates mode, or a list of weekday numbers in pattern mode.
// The server accepts either shape under the same key.
type DateList struct {
	Dates    []string
	Weekdays []int
}

func (d DateList) MarshalJSON() ([]byte, error) {
	if d.Weekdays != nil {
		return json.Marshal(d.Weekdays)
	}
	if d.Dates == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.Dates)
}

// CreateRoomRequest is the body of POST /api/rooms.
type CreateRoomRequest struct {
	EventName    string    `json:"event_name"`
	ScheduleType int       `json:"schedule_type"`
	Dates        DateList  `json:"dates"`
	TimeRange    TimeRange `json:"time_range"`
	SlotLength   int       `json:"slot_length"`
	Schedule     [][]bool  `json:"schedule"`
}

// CreateRoomResponse is the body of a successful room creation.
type CreateRoomResponse struct {
	RoomUID string `json:"room_uid"`
}

// RoomSnapshot is the body of GET /api/rooms/{uid}: the full authoritative
// room state used to hydrate a session at join time.
type RoomSnapshot struct {
	EventName      string    `json:"event_name"`
	ScheduleType   int       `json:"schedule_type"`
	Dates          []string  `json:"dates"`
	DaysOfWeek     []int     `json:"days_of_week"`
	TimeRange      TimeRange `json:"time_range"`
	SlotLength     int       `json:"slot_length"`
	UserSchedule   [][]bool  `json:"user_schedule"`
	OthersSchedule [][][]int `json:"others_schedule"`
	UserName       string    `json:"user_name"`
	OthersNames    []string  `json:"others_names"`
	AbsentReasons  []*string `json:"absent_reasons"`
	IsOwner        bool      `json:"is_owner"`
}

// NewCreateRoomRequest maps the in-memory aggregate to the wire shape.
func NewCreateRoomRequest(d *schedule.Data) CreateRoomRequest {
	req := CreateRoomRequest{
		EventName: d.EventName,
		TimeRange: TimeRange{
			FromHour: d.TimeRange.From.Hour24(),
			ToHour:   d.TimeRange.To.Hour24(),
		},
		SlotLength: d.SlotLength,
		Schedule:   d.UserSchedule,
	}
	switch d.Dates.Mode() {
	case schedule.ExplicitDates:
		req.ScheduleType = scheduleTypeDates
		for _, date := range d.Dates.Dates() {
			req.Dates.Dates = append(req.Dates.Dates, date.Format(wireDateLayout))
		}
	case schedule.WeekdayPattern:
		req.ScheduleType = scheduleTypeDaysOfWeek
		req.Dates.Weekdays = d.Dates.Weekdays()
	}
	return req
}

// ScheduleData maps the snapshot into the in-memory aggregate. Others'
// schedule and absence state stay exactly as the server sent them.
func (s *RoomSnapshot) ScheduleData() (*schedule.Data, error) {
	d := &schedule.Data{
		EventName:  s.EventName,
		UserName:   s.UserName,
		SlotLength: s.SlotLength,
		TimeRange: schedule.TimeWindow{
			From: schedule.FromHour24(s.TimeRange.FromHour),
			To:   schedule.FromHour24(s.TimeRange.ToHour),
		},
		UserSchedule:   schedule.Grid(s.UserSchedule),
		OthersSchedule: s.OthersSchedule,
		Others:         s.OthersNames,
		AbsentReasons:  s.AbsentReasons,
	}

	switch s.ScheduleType {
	case scheduleTypeDates:
		dates := make([]time.Time, 0, len(s.Dates))
		for _, raw := range s.Dates {
			parsed, err := parseWireDate(raw)
			if err != nil {
				return nil, err
			}
			dates = append(dates, parsed)
		}
		d.Dates = schedule.NewExplicitDates(dates)
	case scheduleTypeDaysOfWeek:
		sel, err := schedule.NewWeekdayPattern(s.DaysOfWeek)
		if err != nil {
			return nil, fmt.Errorf("snapshot days_of_week: %w", err)
		}
		d.Dates = sel
	default:
		return nil, fmt.Errorf("unknown schedule_type %d", s.ScheduleType)
	}

	if len(d.AbsentReasons) == 0 {
		d.AbsentReasons = []*string{nil}
	}
	d.Reshape()
	return d, nil
}

// parseWireDate accepts the date formats the server has stored over time.
var wireDateLayouts = []string{
	wireDateLayout,
	time.RFC3339,
	"Mon Jan 02 2006", // JS Date.toDateString
}

func parseWireDate(raw string) (time.Time, error) {
	for _, layout := range wireDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}
