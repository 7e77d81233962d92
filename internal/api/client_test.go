package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quorum-sh/quorum/internal/schedule"
)

func strptr(s string) *string { return &s }

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.retryDelay = time.Millisecond
	return c
}

func TestAuthenticateStoresCookie(t *testing.T) {
	var sawCookie bool
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "auth_token", Value: "tok", Path: "/"})
	})
	mux.HandleFunc("GET /api/rooms/abc", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("auth_token"); err == nil && c.Value == "tok" {
			sawCookie = true
		}
		http.NotFound(w, r)
	})

	c := testClient(t, mux)
	if err := c.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if _, err := c.GetRoom(context.Background(), "abc"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("GetRoom err = %v, want ErrRoomNotFound", err)
	}
	if !sawCookie {
		t.Error("session cookie was not sent on the follow-up request")
	}
}

func TestCreateRoomBody(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rooms", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(CreateRoomResponse{RoomUID: "room-1"})
	})

	d := schedule.New()
	d.EventName = "standup"
	d.Dates = schedule.NewExplicitDates([]time.Time{
		time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC),
	})
	d.Reshape()

	c := testClient(t, mux)
	uid, err := c.CreateRoom(context.Background(), d)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if uid != "room-1" {
		t.Errorf("uid = %q, want room-1", uid)
	}

	if got["event_name"] != "standup" {
		t.Errorf("event_name = %v", got["event_name"])
	}
	if got["schedule_type"] != float64(0) {
		t.Errorf("schedule_type = %v, want 0", got["schedule_type"])
	}
	dates, ok := got["dates"].([]any)
	if !ok || len(dates) != 1 || dates[0] != "2024-04-12" {
		t.Errorf("dates = %v, want [2024-04-12]", got["dates"])
	}
	tr, ok := got["time_range"].(map[string]any)
	if !ok || tr["from_hour"] != float64(9) || tr["to_hour"] != float64(17) {
		t.Errorf("time_range = %v, want 9..17", got["time_range"])
	}
}

func TestCreateRoomWeekdayBody(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/rooms", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(CreateRoomResponse{RoomUID: "room-2"})
	})

	d := schedule.New()
	sel, err := schedule.NewWeekdayPattern([]int{1, 3, 5})
	if err != nil {
		t.Fatalf("NewWeekdayPattern: %v", err)
	}
	d.Dates = sel
	d.Reshape()

	c := testClient(t, mux)
	if _, err := c.CreateRoom(context.Background(), d); err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if got["schedule_type"] != float64(1) {
		t.Errorf("schedule_type = %v, want 1", got["schedule_type"])
	}
	dates, ok := got["dates"].([]any)
	if !ok || len(dates) != 3 || dates[0] != float64(1) || dates[2] != float64(5) {
		t.Errorf("dates = %v, want weekday numbers [1 3 5]", got["dates"])
	}
}

func TestGetRoomMapsSnapshot(t *testing.T) {
	snap := RoomSnapshot{
		EventName:    "retro",
		ScheduleType: scheduleTypeDates,
		Dates:        []string{"2024-04-12", "2024-04-13"},
		TimeRange:    TimeRange{FromHour: 10, ToHour: 12},
		SlotLength:   30,
		UserSchedule: [][]bool{
			{true, false, false, false},
			{false, false, false, false},
		},
		OthersSchedule: [][][]int{
			{{0}, {}, {}, {}},
			{{}, {}, {}, {0}},
		},
		UserName:      "ana",
		OthersNames:   []string{"bo"},
		AbsentReasons: []*string{nil, strptr("travelling")},
		IsOwner:       true,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rooms/room-3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(snap)
	})

	c := testClient(t, mux)
	got, err := c.GetRoom(context.Background(), "room-3")
	if err != nil {
		t.Fatalf("GetRoom: %v", err)
	}
	d, err := got.ScheduleData()
	if err != nil {
		t.Fatalf("ScheduleData: %v", err)
	}

	if d.EventName != "retro" || d.UserName != "ana" {
		t.Errorf("identity = %q/%q", d.EventName, d.UserName)
	}
	if d.Dates.Mode() != schedule.ExplicitDates || d.Dates.Len() != 2 {
		t.Errorf("dates mode/len = %v/%d", d.Dates.Mode(), d.Dates.Len())
	}
	if got, want := d.TimeRange.Minutes(), 120; got != want {
		t.Errorf("window minutes = %d, want %d", got, want)
	}
	// 2 hours at 30 min slots: reshape must preserve the 2x4 grid.
	if d.Cols() != 2 || d.Rows() != 4 {
		t.Errorf("grid = %dx%d, want 2x4", d.Cols(), d.Rows())
	}
	if !d.UserSchedule.At(0, 0) || d.UserSchedule.At(1, 0) {
		t.Error("user schedule not preserved through mapping")
	}
	if !d.OtherAbsent(0) || d.OthersSchedule[1][3][0] != 0 {
		t.Error("others' state not carried verbatim")
	}
}

func TestScheduleDataErrors(t *testing.T) {
	tests := []struct {
		name string
		snap RoomSnapshot
	}{
		{"unknown schedule_type", RoomSnapshot{ScheduleType: 7}},
		{"bad date string", RoomSnapshot{ScheduleType: scheduleTypeDates, Dates: []string{"not a date"}}},
		{"bad weekday", RoomSnapshot{ScheduleType: scheduleTypeDaysOfWeek, DaysOfWeek: []int{0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.snap.ScheduleData(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestParseWireDateFallbacks(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2024-04-12", time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)},
		{"2024-04-12T00:00:00Z", time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)},
		{"Fri Apr 12 2024", time.Date(2024, 4, 12, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseWireDate(tt.raw)
		if err != nil {
			t.Errorf("parseWireDate(%q): %v", tt.raw, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseWireDate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestGetRoomRetry(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rooms/flaky", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(RoomSnapshot{
			ScheduleType: scheduleTypeDaysOfWeek,
			DaysOfWeek:   []int{1},
			TimeRange:    TimeRange{FromHour: 9, ToHour: 17},
			SlotLength:   60,
		})
	})

	c := testClient(t, mux)
	if _, err := c.GetRoomRetry(context.Background(), "flaky", 5); err != nil {
		t.Fatalf("GetRoomRetry: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestGetRoomRetryNotFoundIsFinal(t *testing.T) {
	var calls int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rooms/gone", func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.NotFound(w, r)
	})

	c := testClient(t, mux)
	if _, err := c.GetRoomRetry(context.Background(), "gone", 5); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (not found is not retried)", calls)
	}
}

func TestDeleteRoomStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"ok", http.StatusOK, nil},
		{"not found", http.StatusNotFound, ErrRoomNotFound},
		{"unauthorized", http.StatusUnauthorized, ErrNotOwner},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("DELETE /api/rooms/x", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			c := testClient(t, mux)
			err := c.DeleteRoom(context.Background(), "x")
			if tt.want == nil && err != nil {
				t.Fatalf("DeleteRoom: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
