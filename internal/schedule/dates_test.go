package schedule

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewExplicitDates_SortsAndDeduplicates(t *testing.T) {
	s := NewExplicitDates([]time.Time{
		date(2026, 4, 14),
		date(2026, 4, 12),
		time.Date(2026, 4, 14, 18, 30, 0, 0, time.UTC), // same day, later clock
		date(2026, 4, 13),
	})

	if s.Mode() != ExplicitDates {
		t.Fatalf("Mode() = %v, want ExplicitDates", s.Mode())
	}
	got := s.Dates()
	want := []time.Time{date(2026, 4, 12), date(2026, 4, 13), date(2026, 4, 14)}
	if len(got) != len(want) {
		t.Fatalf("len(Dates()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("Dates()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDateSelection_WithDate_Cap(t *testing.T) {
	var dates []time.Time
	for i := 0; i < MaxExplicitDates; i++ {
		dates = append(dates, date(2026, 4, 1).AddDate(0, 0, i))
	}
	s := NewExplicitDates(dates)

	// Re-adding an existing date is fine even at the cap.
	same, err := s.WithDate(date(2026, 4, 3))
	if err != nil {
		t.Fatalf("WithDate(existing) error: %v", err)
	}
	if same.Len() != MaxExplicitDates {
		t.Errorf("Len() = %d after re-add, want %d", same.Len(), MaxExplicitDates)
	}

	// The 15th date is refused and the selection is unchanged.
	refused, err := s.WithDate(date(2026, 5, 1))
	if !errors.Is(err, ErrTooManyDates) {
		t.Fatalf("WithDate past cap error = %v, want ErrTooManyDates", err)
	}
	if refused.Len() != MaxExplicitDates {
		t.Errorf("Len() = %d after refusal, want %d", refused.Len(), MaxExplicitDates)
	}
}

func TestDateSelection_WithoutDate(t *testing.T) {
	s := NewExplicitDates([]time.Time{date(2026, 4, 12), date(2026, 4, 13)})
	s = s.WithoutDate(date(2026, 4, 12))
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if s.Contains(date(2026, 4, 12)) {
		t.Error("removed date still contained")
	}
	if !s.Contains(date(2026, 4, 13)) {
		t.Error("remaining date missing")
	}
}

func TestNewWeekdayPattern(t *testing.T) {
	s, err := NewWeekdayPattern([]int{5, 1, 5, 3})
	if err != nil {
		t.Fatalf("NewWeekdayPattern error: %v", err)
	}
	got := s.Weekdays()
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("Weekdays() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Weekdays() = %v, want %v", got, want)
		}
	}

	if _, err := NewWeekdayPattern([]int{0}); !errors.Is(err, ErrInvalidWeekday) {
		t.Errorf("weekday 0 error = %v, want ErrInvalidWeekday", err)
	}
	if _, err := NewWeekdayPattern([]int{8}); !errors.Is(err, ErrInvalidWeekday) {
		t.Errorf("weekday 8 error = %v, want ErrInvalidWeekday", err)
	}
}

func TestDateSelection_ToggleWeekday(t *testing.T) {
	s, _ := NewWeekdayPattern([]int{1, 3})
	s, err := s.ToggleWeekday(3)
	if err != nil {
		t.Fatalf("ToggleWeekday error: %v", err)
	}
	if got := s.Weekdays(); len(got) != 1 || got[0] != 1 {
		t.Errorf("Weekdays() = %v, want [1]", got)
	}
	s, _ = s.ToggleWeekday(7)
	if got := s.Weekdays(); len(got) != 2 || got[1] != 7 {
		t.Errorf("Weekdays() = %v, want [1 7]", got)
	}
}

func TestDateSelection_ColumnLabels(t *testing.T) {
	s := NewExplicitDates([]time.Time{date(2026, 4, 12)})
	if got := s.ColumnLabel(0); got != "4/12" {
		t.Errorf("ColumnLabel(0) = %q, want %q", got, "4/12")
	}
	if got := s.ColumnLabel(5); got != "" {
		t.Errorf("ColumnLabel(5) = %q, want empty", got)
	}

	w, _ := NewWeekdayPattern([]int{2, 6})
	if got := w.ColumnLabel(1); got != "Sat" {
		t.Errorf("ColumnLabel(1) = %q, want %q", got, "Sat")
	}
}
