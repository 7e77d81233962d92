package schedule

import (
	"errors"
	"sort"
	"time"
)

// DateSelection errors.
var (
	ErrTooManyDates   = errors.New("too many dates selected")
	ErrInvalidWeekday = errors.New("weekday must be in 1..7")
)

// MaxExplicitDates is the product cap on explicitly picked dates. It is a
// policy enforced at the edge (the UI refuses the 15th date with a
// warning), not a structural invariant of the type.
const MaxExplicitDates = 14

// DateMode selects how the grid's columns are defined.
type DateMode int

const (
	// ExplicitDates: columns are concrete calendar dates.
	ExplicitDates DateMode = iota
	// WeekdayPattern: columns are recurring weekdays (1=Monday .. 7=Sunday).
	WeekdayPattern
)

// String returns the wire name of the mode.
func (m DateMode) String() string {
	switch m {
	case ExplicitDates:
		return "dates"
	case WeekdayPattern:
		return "daysOfWeek"
	default:
		return "unknown"
	}
}

var weekdayNames = [8]string{"", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// DateSelection is a sum type over the two column layouts. Exactly one
// variant is populated; Mode selects it. The zero value is an empty
// explicit-dates selection.
type DateSelection struct {
	mode     DateMode
	dates    []time.Time // ExplicitDates, unique, ascending
	weekdays []int       // WeekdayPattern, unique, ascending, 1..7
}

// NewExplicitDates builds an explicit-dates selection. Dates are truncated
// to midnight, de-duplicated, and sorted ascending.
func NewExplicitDates(dates []time.Time) DateSelection {
	seen := make(map[time.Time]bool, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := startOfDay(d)
		if !seen[day] {
			seen[day] = true
			out = append(out, day)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return DateSelection{mode: ExplicitDates, dates: out}
}

// NewWeekdayPattern builds a weekday-pattern selection from weekday
// numbers 1..7 (Monday..Sunday). Invalid numbers are rejected.
func NewWeekdayPattern(days []int) (DateSelection, error) {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d < 1 || d > 7 {
			return DateSelection{}, ErrInvalidWeekday
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return DateSelection{mode: WeekdayPattern, weekdays: out}, nil
}

// Mode returns the active variant.
func (s DateSelection) Mode() DateMode { return s.mode }

// Len is the number of grid columns this selection produces.
func (s DateSelection) Len() int {
	switch s.mode {
	case ExplicitDates:
		return len(s.dates)
	case WeekdayPattern:
		return len(s.weekdays)
	default:
		return 0
	}
}

// Dates returns the explicit dates. Empty for WeekdayPattern.
func (s DateSelection) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

// Weekdays returns the weekday numbers. Empty for ExplicitDates.
func (s DateSelection) Weekdays() []int {
	out := make([]int, len(s.weekdays))
	copy(out, s.weekdays)
	return out
}

// Contains reports whether the date (truncated to its day) is selected.
// Always false for WeekdayPattern.
func (s DateSelection) Contains(d time.Time) bool {
	if s.mode != ExplicitDates {
		return false
	}
	day := startOfDay(d)
	for _, existing := range s.dates {
		if existing.Equal(day) {
			return true
		}
	}
	return false
}

// WithDate returns a selection with the date added. Adding past the
// MaxExplicitDates cap is a refused operation: the original selection is
// returned unchanged together with ErrTooManyDates.
func (s DateSelection) WithDate(d time.Time) (DateSelection, error) {
	if s.Contains(d) {
		return s, nil
	}
	if s.mode == ExplicitDates && len(s.dates) >= MaxExplicitDates {
		return s, ErrTooManyDates
	}
	return NewExplicitDates(append(s.Dates(), d)), nil
}

// WithoutDate returns a selection with the date removed.
func (s DateSelection) WithoutDate(d time.Time) DateSelection {
	if s.mode != ExplicitDates {
		return s
	}
	day := startOfDay(d)
	out := make([]time.Time, 0, len(s.dates))
	for _, existing := range s.dates {
		if !existing.Equal(day) {
			out = append(out, existing)
		}
	}
	return DateSelection{mode: ExplicitDates, dates: out}
}

// ToggleWeekday returns a pattern selection with the weekday flipped.
func (s DateSelection) ToggleWeekday(day int) (DateSelection, error) {
	if day < 1 || day > 7 {
		return s, ErrInvalidWeekday
	}
	days := s.Weekdays()
	for i, existing := range days {
		if existing == day {
			return mustWeekdayPattern(append(days[:i], days[i+1:]...)), nil
		}
	}
	return mustWeekdayPattern(append(days, day)), nil
}

// ColumnLabel returns the short header label for column i, like "4/12" or
// "Wed".
func (s DateSelection) ColumnLabel(i int) string {
	switch s.mode {
	case ExplicitDates:
		if i < 0 || i >= len(s.dates) {
			return ""
		}
		d := s.dates[i]
		return d.Format("1/2")
	case WeekdayPattern:
		if i < 0 || i >= len(s.weekdays) {
			return ""
		}
		return weekdayNames[s.weekdays[i]]
	default:
		return ""
	}
}

// ColumnWeekday returns the weekday abbreviation for column i ("Mon").
func (s DateSelection) ColumnWeekday(i int) string {
	switch s.mode {
	case ExplicitDates:
		if i < 0 || i >= len(s.dates) {
			return ""
		}
		return s.dates[i].Format("Mon")
	case WeekdayPattern:
		return s.ColumnLabel(i)
	default:
		return ""
	}
}

func mustWeekdayPattern(days []int) DateSelection {
	s, err := NewWeekdayPattern(days)
	if err != nil {
		panic(err) // unreachable: inputs come from an existing selection
	}
	return s
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
