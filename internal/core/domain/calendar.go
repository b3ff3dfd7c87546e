package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidWeekKey = errors.New("invalid week key (must be YYYY-Www)")
	ErrInvalidDate    = errors.New("invalid date (must be YYYY-MM-DD)")
	ErrInvalidDay     = errors.New("invalid day of week")
)

// Day is the label a habit uses to address one weekday, independent of any date.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"

	DateLayout = "2006-01-02"
)

// Days lists the labels in week order. Weeks start on Monday.
var Days = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Clock returns the current instant. Callers must invoke it on every request
// instead of holding on to a previously computed "today".
type Clock func() time.Time

func (d Day) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	}
	return false
}

func ParseDay(s string) (Day, error) {
	d := Day(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return d, nil
}

// DayOfWeek maps time.Weekday (0=Sunday..6=Saturday) onto the Monday-first labels.
func DayOfWeek(t time.Time) Day {
	return Days[mondayOffset(t)]
}

// mondayOffset is the number of days between t and the Monday that starts its week.
func mondayOffset(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// AddDays shifts t by n calendar days, keeping the wall clock. When that wall clock
// does not exist on the target date the first instant of the date is returned, so
// stepping from one day always lands on the next calendar date.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	start := dayStart(y, m, d+n, t.Location())

	shifted := time.Date(start.Year(), start.Month(), start.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if !sameDate(shifted, start) || shifted.Before(start) {
		return start
	}
	return shifted
}

// StartOfDay is the first instant of t's date. That is midnight except where a DST
// jump skips midnight, e.g. America/Santiago, where the day starts at 01:00.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return dayStart(y, m, d, t.Location())
}

// dayStart resolves the civil date through noon, which exists everywhere, and then
// walks forward from midnight: time.Date may normalize a skipped midnight onto the
// previous evening.
func dayStart(y int, m time.Month, d int, loc *time.Location) time.Time {
	noon := time.Date(y, m, d, 12, 0, 0, 0, loc)
	start := time.Date(noon.Year(), noon.Month(), noon.Day(), 0, 0, 0, 0, loc)
	for !sameDate(start, noon) && start.Before(noon) {
		start = start.Add(30 * time.Minute)
	}
	return start
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// StartOfWeek returns the start of the Monday of t's week. Sunday rolls back six days.
func StartOfWeek(t time.Time) time.Time {
	return AddDays(StartOfDay(t), -mondayOffset(t))
}

// WeekKey identifies the ISO week containing t, e.g. "2026-W42".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func ParseWeekKey(key string) (int, int, error) {
	var year, week int
	if len(key) != 8 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeekKey, key)
	}
	if _, err := fmt.Sscanf(key, "%04d-W%02d", &year, &week); err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeekKey, key)
	}
	if week < 1 || week > 53 || fmt.Sprintf("%04d-W%02d", year, week) != key {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidWeekKey, key)
	}
	return year, week, nil
}

// WeekStart is the inverse of WeekKey: the start of the week's Monday in loc.
// January 4th always falls in ISO week 1.
func WeekStart(key string, loc *time.Location) (time.Time, error) {
	year, week, err := ParseWeekKey(key)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	jan4 := dayStart(year, time.January, 4, loc)
	start := AddDays(StartOfWeek(jan4), (week-1)*7)

	// week 53 only exists in long years
	if WeekKey(start) != key {
		return time.Time{}, fmt.Errorf("%w: %q does not exist", ErrInvalidWeekKey, key)
	}
	return start, nil
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDateKey(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return dayStart(t.Year(), t.Month(), t.Day(), loc), nil
}
