// Package dates provides calendar-day parsing and report window resolution.
//
// All analytics operate on whole calendar days; times are normalized to UTC
// midnight so date comparison and subtraction are exact.
package dates

import (
	"fmt"
	"time"
)

// DayLayout is the wire and storage format for calendar days.
const DayLayout = "2006-01-02"

const hoursPerDay = 24

// Day builds a calendar day at UTC midnight.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Parse parses a YYYY-MM-DD string into a calendar day.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidDateRange, s, err)
	}
	return t.UTC(), nil
}

// Normalize truncates a timestamp to its UTC calendar day.
func Normalize(t time.Time) time.Time {
	u := t.UTC()
	return Day(u.Year(), u.Month(), u.Day())
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / hoursPerDay)
}

// MonthLength returns the number of days in the given month.
func MonthLength(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return Day(year, month+1, 0).Day()
}

// YearWindow returns the inclusive [Jan 1, Dec 31] window of a calendar year.
func YearWindow(year int) (start, finish time.Time) {
	return Day(year, time.January, 1), Day(year, time.December, 31)
}

// ResolveWindow fills in missing window bounds relative to the current day.
// See ResolveWindowAt for the rules.
func ResolveWindow(start, finish string) (time.Time, time.Time, error) {
	return ResolveWindowAt(time.Now(), start, finish)
}

// ResolveWindowAt resolves an inclusive [start, finish] window from
// optionally-empty bound strings:
//   - both empty: the previous calendar month relative to now
//   - start empty: the first day of the month containing finish
//   - finish empty: the last day of the month containing start
//
// Returns ErrInvalidDateRange when a bound fails to parse or the resolved
// window is inverted.
func ResolveWindowAt(now time.Time, start, finish string) (time.Time, time.Time, error) {
	if start == "" && finish == "" {
		first := Day(now.UTC().Year(), now.UTC().Month(), 1)
		s := first.AddDate(0, -1, 0)
		return s, first.AddDate(0, 0, -1), nil
	}

	var s, f time.Time
	var err error

	if start != "" {
		if s, err = Parse(start); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if finish != "" {
		if f, err = Parse(finish); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	switch {
	case start == "":
		s = Day(f.Year(), f.Month(), 1)
	case finish == "":
		f = Day(s.Year(), s.Month(), MonthLength(s.Year(), s.Month()))
	}

	if f.Before(s) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start %s after finish %s",
			ErrInvalidDateRange, s.Format(DayLayout), f.Format(DayLayout))
	}
	return s, f, nil
}

// InWindow reports whether day d falls inside the inclusive [start, finish] window.
func InWindow(d, start, finish time.Time) bool {
	return !d.Before(start) && !d.After(finish)
}
