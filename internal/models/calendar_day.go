package models

import (
	"fmt"
	"time"
)

// DayKeyLayout is the canonical string form of a CalendarDay, used as the
// membership key in the progress record and in commit messages.
const DayKeyLayout = "2006-01-02"

// InvalidDateError reports a year/month/day triple that does not denote a
// real Gregorian date.
type InvalidDateError struct {
	Year  int
	Month int
	Day   int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %d-%02d-%02d", e.Year, e.Month, e.Day)
}

// CalendarDay is an immutable calendar date. Construct via NewCalendarDay
// so the value is always a real date.
type CalendarDay struct {
	Year  int
	Month int
	Day   int
}

func NewCalendarDay(year, month, day int) (CalendarDay, error) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return CalendarDay{}, &InvalidDateError{Year: year, Month: month, Day: day}
	}
	return CalendarDay{Year: year, Month: month, Day: day}, nil
}

// ParseDayKey parses a "YYYY-MM-DD" string back into a validated
// CalendarDay. Both a malformed key and an impossible date surface as
// *InvalidDateError.
func ParseDayKey(key string) (CalendarDay, error) {
	var year, month, day int
	if _, err := fmt.Sscanf(key, "%4d-%2d-%2d", &year, &month, &day); err != nil || len(key) != len(DayKeyLayout) {
		return CalendarDay{}, fmt.Errorf("invalid day key %q: %w", key, &InvalidDateError{Year: year, Month: month, Day: day})
	}
	return NewCalendarDay(year, month, day)
}

// Today returns the current date in UTC. Archive hours are UTC-aligned, so
// the pipeline's notion of "now" must be too.
func Today() CalendarDay {
	now := time.Now().UTC()
	return CalendarDay{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}

func (d CalendarDay) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d CalendarDay) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CalendarDay) Next() CalendarDay {
	t := d.Time().AddDate(0, 0, 1)
	return CalendarDay{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// Before reports whether d falls strictly before other.
func (d CalendarDay) Before(other CalendarDay) bool {
	return d.Time().Before(other.Time())
}

// DateRange returns every day from start to end inclusive, ascending.
// An empty slice when start is after end.
func DateRange(start, end CalendarDay) []CalendarDay {
	if end.Before(start) {
		return nil
	}
	days := make([]CalendarDay, 0, int(end.Time().Sub(start.Time()).Hours()/24)+1)
	for d := start; !end.Before(d); d = d.Next() {
		days = append(days, d)
	}
	return days
}
