package dateutil

import (
	"fmt"
	"time"
)

// DayKeyFormat is the normalized day-key layout used across the system.
const DayKeyFormat = "2006-01-02"

// Normalize - truncates a timestamp to midnight UTC so calendar days compare
// and store consistently regardless of the caller's clock
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey - formats a date as its normalized day-key
func DayKey(t time.Time) string {
	return t.Format(DayKeyFormat)
}

// ParseDay - parses a day-key back into a normalized date
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayKeyFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Normalize(t), nil
}

// DaysBetween - enumerates every calendar day between start and end inclusive
func DaysBetween(start, end time.Time) ([]time.Time, error) {
	start = Normalize(start)
	end = Normalize(end)
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", DayKey(end), DayKey(start))
	}

	days := []time.Time{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days, nil
}

// IsWeekend - checks whether the date falls on Saturday or Sunday
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWeekday - checks whether the date falls on Monday through Friday
func IsWeekday(t time.Time) bool {
	return !IsWeekend(t)
}
