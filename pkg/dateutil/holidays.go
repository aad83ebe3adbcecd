package dateutil

import "time"

// fixedHoliday is a holiday that lands on the same month/day every year.
type fixedHoliday struct {
	Month time.Month
	Day   int
	Name  string
}

// floatingHoliday is an "nth weekday of month" rule. N of -1 means the last
// occurrence of the weekday in the month.
type floatingHoliday struct {
	Month   time.Month
	Weekday time.Weekday
	N       int
	Name    string
}

var fixedHolidays = []fixedHoliday{
	{time.January, 1, "New Year's Day"},
	{time.July, 4, "Independence Day"},
	{time.December, 25, "Christmas Day"},
}

var floatingHolidays = []floatingHoliday{
	{time.May, time.Monday, -1, "Memorial Day"},
	{time.September, time.Monday, 1, "Labor Day"},
	{time.November, time.Thursday, 4, "Thanksgiving Day"},
}

// IsHoliday - checks whether the date is a recognized public holiday
func IsHoliday(t time.Time) bool {
	return HolidayName(t) != ""
}

// HolidayName - returns the holiday name for the date, or "" if it is none
func HolidayName(t time.Time) string {
	for _, h := range fixedHolidays {
		if t.Month() == h.Month && t.Day() == h.Day {
			return h.Name
		}
	}
	for _, h := range floatingHolidays {
		if t.Month() != h.Month {
			continue
		}
		if nthWeekday(t.Year(), h.Month, h.Weekday, h.N).Day() == t.Day() {
			return h.Name
		}
	}
	return ""
}

// nthWeekday - resolves "nth weekday of month" rules; n == -1 means last
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	if n == -1 {
		// Walk backwards from the last day of the month
		d := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
		for d.Weekday() != weekday {
			d = d.AddDate(0, 0, -1)
		}
		return d
	}

	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, (n-1)*7)
}
