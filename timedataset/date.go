package timedataset

import (
	"time"
)

const (
	SecondsPerDay = 86400

	// LeapYearDays is the length of the calendar used to index day-of-year so every
	// month/day pair, including Feb 29, has a fixed position.
	LeapYearDays = 366
)

// CalendarDate discards the time of day and any zone offset from t, keeping the wall clock
// date as seen in t's own location. The result is midnight UTC of that date.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsCalendarDate reports whether t is already normalized by CalendarDate
func IsCalendarDate(t time.Time) bool {
	return t.Location() == time.UTC && t.Equal(CalendarDate(t))
}

// EpochDays returns the number of whole days between the unix epoch and the calendar date of t
func EpochDays(t time.Time) float64 {
	return float64(CalendarDate(t).Unix() / SecondsPerDay)
}

// DaysBetween returns the number of calendar days from start to end. Negative if end is before
// start.
func DaysBetween(start, end time.Time) int {
	return int((CalendarDate(end).Unix() - CalendarDate(start).Unix()) / SecondsPerDay)
}

// AddDays returns the calendar date n days after t
func AddDays(t time.Time, n int) time.Time {
	c := CalendarDate(t)
	return time.Date(c.Year(), c.Month(), c.Day()+n, 0, 0, 0, 0, time.UTC)
}

// DayOfWeek returns the ISO day of week index where Monday is 0 and Sunday is 6
func DayOfWeek(t time.Time) int {
	return (int(CalendarDate(t).Weekday()) + 6) % 7
}

// LeapOrdinal returns the 1-based position of t's month and day on a leap year calendar. March 1st
// is always 61 regardless of whether t's year is a leap year.
func LeapOrdinal(t time.Time) int {
	c := CalendarDate(t)
	return time.Date(2000, c.Month(), c.Day(), 0, 0, 0, 0, time.UTC).YearDay()
}

// LeapOrdinalDate returns a representative month and day for a leap calendar ordinal in [1, 366]
func LeapOrdinalDate(ordinal int) (time.Month, int) {
	d := time.Date(2000, time.January, ordinal, 0, 0, 0, 0, time.UTC)
	return d.Month(), d.Day()
}

// DailyRange returns every calendar date from start through end inclusive
func DailyRange(start, end time.Time) []time.Time {
	n := DaysBetween(start, end) + 1
	if n <= 0 {
		return nil
	}
	t := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		t = append(t, AddDays(start, i))
	}
	return t
}
