package utils

import "time"

// Usage records are keyed by UTC calendar day so the daily rollover is a pure
// function of the clock, not of any client timezone.

const dateKeyLayout = "2006-01-02"

// DateKey formats t as a YYYY-MM-DD key in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateKeyLayout)
}

// SameCalendarDay reports whether the two instants fall on the same UTC day.
func SameCalendarDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}
