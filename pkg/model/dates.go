package model

import "time"

// DateOf truncates t to midnight UTC. All calendar dates in the system
// (effective dates, blocked ranges, slot queries) are stored this way so
// that date comparisons are exact.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MinutesOf returns the wall-clock minutes since midnight of t in UTC.
func MinutesOf(t time.Time) int {
	t = t.UTC()
	return t.Hour()*60 + t.Minute()
}

// AtMinutes places a minutes-since-midnight value on the given date.
func AtMinutes(date time.Time, minutes int) time.Time {
	return DateOf(date).Add(time.Duration(minutes) * time.Minute)
}
