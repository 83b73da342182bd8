package timeutil

import "time"

// Layouts TheSportsDB uses for event fields.
const (
	DateLayout      = "2006-01-02"          // dateEvent
	TimeLayout      = "15:04:05"            // strTime
	TimestampLayout = "2006-01-02T15:04:05" // strTimestamp, always UTC
)

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatTime formats the clock part of t as HH:MM:SS.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// FormatTimestamp formats t in UTC without a zone suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// StartOfDayUTC truncates t to midnight UTC of its UTC day.
func StartOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
