package services

import (
	"time"
)

// Dates travel as YYYY-MM-DD strings and are interpreted as local midnight.
const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string at local midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// FormatDate renders a time back to the wire format.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// isoWeekBounds returns the Monday and Sunday of the ISO week containing t,
// as wire-format strings. Lexicographic comparison of the strings matches
// date order.
func isoWeekBounds(t time.Time) (string, string) {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -daysSinceMonday)
	sunday := monday.AddDate(0, 0, 6)
	return FormatDate(monday), FormatDate(sunday)
}
