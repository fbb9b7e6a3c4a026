package recurrence

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the text form of a calendar date.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date. Both "YYYY-MM-DD" and RFC 3339 instants
// are accepted; instants are reduced to the calendar date they carry.
// The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// FormatDate renders the calendar date of t in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf returns midnight UTC of the calendar date t carries in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AfterDate reports whether the calendar date of a is strictly later than
// the calendar date of b. Time of day is ignored.
func AfterDate(a, b time.Time) bool {
	return DateOf(a).After(DateOf(b))
}

// DaysIn returns the number of days in the given month of the given year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
