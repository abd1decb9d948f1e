package core

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the wire and display layout of due dates.
const DateLayout = "2006-01-02"

// Clock returns the current time. Production code wires time.Now; tests
// pass a fixed instant.
type Clock func() time.Time

// SystemClock is the wall clock.
var SystemClock Clock = time.Now

// civilDate returns midnight UTC of t's calendar date in t's own location.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseDate parses a YYYY-MM-DD string as a calendar date.
func parseDate(date string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DaysUntil returns the number of calendar days from now's date to date.
// Negative values are in the past. ok is false if date is not YYYY-MM-DD.
func DaysUntil(date string, now time.Time) (days int, ok bool) {
	due, ok := parseDate(date)
	if !ok {
		return 0, false
	}
	// Both operands are UTC midnights, so the difference is an exact
	// multiple of 24h.
	return int(due.Sub(civilDate(now)).Hours() / 24), true
}

// IsOverdue reports whether date is strictly before now's calendar date.
// Unparseable dates are never overdue.
func IsOverdue(date string, now time.Time) bool {
	days, ok := DaysUntil(date, now)
	return ok && days < 0
}

// FormatDate renders date relative to now: Today, Tomorrow, Yesterday,
// "N days overdue", or a short month-day form for dates further ahead.
// Unparseable input is returned unchanged.
func FormatDate(date string, now time.Time) string {
	days, ok := DaysUntil(date, now)
	if !ok {
		return date
	}
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days < -1:
		return fmt.Sprintf("%d days overdue", -days)
	}
	due, _ := parseDate(date)
	if due.Year() != now.Year() {
		return due.Format("Jan 2, 2006")
	}
	return due.Format("Jan 2")
}

// ErrInvalidDuration is returned by ParseSince for malformed input.
var ErrInvalidDuration = errors.New("invalid duration")

// ParseSince parses a duration like "7d" or "24h" and returns that far
// before now.
func ParseSince(s string, now time.Time) (time.Time, error) {
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDuration, s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", ErrInvalidDuration, s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("%w %q: unsupported suffix %q (use d or h)", ErrInvalidDuration, s, string(suffix))
	}
}
