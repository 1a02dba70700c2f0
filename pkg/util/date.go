package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// YearStart returns January 1st 00:00 of t's year in t's location.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// YearStartWindow returns the range used to look up the first trading day of
// t's year. Markets are closed on January 1st, so the window spans two weeks.
func YearStartWindow(t time.Time) (time.Time, time.Time) {
	from := YearStart(t)
	return from, from.AddDate(0, 0, 14)
}

// FormatStamp formats t the way portfolio exports record refresh times.
func FormatStamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
