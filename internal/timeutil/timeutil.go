package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Layouts the backend has been seen emitting. The first match wins.
var serverLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseServer parses a server timestamp. Strings without a "T" separator
// ("YYYY-MM-DD HH:mm:ss(.SSS)") are treated as UTC, matching how the
// backend serializes them. Returns the zero time and false when nothing
// matches.
func ParseServer(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range serverLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayKey formats a timestamp as the calendar-day bucket key, using local
// date components rather than a UTC string slice so entries land on the
// device-local day.
func DayKey(t time.Time) string {
	y, m, d := t.Local().Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// FormatSeconds renders a duration in seconds as mm:ss, the display
// format for achieved workout times.
func FormatSeconds(total int64) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
