package utils

import (
	"strings"
	"time"
)

// friendlyLayouts are the non-RFC3339 forms accepted from users,
// interpreted in the caller's local zone.
var friendlyLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// NormalizeDateTimeInput converts friendly date/time input into RFC3339.
//
// RFC3339 input is returned trimmed and otherwise untouched. "YYYY-MM-DD HH:MM",
// "YYYY-MM-DD HH:MM:SS" and "YYYY-MM-DD" (midnight) are read in loc. Anything
// else is returned trimmed so the caller's RFC3339 validation reports it.
func NormalizeDateTimeInput(input string, loc *time.Location) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}
	// RFC 3339 allows lowercase "t" and "z".
	upper := strings.ToUpper(trimmed)
	if _, err := time.Parse(time.RFC3339, upper); err == nil {
		return trimmed
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range friendlyLayouts {
		if t, err := time.ParseInLocation(layout, upper, loc); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return trimmed
}
