package models

import (
	"strings"
	"time"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts the ISO-8601 variants found in stored records.
// Values without a zone are read as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders t in the canonical stored form
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// NormalizeTimestamp rewrites a parseable value into the canonical form and
// leaves anything else untouched.
func NormalizeTimestamp(s string) string {
	if t, ok := ParseTimestamp(s); ok {
		return FormatTimestamp(t)
	}
	return s
}
