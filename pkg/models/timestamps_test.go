package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		in    string
		want  time.Time
		valid bool
	}{
		{"RFC3339 with zone", "2025-03-04T14:30:00+04:00", want, true},
		{"RFC3339 UTC", "2025-03-04T10:30:00Z", want, true},
		{"naive isoformat with micros", "2025-03-04T10:30:00.000000", want, true},
		{"space separated", "2025-03-04 10:30:00", want, true},
		{"date only", "2025-03-04", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not-a-date", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.True(t, tt.want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	assert.Equal(t, "2025-03-04T00:00:00Z", NormalizeTimestamp("2025-03-04"))
	assert.Equal(t, "someday", NormalizeTimestamp("someday"))
}
