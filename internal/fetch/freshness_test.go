package fetch

import (
	"testing"
	"time"
)

func TestIsFreshAt(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		lastUpdated time.Time
		hours       int
		expected    bool
	}{
		{
			name:        "zero timestamp is never fresh",
			lastUpdated: time.Time{},
			hours:       12,
			expected:    false,
		},
		{
			name:        "one millisecond old",
			lastUpdated: now.Add(-time.Millisecond),
			hours:       12,
			expected:    true,
		},
		{
			name:        "just inside the window",
			lastUpdated: now.Add(-12*time.Hour + time.Millisecond),
			hours:       12,
			expected:    true,
		},
		{
			name:        "exactly at the window boundary",
			lastUpdated: now.Add(-12 * time.Hour),
			hours:       12,
			expected:    false,
		},
		{
			name:        "just past the window",
			lastUpdated: now.Add(-12*time.Hour - time.Millisecond),
			hours:       12,
			expected:    false,
		},
		{
			name:        "shorter custom window",
			lastUpdated: now.Add(-90 * time.Minute),
			hours:       1,
			expected:    false,
		},
		{
			name:        "longer custom window",
			lastUpdated: now.Add(-90 * time.Minute),
			hours:       2,
			expected:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFreshAt(now, tt.lastUpdated, tt.hours); got != tt.expected {
				t.Errorf("isFreshAt(%v, %v, %d) = %v, want %v", now, tt.lastUpdated, tt.hours, got, tt.expected)
			}
		})
	}
}

func TestIsFresh_UsesWallClock(t *testing.T) {
	if !IsFresh(time.Now().Add(-time.Minute), 12) {
		t.Error("IsFresh() = false for a minute-old record with a 12h window")
	}
	if IsFresh(time.Time{}, 12) {
		t.Error("IsFresh() = true for a zero timestamp")
	}
}
