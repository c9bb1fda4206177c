package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "day exists in next month",
			start:    time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2026, 2, 15, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 clamps to feb 28",
			start:    time.Date(2026, 1, 31, 9, 30, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2026, 2, 28, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "jan 31 clamps to feb 29 in leap year",
			start:    time.Date(2028, 1, 31, 0, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "mar 31 clamps to apr 30",
			start:    time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC),
			months:   1,
			expected: time.Date(2026, 4, 30, 23, 59, 59, 0, time.UTC),
		},
		{
			name:     "december rolls into next year",
			start:    time.Date(2026, 12, 31, 8, 0, 0, 0, time.UTC),
			months:   1,
			expected: time.Date(2027, 1, 31, 8, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AddMonthsClamped(tt.start, tt.months)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2026, time.January))
	assert.Equal(t, 28, DaysInMonth(2026, time.February))
	assert.Equal(t, 29, DaysInMonth(2028, time.February))
	assert.Equal(t, 30, DaysInMonth(2026, time.November))
}

func TestIsDue(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, IsDue(now, now))
	assert.True(t, IsDue(now.Add(-time.Minute), now))
	assert.False(t, IsDue(now.Add(time.Second), now))
}

func TestGenerateOrderNumber(t *testing.T) {
	id := uuid.MustParse("1a2b3c4d-0000-4000-8000-000000000000")
	at := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "AUTO-2026-1A2B3C4D", GenerateOrderNumber("AUTO", id, at))
}
