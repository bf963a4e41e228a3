package biztime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOf(t *testing.T) {
	MustInit("Asia/Seoul")

	tests := []struct {
		name     string
		instant  time.Time
		expected time.Time
	}{
		{
			name:     "UTC afternoon is next business day in Seoul",
			instant:  time.Date(2025, 1, 7, 16, 0, 0, 0, time.UTC),
			expected: Date(2025, 1, 8),
		},
		{
			name:     "UTC morning stays on same day",
			instant:  time.Date(2025, 1, 7, 3, 30, 0, 0, time.UTC),
			expected: Date(2025, 1, 7),
		},
		{
			name:     "year boundary",
			instant:  time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC),
			expected: Date(2025, 1, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DateOf(tt.instant))
		})
	}
}

func TestDaysBetween(t *testing.T) {
	start := Date(2025, 2, 27)

	assert.Equal(t, 0, DaysBetween(start, start))
	assert.Equal(t, 2, DaysBetween(start, Date(2025, 3, 1)))
	assert.Equal(t, -1, DaysBetween(start, Date(2025, 2, 26)))
	assert.Equal(t, 365, DaysBetween(Date(2025, 1, 1), Date(2026, 1, 1)))
}

func TestFixedClock(t *testing.T) {
	MustInit("Asia/Seoul")
	clock := NewFixedClock(time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC))

	assert.Equal(t, Date(2025, 3, 10), Today(clock))

	clock.Advance(3)
	assert.Equal(t, Date(2025, 3, 13), Today(clock))

	clock.Set(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, Date(2025, 4, 1), Today(clock))
}

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2025-06-30")
	require.NoError(t, err)
	assert.Equal(t, Date(2025, 6, 30), d)
	assert.Equal(t, "2025-06-30", FormatDate(d))
	assert.Equal(t, "20250630", CompactDate(d))

	_, err = ParseDate("30/06/2025")
	assert.Error(t, err)
}
