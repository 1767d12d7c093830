package valueobject

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	tr, err := ParseMonth("2025-01")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), tr.Start())
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), tr.End())
	assert.Equal(t, "January 2025", tr.MonthLabel())
	assert.Equal(t, "2025-01", tr.MonthKey())
}

func TestParseMonth_December(t *testing.T) {
	tr, err := ParseMonth("2024-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), tr.End())
}

func TestParseMonth_Invalid(t *testing.T) {
	for _, key := range []string{"", "2025", "2025-13", "January"} {
		_, err := ParseMonth(key)
		assert.Error(t, err, key)
	}
}

func TestTimeRange_ContainsIsHalfOpen(t *testing.T) {
	tr, err := ParseMonth("2025-03")
	require.NoError(t, err)

	assert.True(t, tr.Contains(tr.Start()))
	assert.True(t, tr.Contains(tr.End().Add(-time.Nanosecond)))
	assert.False(t, tr.Contains(tr.End()))
	assert.False(t, tr.Contains(tr.Start().Add(-time.Second)))
}

func TestDayOf_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	now := time.Date(2025, 1, 15, 1, 30, 0, 0, loc)

	day := DayOf(now)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, loc), day.Start())
	assert.Equal(t, 24*time.Hour, day.Duration())
}

func TestNewTimeRange_Validation(t *testing.T) {
	now := time.Now()

	_, err := NewTimeRange(now, now)
	assert.Error(t, err)

	_, err = NewTimeRange(time.Time{}, now)
	assert.Error(t, err)

	tr, err := NewTimeRange(now.Add(-time.Hour), now)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, tr.Duration())
}
