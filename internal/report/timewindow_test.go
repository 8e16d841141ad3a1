package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrah006/workflow-backend-sub000/internal/model"
)

func TestParseProductionWindow(t *testing.T) {
	for _, s := range []string{"today", "thisWeek", "thisMonth"} {
		key, err := ParseProductionWindow(s)
		require.NoError(t, err)
		assert.Equal(t, WindowKey(s), key)
	}
	for _, s := range []string{"thisYear", "yesterday", "", "TODAY"} {
		_, err := ParseProductionWindow(s)
		assert.ErrorIs(t, err, model.ErrInvalidInput, "input %q", s)
	}
}

func TestParseProjectWindow(t *testing.T) {
	for _, s := range []string{"thisWeek", "thisMonth", "thisYear"} {
		key, err := ParseProjectWindow(s)
		require.NoError(t, err)
		assert.Equal(t, WindowKey(s), key)
	}
	// today is valid for the production report but not here.
	_, err := ParseProjectWindow("today")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestRangeToday(t *testing.T) {
	now := time.Date(2025, time.March, 12, 15, 30, 45, 0, time.UTC)
	w := Range(WindowToday, now)
	assert.Equal(t, time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, time.March, 12, 23, 59, 59, int(999*time.Millisecond), time.UTC), w.End)
}

func TestRangeThisWeekStartsMonday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"wednesday",
			time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday is its own week start",
			time.Date(2025, time.March, 10, 0, 30, 0, 0, time.UTC),
			time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the preceding monday",
			time.Date(2025, time.March, 16, 23, 0, 0, 0, time.UTC),
			time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Range(WindowThisWeek, tt.now)
			assert.Equal(t, tt.want, w.Start)
			// The week window runs through the end of now's day.
			assert.Equal(t, tt.now.Day(), w.End.Day())
			assert.Equal(t, 23, w.End.Hour())
		})
	}
}

func TestRangeThisMonth(t *testing.T) {
	// February in a non-leap year.
	now := time.Date(2025, time.February, 14, 12, 0, 0, 0, time.UTC)
	w := Range(WindowThisMonth, now)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, 28, w.End.Day())
	assert.Equal(t, 23, w.End.Hour())

	// Leap year February.
	w = Range(WindowThisMonth, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 29, w.End.Day())
}

func TestRangeThisYear(t *testing.T) {
	now := time.Date(2025, time.July, 4, 9, 0, 0, 0, time.UTC)
	w := Range(WindowThisYear, now)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.December, w.End.Month())
	assert.Equal(t, 31, w.End.Day())
}

func TestWindowContains(t *testing.T) {
	now := time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC)
	w := Range(WindowToday, now)
	assert.True(t, w.Contains(now))
	assert.True(t, w.Contains(w.Start))
	assert.True(t, w.Contains(w.End))
	assert.False(t, w.Contains(w.Start.Add(-time.Millisecond)))
	assert.False(t, w.Contains(w.End.Add(time.Millisecond)))
}
