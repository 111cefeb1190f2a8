package slot

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/hms-gateway/internal/models"
)

// 2024-01-01 is a Monday.
var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"09:30:00", 570, true},
		{"24:00", 0, false},
		{"9:30", 0, false},
		{"09-30", 0, false},
		{"ab:cd", 0, false},
		{"09:60", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestForDateFullDay(t *testing.T) {
	hours := []models.WorkingHour{{Day: models.Monday, StartTime: "09:00", EndTime: "17:00"}}

	slots := slices.Collect(ForDate(monday, 30, hours))

	require.Len(t, slots, 16)
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), slots[0])
	assert.Equal(t, time.Date(2024, 1, 1, 16, 30, 0, 0, time.UTC), slots[15])
	assert.Equal(t, 16, Count(monday, 30, hours))
}

func TestForDateSpacingAndBounds(t *testing.T) {
	durations := []int{10, 15, 25, 30, 45, 60, 90, 120}
	windows := [][2]string{{"08:00", "12:00"}, {"13:10", "17:55"}, {"00:00", "23:59"}, {"10:00", "10:45"}}

	for _, d := range durations {
		for _, w := range windows {
			hours := []models.WorkingHour{{Day: models.Monday, StartTime: w[0], EndTime: w[1]}}
			start, _ := ParseClock(w[0])
			end, _ := ParseClock(w[1])

			slots := slices.Collect(ForDate(monday, d, hours))
			assert.Len(t, slots, (end-start)/d, "duration %d window %v", d, w)

			lo := monday.Add(time.Duration(start) * time.Minute)
			hi := monday.Add(time.Duration(end) * time.Minute)
			for i, s := range slots {
				assert.False(t, s.Before(lo))
				assert.True(t, s.Before(hi))
				if i > 0 {
					assert.Equal(t, time.Duration(d)*time.Minute, s.Sub(slots[i-1]))
				}
			}
		}
	}
}

func TestWindowShorterThanDuration(t *testing.T) {
	hours := []models.WorkingHour{{Day: models.Monday, StartTime: "09:00", EndTime: "09:20"}}
	assert.Equal(t, 0, Count(monday, 30, hours))
	assert.Empty(t, slices.Collect(ForDate(monday, 30, hours)))
}

func TestMalformedWindowsContributeNothing(t *testing.T) {
	hours := []models.WorkingHour{
		{Day: models.Monday, StartTime: "17:00", EndTime: "09:00"},
		{Day: models.Monday, StartTime: "09:00", EndTime: "09:00"},
		{Day: models.Monday, StartTime: "nine", EndTime: "10:00"},
		{Day: models.Monday, StartTime: "10:00", EndTime: "11:00"},
	}

	slots := slices.Collect(ForDate(monday, 30, hours))
	assert.Equal(t, []time.Time{
		time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
	}, slots)
	assert.Equal(t, 0, WindowCount(hours[0], 30))
	assert.Equal(t, 0, WindowCount(hours[3], 0))
}

func TestWindowsConcatenateInDeclarationOrder(t *testing.T) {
	hours := []models.WorkingHour{
		{Day: models.Monday, StartTime: "14:00", EndTime: "15:00"},
		{Day: models.Tuesday, StartTime: "08:00", EndTime: "18:00"},
		{Day: models.Monday, StartTime: "09:00", EndTime: "10:00"},
	}

	slots := slices.Collect(ForDate(monday, 30, hours))
	assert.Equal(t, []time.Time{
		time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
	}, slots)
}

func TestForDateIsRestartableAndPure(t *testing.T) {
	hours := []models.WorkingHour{{Day: models.Monday, StartTime: "09:00", EndTime: "12:00"}}
	seq := ForDate(monday, 20, hours)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	third := slices.Collect(ForDate(monday, 20, hours))

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
}

func TestForDateStopsEarly(t *testing.T) {
	hours := []models.WorkingHour{{Day: models.Monday, StartTime: "09:00", EndTime: "17:00"}}
	n := 0
	for range ForDate(monday, 30, hours) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestForDateUsesCalendarDateOnly(t *testing.T) {
	hours := []models.WorkingHour{{Day: models.Monday, StartTime: "09:00", EndTime: "10:00"}}
	loc := time.FixedZone("UTC+9", 9*3600)
	// late Monday evening local time is still Monday on the calendar
	date := time.Date(2024, 1, 1, 23, 30, 0, 0, loc)

	slots := slices.Collect(ForDate(date, 30, hours))
	require.Len(t, slots, 2)
	assert.Equal(t, time.UTC, slots[0].Location())
	assert.Equal(t, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), slots[0])
}

func TestOtherWeekdayHasNoSlots(t *testing.T) {
	hours := []models.WorkingHour{{Day: models.Friday, StartTime: "09:00", EndTime: "17:00"}}
	assert.Equal(t, 0, Count(monday, 30, hours))
}

func TestNextAfter(t *testing.T) {
	hours := []models.WorkingHour{
		{Day: models.Wednesday, StartTime: "13:00", EndTime: "14:00"},
		{Day: models.Wednesday, StartTime: "09:00", EndTime: "10:00"},
	}

	next, ok := NextAfter(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), 30, hours, 0)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), next)

	next, ok = NextAfter(time.Date(2024, 1, 3, 9, 10, 0, 0, time.UTC), 30, hours, 0)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 3, 9, 30, 0, 0, time.UTC), next)

	_, ok = NextAfter(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), 30, hours, 1)
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, monday, d)

	_, err = ParseDate("01/01/2024")
	assert.Error(t, err)
}
