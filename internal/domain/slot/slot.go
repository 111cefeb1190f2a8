// Package slot derives the theoretical bookable slots of a doctor from the
// weekly working-hour windows and the slot duration. Booked slots are not
// excluded here; the backend owns that view.
package slot

import (
	"errors"
	"iter"
	"strconv"
	"time"

	"github.com/BruksfildServices01/hms-gateway/internal/models"
)

// DefaultHorizonDays bounds NextAfter's search.
const DefaultHorizonDays = 7

var ErrInvalidClock = errors.New("invalid clock time")

// ParseClock converts "HH:mm" (or "HH:mm:ss", seconds ignored) into minutes
// since midnight.
func ParseClock(hm string) (int, error) {
	if len(hm) != 5 && len(hm) != 8 {
		return 0, ErrInvalidClock
	}
	if hm[2] != ':' || (len(hm) == 8 && hm[5] != ':') {
		return 0, ErrInvalidClock
	}

	h, err := twoDigits(hm[0:2])
	if err != nil || h > 23 {
		return 0, ErrInvalidClock
	}
	m, err := twoDigits(hm[3:5])
	if err != nil || m > 59 {
		return 0, ErrInvalidClock
	}
	if len(hm) == 8 {
		if s, err := twoDigits(hm[6:8]); err != nil || s > 59 {
			return 0, ErrInvalidClock
		}
	}
	return h*60 + m, nil
}

func twoDigits(s string) (int, error) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, ErrInvalidClock
	}
	return strconv.Atoi(s)
}

// Bounds returns the window's minute offsets. ok is false when either clock
// fails to parse or the window is empty or inverted.
func Bounds(w models.WorkingHour) (start, end int, ok bool) {
	start, err := ParseClock(w.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end, err = ParseClock(w.EndTime)
	if err != nil {
		return 0, 0, false
	}
	if end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// WindowCount is floor((end-start)/duration), or 0 for malformed windows.
func WindowCount(w models.WorkingHour, duration int) int {
	if duration <= 0 {
		return 0
	}
	start, end, ok := Bounds(w)
	if !ok {
		return 0
	}
	return (end - start) / duration
}

// Windows keeps the windows that apply to the date's weekday, preserving
// declaration order.
func Windows(date time.Time, hours []models.WorkingHour) []models.WorkingHour {
	day := models.DayOf(midnight(date).Weekday())
	var out []models.WorkingHour
	for _, w := range hours {
		if w.Day == day {
			out = append(out, w)
		}
	}
	return out
}

// ForDate yields the slot starts for the calendar date of date, as UTC
// instants. Windows are walked in declaration order and each contributes
// WindowCount consecutive starts. The sequence can be ranged over repeatedly.
func ForDate(date time.Time, duration int, hours []models.WorkingHour) iter.Seq[time.Time] {
	day := midnight(date)
	windows := Windows(day, hours)
	step := time.Duration(duration) * time.Minute

	return func(yield func(time.Time) bool) {
		for _, w := range windows {
			n := WindowCount(w, duration)
			if n == 0 {
				continue
			}
			start, _, _ := Bounds(w)
			cur := day.Add(time.Duration(start) * time.Minute)
			for i := 0; i < n; i++ {
				if !yield(cur) {
					return
				}
				cur = cur.Add(step)
			}
		}
	}
}

// Count is the number of slots ForDate would yield.
func Count(date time.Time, duration int, hours []models.WorkingHour) int {
	total := 0
	for _, w := range Windows(date, hours) {
		total += WindowCount(w, duration)
	}
	return total
}

// NextAfter finds the first theoretical slot starting at or after after,
// looking at most horizonDays calendar days ahead (DefaultHorizonDays when
// horizonDays <= 0).
func NextAfter(after time.Time, duration int, hours []models.WorkingHour, horizonDays int) (time.Time, bool) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	after = after.UTC()
	day := midnight(after)
	for i := 0; i < horizonDays; i++ {
		var best time.Time
		for s := range ForDate(day.AddDate(0, 0, i), duration, hours) {
			if s.Before(after) {
				continue
			}
			// windows are not ordered across each other
			if best.IsZero() || s.Before(best) {
				best = s
			}
		}
		if !best.IsZero() {
			return best, true
		}
	}
	return time.Time{}, false
}

// midnight keeps only the calendar fields of t and anchors them at 00:00 UTC.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate reads a "2006-01-02" calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
