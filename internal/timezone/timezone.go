// Package timezone resolves the zone the CLI reads and prints calendar dates
// in. Slot derivation itself always works on UTC dates.
package timezone

import (
	"fmt"
	"time"
)

const Default = "UTC"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to UTC for empty or unknown names.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Today is the current calendar date in tz as "2006-01-02".
func Today(tz string) string {
	return NowIn(tz).Format("2006-01-02")
}

// ParseDateTime accepts an RFC3339 instant, or "2006-01-02 15:04" read as a
// wall clock in tz. The result is in UTC.
func ParseDateTime(tz, s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, Location(tz))
	if err != nil {
		return time.Time{}, fmt.Errorf("want RFC3339 or \"YYYY-MM-DD HH:mm\": %w", err)
	}
	return t.UTC(), nil
}
