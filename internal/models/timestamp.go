package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp is an absolute instant on the wire. It decodes RFC3339 strings as
// well as epoch seconds (with optional fraction) and always encodes as RFC3339
// in UTC. A JSON null leaves it zero.
type Timestamp struct {
	time.Time
}

func At(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// Ptr returns nil for the zero instant so optional fields can be omitted.
func (t Timestamp) Ptr() *Timestamp {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("timestamp %q: %w", s, err)
		}
		t.Time = parsed.UTC()
		return nil
	}

	parsed, err := parseEpoch(string(b))
	if err != nil {
		return fmt.Errorf("timestamp %s: %w", b, err)
	}
	t.Time = parsed
	return nil
}

// parseEpoch reads decimal epoch seconds exactly, to the nanosecond. Digits
// past the ninth fractional place are dropped. Exponent forms go through
// float64.
func parseEpoch(s string) (time.Time, error) {
	if strings.ContainsAny(s, "eE") {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, err
		}
		whole, frac := math.Modf(f)
		return time.Unix(int64(whole), int64(math.Round(frac*1e9))).UTC(), nil
	}

	whole, frac, _ := strings.Cut(s, ".")
	secs, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	var nanos int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		frac += strings.Repeat("0", 9-len(frac))
		nanos, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || nanos < 0 {
			return time.Time{}, fmt.Errorf("invalid fraction %q", frac)
		}
		if strings.HasPrefix(whole, "-") {
			nanos = -nanos
		}
	}
	return time.Unix(secs, nanos).UTC(), nil
}
