package tweets

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Unix values below this are seconds, anything larger is milliseconds.
const epochSecondsCutoff = 10_000_000_000

// Instants outside these years cannot be stored or encoded as RFC 3339.
const (
	minYear = 1
	maxYear = 9999
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	time.RubyDate, // legacy API: "Wed Oct 10 20:19:24 +0000 2018"
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

var createdAtKeys = []string{"createdAt", "created_at", "timestamp", "date"}

// ParseTimestamp converts an ISO-8601 string, a time.Time or a Unix number
// (seconds or milliseconds, possibly as a string) into a UTC time. Results
// outside years 1-9999 are rejected.
func ParseTimestamp(v any) (time.Time, bool) {
	ts, ok := parseTimestamp(v)
	if !ok || ts.Year() < minYear || ts.Year() > maxYear {
		return time.Time{}, false
	}
	return ts, true
}

func parseTimestamp(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	case json.Number:
		return parseEpoch(t.String())
	case float64:
		return fromEpochFloat(t)
	case int64:
		return fromEpochInt(t)
	case int:
		return fromEpochInt(int64(t))
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		if ts, ok := parseEpoch(s); ok {
			return ts, true
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), true
			}
		}
	}
	return time.Time{}, false
}

func parseEpoch(s string) (time.Time, bool) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromEpochInt(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, false
	}
	return fromEpochFloat(f)
}

// epochLimit bounds raw Unix values; anything beyond is far outside the
// storable years.
const epochLimit = 1e17

func fromEpochInt(n int64) (time.Time, bool) {
	if n > epochLimit || n < -epochLimit {
		return time.Time{}, false
	}
	if n < epochSecondsCutoff {
		return time.Unix(n, 0).UTC(), true
	}
	return time.UnixMilli(n).UTC(), true
}

func fromEpochFloat(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	ms := f
	if f < epochSecondsCutoff {
		ms = f * 1000
	}
	if math.Abs(ms) > epochLimit {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(math.Round(ms))).UTC(), true
}

// resolveCreatedAt uses the first timestamp key present and falls back to now
// when it is missing or unreadable.
func resolveCreatedAt(e Entry, now time.Time) time.Time {
	for _, key := range createdAtKeys {
		v, ok := e.value(key)
		if !ok {
			continue
		}
		if ts, ok := ParseTimestamp(v); ok {
			return ts
		}
		break
	}
	return now
}
