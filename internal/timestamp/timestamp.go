// Package timestamp normalizes the several representations a stored
// timestamp may take in tenant documents written by different generations
// of the platform.
package timestamp

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrMissing is returned when no usable value is present.
	ErrMissing = errors.New("timestamp missing")
	// ErrMalformed is returned when a value is present but cannot be interpreted.
	ErrMalformed = errors.New("timestamp malformed")
)

// Epoch values at or above this are taken to be milliseconds.
const millisThreshold = 1e12

// Latest representable instant, the end of year 9999. Larger epochs would
// overflow int64 nanoseconds and are rejected.
const (
	maxEpochSeconds = 253402300799
	maxEpochMillis  = maxEpochSeconds*1000 + 999
)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse converts v into a UTC time. Accepted forms are time.Time, *time.Time,
// strings in RFC 3339 or date-only layouts, numeric epoch seconds or
// milliseconds, and document-store timestamp objects carrying seconds and
// nanoseconds.
func Parse(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, ErrMissing
	case time.Time:
		if t.IsZero() {
			return time.Time{}, ErrMissing
		}
		return t.UTC(), nil
	case *time.Time:
		if t == nil {
			return time.Time{}, ErrMissing
		}
		return Parse(*t)
	case Value:
		return Parse(t.raw)
	case *Value:
		if t == nil {
			return time.Time{}, ErrMissing
		}
		return Parse(t.raw)
	case string:
		return parseString(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, t.String())
		}
		return fromEpoch(f)
	case float64:
		return fromEpoch(t)
	case float32:
		return fromEpoch(float64(t))
	case int:
		return fromEpoch(float64(t))
	case int64:
		return fromEpoch(float64(t))
	case int32:
		return fromEpoch(float64(t))
	case uint:
		return fromEpoch(float64(t))
	case uint32:
		return fromEpoch(float64(t))
	case uint64:
		return fromEpoch(float64(t))
	case map[string]any:
		return parseObject(t)
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrMalformed, v)
	}
}

func parseString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return time.Time{}, ErrMissing
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	// Some writers stored epochs as strings.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(f)
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, s)
}

func fromEpoch(f float64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return time.Time{}, fmt.Errorf("%w: epoch %v", ErrMalformed, f)
	}
	if f == 0 {
		return time.Time{}, ErrMissing
	}
	if f >= millisThreshold {
		if f > maxEpochMillis {
			return time.Time{}, fmt.Errorf("%w: epoch %v out of range", ErrMalformed, f)
		}
		return time.UnixMilli(int64(f)).UTC(), nil
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
}

func parseObject(m map[string]any) (time.Time, error) {
	secRaw, ok := m["seconds"]
	if !ok {
		secRaw, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: object without seconds", ErrMalformed)
	}
	sec, ok := number(secRaw)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: seconds is %T", ErrMalformed, secRaw)
	}

	var nanos float64
	if n, present := m["nanoseconds"]; present {
		nanos, _ = number(n)
	} else if n, present := m["_nanoseconds"]; present {
		nanos, _ = number(n)
	}

	if sec == 0 && nanos == 0 {
		return time.Time{}, ErrMissing
	}
	if sec < 0 || sec > maxEpochSeconds || math.IsNaN(nanos) || math.Abs(nanos) >= 1e9 {
		return time.Time{}, fmt.Errorf("%w: seconds %v out of range", ErrMalformed, sec)
	}
	return time.Unix(int64(sec), int64(nanos)).UTC(), nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}
