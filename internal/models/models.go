package models

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the calendar-day format used on the wire.
const DayLayout = "2006-01-02"

// Record is a loosely shaped JSON object as returned by the hotel API.
// Field names drift between endpoints, so every lookup takes an ordered
// list of candidate keys and returns the first present, non-null value.
type Record map[string]any

// First returns the first non-nil value among keys.
func (r Record) First(keys ...string) (any, bool) {
	if r == nil {
		return nil, false
	}
	for _, key := range keys {
		val, ok := r[key]
		if ok && val != nil {
			return val, true
		}
	}
	return nil, false
}

func (r Record) String(keys ...string) string {
	val, ok := r.First(keys...)
	if !ok {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Float resolves a numeric field. Numeric strings such as "2000.00" are
// accepted since decimal columns are serialized as strings.
func (r Record) Float(keys ...string) float64 {
	val, ok := r.First(keys...)
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func (r Record) Int(keys ...string) int64 {
	return int64(r.Float(keys...))
}

// Day resolves a calendar day from the first 10 characters of a date or
// timestamp string. Malformed or missing values report false.
func (r Record) Day(keys ...string) (time.Time, bool) {
	return ParseDay(r.String(keys...))
}

// ParseDay parses a YYYY-MM-DD prefix into a UTC midnight.
func ParseDay(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < len(DayLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(DayLayout, raw[:len(DayLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Records converts decoded JSON objects into records, skipping anything
// that is not an object.
func Records(raw []any) []Record {
	out := make([]Record, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}
