package codec

import (
	"time"
)

// AsString returns the field as a string, "" when absent or of another type.
func AsString(data map[string]any, field string) string {
	s, _ := data[field].(string)
	return s
}

// AsMillis reads a field holding either a time or a number of milliseconds.
// Absent, unresolved or unreadable values give 0.
func AsMillis(data map[string]any, field string) int64 {
	switch v := data[field].(type) {
	case time.Time:
		return v.UnixMilli()
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

// AsTime reads a field holding either a time or a number of milliseconds.
func AsTime(data map[string]any, field string) (time.Time, bool) {
	switch v := data[field].(type) {
	case time.Time:
		return v, true
	case float64:
		return time.UnixMilli(int64(v)).UTC(), true
	case int64:
		return time.UnixMilli(v).UTC(), true
	default:
		return time.Time{}, false
	}
}

func AsStrings(data map[string]any, field string) []string {
	switch v := data[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func AsStringMap(data map[string]any, field string) map[string]string {
	switch v := data[field].(type) {
	case map[string]string:
		return v
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, item := range v {
			if s, ok := item.(string); ok {
				out[k] = s
			}
		}
		return out
	default:
		return nil
	}
}
