package model

import (
	"fmt"
	"strconv"
)

// Value coercion for rows coming back from the generic query helpers. The
// sqlite driver hands back int64, float64, string, []byte or nil depending on
// the stored column affinity.

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func asStringPtr(v any) *string {
	if v == nil {
		return nil
	}
	s := asString(v)
	return &s
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	case []byte:
		n, _ := strconv.ParseInt(string(t), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

func asInt64Ptr(v any) *int64 {
	if v == nil {
		return nil
	}
	n := asInt64(v)
	return &n
}

func asFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	default:
		return 0
	}
}

// AsString exposes the string coercion for other packages.
func AsString(v any) string { return asString(v) }

// AsInt64 exposes the int64 coercion for other packages.
func AsInt64(v any) int64 { return asInt64(v) }

// AsFloat64 exposes the float64 coercion for other packages.
func AsFloat64(v any) float64 { return asFloat64(v) }
