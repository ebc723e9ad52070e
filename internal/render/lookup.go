package render

import (
	"encoding/json"
	"math"
)

// Lookup walks nested JSON objects by key. A missing key, or a hop through
// something that is not an object, reports false.
func Lookup(doc any, path ...string) (any, bool) {
	cur := doc
	for _, k := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Float returns the number at path.
func Float(doc any, path ...string) (float64, bool) {
	v, ok := Lookup(doc, path...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	}
	return 0, false
}

// Int returns the integral number at path. Numbers with a fractional part are
// treated as absent.
func Int(doc any, path ...string) (int64, bool) {
	v, ok := Lookup(doc, path...)
	if !ok {
		return 0, false
	}
	var f float64
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case float64:
		f = n
	default:
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// Len returns the element count of the array at path.
func Len(doc any, path ...string) (int, bool) {
	v, ok := Lookup(doc, path...)
	if !ok {
		return 0, false
	}
	arr, ok := v.([]any)
	if !ok {
		return 0, false
	}
	return len(arr), true
}

// String returns the string at path.
func String(doc any, path ...string) (string, bool) {
	v, ok := Lookup(doc, path...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IsObject reports whether path holds a JSON object.
func IsObject(doc any, path ...string) bool {
	v, ok := Lookup(doc, path...)
	if !ok {
		return false
	}
	_, ok = v.(map[string]any)
	return ok
}
