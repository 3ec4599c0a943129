package rawdata

import (
	"strconv"
	"strings"
)

// Record is one externally sourced statistical entity: a match, a
// team-season summary, a player row. Keys and nesting vary per provider,
// so callers resolve fields through ordered candidate paths instead of
// reaching into the map directly. A Record is never mutated here.
type Record map[string]any

// Lookup walks a dotted path ("homeTeam.id") through nested maps.
// The second return is false when any segment is absent or nil.
func Lookup(rec Record, path string) (any, bool) {
	if rec == nil || path == "" {
		return nil, false
	}

	var current any = map[string]any(rec)
	for _, segment := range strings.Split(path, ".") {
		node, ok := asMap(current)
		if !ok {
			return nil, false
		}
		value, exists := node[segment]
		if !exists || value == nil {
			return nil, false
		}
		current = value
	}

	return current, true
}

// First returns the value of the first candidate path that resolves to a
// present, non-nil value. Paths are tried strictly left to right.
func First(rec Record, paths ...string) (any, bool) {
	for _, path := range paths {
		if value, ok := Lookup(rec, path); ok {
			return value, true
		}
	}
	return nil, false
}

// FirstNumber resolves the first candidate path holding a numeric value.
// Candidates that resolve to non-numeric values are skipped, so a string
// placeholder in an early candidate does not shadow a real number later.
func FirstNumber(rec Record, paths ...string) (float64, bool) {
	for _, path := range paths {
		value, ok := Lookup(rec, path)
		if !ok {
			continue
		}
		if n, numeric := Number(value); numeric {
			return n, true
		}
	}
	return 0, false
}

// FirstString resolves the first candidate path holding a non-empty string
// or stringable scalar.
func FirstString(rec Record, paths ...string) (string, bool) {
	for _, path := range paths {
		value, ok := Lookup(rec, path)
		if !ok {
			continue
		}
		if s, stringy := String(value); stringy {
			return s, true
		}
	}
	return "", false
}

// Number coerces the scalar shapes JSON decoders produce into a float64.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// String coerces string and numeric scalars into a trimmed, non-empty string.
func String(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return "", false
		}
		return trimmed, true
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10), true
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

func asMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case Record:
		return map[string]any(v), true
	default:
		return nil, false
	}
}
