package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Record errors
var (
	ErrNotMapping   = errors.New("record is not a mapping")
	ErrDuplicateKey = errors.New("duplicate record key")
	ErrEmptyKey     = errors.New("record key cannot be empty")
)

// Record is a mapping from field name to value.
type Record map[string]any

// Clone returns a deep copy of the record. Nested maps and slices are copied,
// scalars are shared.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Record:
		return val.Clone()
	case map[string]any:
		return map[string]any(Record(val).Clone())
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Entry is a record together with the key it was declared under.
type Entry struct {
	Key    string
	Record Record
}

// Normalize converts a parsed value into a Record.
// Nested map[any]any values (produced by some YAML decoders) are converted to
// map[string]any, and json.Number values to int or float64. Returns
// ErrNotMapping if v is not a mapping.
func Normalize(v any) (Record, error) {
	switch val := v.(type) {
	case Record:
		return normalizeMap(val)
	case map[string]any:
		return normalizeMap(val)
	case map[any]any:
		return normalizeMap(stringKeys(val))
	case nil:
		return nil, fmt.Errorf("%w: got null", ErrNotMapping)
	default:
		return nil, fmt.Errorf("%w: got %T", ErrNotMapping, v)
	}
}

func normalizeMap(m map[string]any) (Record, error) {
	out := make(Record, len(m))
	for k, v := range m {
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		out[k] = nv
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	switch val := v.(type) {
	case Record:
		m, err := normalizeMap(val)
		return map[string]any(m), err
	case map[string]any:
		m, err := normalizeMap(val)
		return map[string]any(m), err
	case map[any]any:
		m, err := normalizeMap(stringKeys(val))
		return map[string]any(m), err
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			nv, err := normalizeValue(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = nv
		}
		return out, nil
	case json.Number:
		return numberValue(val)
	default:
		return v, nil
	}
}

// numberValue keeps integers exact: integral literals become int (int64 when
// they overflow int), anything else float64.
func numberValue(n json.Number) (any, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		if i == int64(int(i)) {
			return int(i), nil
		}
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("number %s: %w", n, err)
	}
	return f, nil
}

func stringKeys(m map[any]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch key := k.(type) {
		case string:
			out[key] = v
		case fmt.Stringer:
			out[key.String()] = v
		default:
			out[fmt.Sprint(k)] = v
		}
	}
	return out
}
