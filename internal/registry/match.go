package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/google/go-cmp/cmp"
)

// exactNumbers compares JSON numbers by value without going through float64,
// so 401 equals 401.0 but 9007199254740993 differs from 9007199254740992.
var exactNumbers = cmp.Comparer(func(a, b json.Number) bool {
	ra, okA := new(big.Rat).SetString(string(a))
	rb, okB := new(big.Rat).SetString(string(b))
	if !okA || !okB {
		return a == b
	}
	return ra.Cmp(rb) == 0
})

// Match reports whether value equals the output record registered under key.
//
// Both sides are compared as JSON data, so a record loaded from YAML matches
// the same record decoded from an HTTP response body (401 equals 401.0, a
// record.Record equals a map[string]any). A []byte or json.RawMessage value
// is parsed as a JSON document. An undeclared key yields ErrUnknownKey.
func (r *Registry) Match(key string, value any) (bool, error) {
	want, got, err := r.comparable(key, value)
	if err != nil {
		return false, err
	}
	return cmp.Equal(want, got, exactNumbers), nil
}

// Diff explains how value differs from the output record registered under
// key, in go-cmp's (-want +got) notation. It returns "" when they match.
func (r *Registry) Diff(key string, value any) (string, error) {
	want, got, err := r.comparable(key, value)
	if err != nil {
		return "", err
	}
	return cmp.Diff(want, got, exactNumbers), nil
}

func (r *Registry) comparable(key string, value any) (want, got any, err error) {
	registered, err := r.Lookup(key)
	if err != nil {
		return nil, nil, err
	}
	if want, err = canonical(registered); err != nil {
		return nil, nil, fmt.Errorf("registered record %s: %w", key, err)
	}
	if got, err = canonical(value); err != nil {
		return nil, nil, fmt.Errorf("compared value: %w", err)
	}
	return want, got, nil
}

// canonical round-trips v through JSON so numeric and map types line up.
// Numbers stay json.Number to keep their full precision.
func canonical(v any) (any, error) {
	var data []byte
	switch val := v.(type) {
	case json.RawMessage:
		data = val
	case []byte:
		data = val
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		data = encoded
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return out, nil
}
