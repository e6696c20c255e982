// Package testutil provides helpers for tests that check values against a
// registry.
package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/keyreg/internal/domain/record"
	"github.com/zjrosen/keyreg/internal/registry"
	"github.com/zjrosen/keyreg/internal/source"
	"github.com/zjrosen/keyreg/internal/transform"
)

// RequireRecord fails the test unless got matches the output record
// registered under key. got may be a map, a struct, or a JSON body.
func RequireRecord(t testing.TB, reg *registry.Registry, key string, got any) {
	t.Helper()
	diff, err := reg.Diff(key, got)
	require.NoError(t, err)
	if diff != "" {
		require.FailNow(t, fmt.Sprintf("%s/%s mismatch (-registered +got):\n%s", reg.Name(), key, diff))
	}
}

// NewRegistry builds a registry named "test" over a static source.
// The registry is closed when the test ends.
func NewRegistry(t testing.TB, fn transform.Func, entries ...record.Entry) *registry.Registry {
	t.Helper()
	reg, err := registry.New(registry.Config{
		Name:      "test",
		Source:    source.NewStatic(entries...),
		Transform: fn,
	})
	require.NoError(t, err)
	t.Cleanup(reg.Close)
	return reg
}

// Entries builds entries from alternating keys and records:
//
//	Entries("not_found", record.Record{"message": "Not found"}, "gone", map[string]any{...})
//
// It panics on an odd argument count or a value of the wrong type.
func Entries(kv ...any) []record.Entry {
	if len(kv)%2 != 0 {
		panic("testutil.Entries: odd argument count")
	}
	entries := make([]record.Entry, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("testutil.Entries: argument %d is %T, want string", i, kv[i]))
		}
		var rec record.Record
		switch v := kv[i+1].(type) {
		case record.Record:
			rec = v
		case map[string]any:
			rec = v
		default:
			panic(fmt.Sprintf("testutil.Entries: argument %d is %T, want a record", i+1, kv[i+1]))
		}
		entries = append(entries, record.Entry{Key: key, Record: rec})
	}
	return entries
}
