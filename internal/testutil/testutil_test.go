package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/keyreg/internal/domain/record"
	"github.com/zjrosen/keyreg/internal/registry"
	"github.com/zjrosen/keyreg/internal/transform"
)

// recordingTB captures failures instead of stopping the test.
type recordingTB struct {
	testing.TB
	failed bool
	msgs   []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Errorf(format string, args ...any) {
	r.failed = true
	r.msgs = append(r.msgs, fmt.Sprintf(format, args...))
}

func (r *recordingTB) FailNow() {
	r.failed = true
}

func TestRequireRecord_Match(t *testing.T) {
	reg := Errors(t).WithTransform(transform.Strip("status")).Build()

	RequireRecord(t, reg, "not_found", map[string]any{"message": "Not found"})
	RequireRecord(t, reg, "not_found", []byte(`{"message": "Not found"}`))
}

func TestRequireRecord_Mismatch(t *testing.T) {
	reg := Errors(t).WithTransform(transform.Strip("status")).Build()
	rec := &recordingTB{TB: t}

	RequireRecord(rec, reg, "not_found", map[string]any{"message": "Missing"})

	require.True(t, rec.failed)
	joined := strings.Join(rec.msgs, "\n")
	require.Contains(t, joined, "errors/not_found mismatch")
	require.Contains(t, joined, "Missing")
}

func TestRequireRecord_UnknownKey(t *testing.T) {
	reg := Errors(t).Build()
	rec := &recordingTB{TB: t}

	RequireRecord(rec, reg, "nonexistent", map[string]any{})

	require.True(t, rec.failed)
	require.Contains(t, strings.Join(rec.msgs, "\n"), "unknown key")
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry(t, nil, Entries(
		"b", record.Record{"message": "B"},
		"a", map[string]any{"message": "A"},
	)...)

	require.Equal(t, "test", reg.Name())
	require.Equal(t, []string{"b", "a"}, reg.Keys())
}

func TestEntries_Panics(t *testing.T) {
	require.Panics(t, func() { Entries("a") })
	require.Panics(t, func() { Entries(1, record.Record{}) })
	require.Panics(t, func() { Entries("a", "not a record") })
}

func TestBuilder_Options(t *testing.T) {
	calls := 0
	reg := NewBuilder(t).
		WithEntry("a", "message", "A").
		WithTransform(func(r record.Record) (record.Record, error) {
			calls++
			return r, nil
		}).
		WithOptions(registry.WithOutputCache(0)).
		Build()

	for i := 0; i < 3; i++ {
		_, err := reg.Lookup("a")
		require.NoError(t, err)
	}
	require.Equal(t, 1, calls)
}
