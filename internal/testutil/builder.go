package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/keyreg/internal/domain/record"
	"github.com/zjrosen/keyreg/internal/registry"
	"github.com/zjrosen/keyreg/internal/source"
	"github.com/zjrosen/keyreg/internal/transform"
)

// Builder accumulates entries and options for a test registry.
type Builder struct {
	t         testing.TB
	name      string
	entries   []record.Entry
	transform transform.Func
	opts      []registry.Option
}

// NewBuilder creates a builder for a registry named "test".
func NewBuilder(t testing.TB) *Builder {
	t.Helper()
	return &Builder{t: t, name: "test"}
}

// Named sets the registry name.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	return b
}

// WithEntry adds a record built from alternating field names and values.
func (b *Builder) WithEntry(key string, fields ...any) *Builder {
	b.t.Helper()
	require.True(b.t, len(fields)%2 == 0, "WithEntry(%s): odd field count", key)
	rec := make(record.Record, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		name, ok := fields[i].(string)
		require.True(b.t, ok, "WithEntry(%s): field %d is not a string", key, i)
		rec[name] = fields[i+1]
	}
	b.entries = append(b.entries, record.Entry{Key: key, Record: rec})
	return b
}

// WithTransform sets the output transform.
func (b *Builder) WithTransform(fn transform.Func) *Builder {
	b.transform = fn
	return b
}

// WithOptions adds registry options such as registry.WithOutputCache.
func (b *Builder) WithOptions(opts ...registry.Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Build creates the registry. It is closed when the test ends.
func (b *Builder) Build() *registry.Registry {
	b.t.Helper()
	reg, err := registry.New(registry.Config{
		Name:      b.name,
		Source:    source.NewStatic(b.entries...),
		Transform: b.transform,
	}, b.opts...)
	require.NoError(b.t, err)
	b.t.Cleanup(reg.Close)
	return reg
}

// Errors returns a builder preloaded with a small set of API error records.
func Errors(t testing.TB) *Builder {
	t.Helper()
	return NewBuilder(t).Named("errors").
		WithEntry("not_authorized", "status", 401, "message", "You're not authorized", "explanation", "Log in and try again.").
		WithEntry("not_found", "status", 404, "message", "Not found").
		WithEntry("bad_request", "status", 400, "message", "Bad request")
}
