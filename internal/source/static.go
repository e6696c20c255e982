package source

import (
	"sort"

	"github.com/zjrosen/keyreg/internal/domain/record"
)

// Static serves a literal, in-memory list of entries.
type Static struct {
	entries []record.Entry
}

// NewStatic returns a source over entries, in the given order.
func NewStatic(entries ...record.Entry) *Static {
	cp := make([]record.Entry, len(entries))
	for i, e := range entries {
		cp[i] = record.Entry{Key: e.Key, Record: e.Record.Clone()}
	}
	return &Static{entries: cp}
}

// FromMap returns a source over m. Go maps carry no declaration order, so
// entries are ordered by key.
func FromMap(m map[string]record.Record) *Static {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]record.Entry, len(keys))
	for i, k := range keys {
		entries[i] = record.Entry{Key: k, Record: m[k]}
	}
	return NewStatic(entries...)
}

// Load returns the stored entries as a set.
func (s *Static) Load() (*record.Set, error) {
	return build(s.String(), s.entries)
}

func (s *Static) String() string {
	return "static"
}
