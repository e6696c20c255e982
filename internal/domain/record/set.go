package record

import "fmt"

// Set is an immutable, ordered collection of records keyed by name.
// The zero value and nil are both valid empty sets.
type Set struct {
	keys  []string
	index map[string]Record
}

// NewSet builds a set from entries, keeping their order.
// Records are deep-copied so later changes by the caller are not observed.
func NewSet(entries []Entry) (*Set, error) {
	s := &Set{
		keys:  make([]string, 0, len(entries)),
		index: make(map[string]Record, len(entries)),
	}
	for i, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyKey)
		}
		if _, exists := s.index[e.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, e.Key)
		}
		rec := e.Record.Clone()
		if rec == nil {
			rec = Record{}
		}
		s.keys = append(s.keys, e.Key)
		s.index[e.Key] = rec
	}
	return s, nil
}

// Has reports whether key is present.
func (s *Set) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[key]
	return ok
}

// Get returns the stored record for key. The returned record must not be
// modified; use Clone for a private copy.
func (s *Set) Get(key string) (Record, bool) {
	if s == nil {
		return nil, false
	}
	rec, ok := s.index[key]
	return rec, ok
}

// Keys returns the keys in declaration order.
func (s *Set) Keys() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of records.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Entries returns a deep copy of every entry in declaration order.
func (s *Set) Entries() []Entry {
	if s == nil {
		return []Entry{}
	}
	out := make([]Entry, len(s.keys))
	for i, k := range s.keys {
		out[i] = Entry{Key: k, Record: s.index[k].Clone()}
	}
	return out
}
