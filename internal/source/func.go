package source

import "github.com/zjrosen/keyreg/internal/domain/record"

// Func computes entries lazily. It is invoked on every Load, so reloading a
// registry backed by a Func re-runs the callback.
type Func func() ([]record.Entry, error)

// Load calls f.
func (f Func) Load() (*record.Set, error) {
	if f == nil {
		return nil, wrap(f.String(), ErrInvalidDescriptor)
	}
	entries, err := f()
	if err != nil {
		return nil, wrap(f.String(), err)
	}
	return build(f.String(), entries)
}

func (f Func) String() string {
	return "callback"
}
