// Package source loads declared records from their origin.
//
// A Source has a single capability, Load, and the registry never branches on
// where records come from. New origins are added by implementing Source.
package source

import (
	"errors"
	"fmt"

	"github.com/zjrosen/keyreg/internal/domain/record"
)

// Source errors
var (
	ErrInvalidDescriptor = errors.New("invalid source descriptor")
	ErrUnsupportedFormat = errors.New("unsupported source format")
)

// Source produces an ordered set of records.
type Source interface {
	// Load reads the origin and returns every declared record.
	// Failures are reported as *LoadError.
	Load() (*record.Set, error)
	// String names the origin for logs and error messages.
	String() string
}

// LoadError reports that a source could not be loaded or parsed.
type LoadError struct {
	Origin string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Origin, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// wrap converts err into a *LoadError for origin, leaving existing ones alone.
func wrap(origin string, err error) error {
	if err == nil {
		return nil
	}
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return &LoadError{Origin: origin, Err: err}
}

// build turns parsed entries into a set, attributing failures to origin.
func build(origin string, entries []record.Entry) (*record.Set, error) {
	set, err := record.NewSet(entries)
	if err != nil {
		return nil, wrap(origin, err)
	}
	return set, nil
}
