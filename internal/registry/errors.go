package registry

import (
	"errors"
	"fmt"
)

// Registry errors
var (
	ErrUnknownKey = errors.New("unknown key")
	ErrNilSource  = errors.New("registry source cannot be nil")
)

// UnknownKeyError reports a lookup of a key the source did not declare.
type UnknownKeyError struct {
	Registry string
	Key      string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("registry %s: %s %q", e.Registry, ErrUnknownKey, e.Key)
}

// Is makes errors.Is(err, ErrUnknownKey) match.
func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownKey
}
