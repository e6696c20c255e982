// Package transform provides output transformers for registry records.
//
// A transformer is a pure function from a stored record to the shape callers
// receive. The registry hands every transformer a private copy, so
// transformers may modify their argument and return it.
package transform

import (
	"fmt"

	"github.com/zjrosen/keyreg/internal/domain/record"
)

// Func maps a stored record to an output record.
// It must be deterministic: the same input always yields the same output.
type Func func(record.Record) (record.Record, error)

// Identity returns its input unchanged.
func Identity(r record.Record) (record.Record, error) {
	return r, nil
}

// Strip removes fields from the record.
func Strip(fields ...string) Func {
	return func(r record.Record) (record.Record, error) {
		for _, f := range fields {
			delete(r, f)
		}
		return r, nil
	}
}

// Rename moves fields to new names. Renaming onto an existing field is an
// error, as is two fields mapping to the same name.
func Rename(mapping map[string]string) Func {
	return func(r record.Record) (record.Record, error) {
		out := make(record.Record, len(r))
		for k, v := range r {
			if _, renamed := mapping[k]; renamed {
				continue
			}
			out[k] = v
		}
		for from, to := range mapping {
			v, ok := r[from]
			if !ok {
				continue
			}
			if _, taken := out[to]; taken {
				return nil, fmt.Errorf("rename %s: field %s already present", from, to)
			}
			out[to] = v
		}
		return out, nil
	}
}

// Chain applies fns left to right, stopping at the first error.
// Nil entries are skipped.
func Chain(fns ...Func) Func {
	return func(r record.Record) (record.Record, error) {
		out := r
		for _, fn := range fns {
			if fn == nil {
				continue
			}
			var err error
			out, err = fn(out)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}

// RenameRule moves the field From to To.
type RenameRule struct {
	From string `mapstructure:"from" yaml:"from"`
	To   string `mapstructure:"to" yaml:"to"`
}

// Spec is the configuration form of a transformer.
//
// Renames are a list rather than a mapping: config loaders fold mapping keys
// to lower case, which would lose camelCase field names.
type Spec struct {
	Strip  []string     `mapstructure:"strip" yaml:"strip,omitempty"`
	Rename []RenameRule `mapstructure:"rename" yaml:"rename,omitempty"`
}

// IsZero reports whether the spec configures nothing.
func (s Spec) IsZero() bool {
	return len(s.Strip) == 0 && len(s.Rename) == 0
}

// Validate rejects empty field names and a field renamed twice.
func (s Spec) Validate() error {
	seen := make(map[string]bool, len(s.Rename))
	for i, rule := range s.Rename {
		if rule.From == "" || rule.To == "" {
			return fmt.Errorf("rename %d: from and to are required", i)
		}
		if seen[rule.From] {
			return fmt.Errorf("rename %d: field %s renamed twice", i, rule.From)
		}
		seen[rule.From] = true
	}
	return nil
}

// Build returns the transformer described by s: strip first, then rename.
// A zero spec yields Identity.
func (s Spec) Build() Func {
	if s.IsZero() {
		return Identity
	}
	var fns []Func
	if len(s.Strip) > 0 {
		fns = append(fns, Strip(s.Strip...))
	}
	if len(s.Rename) > 0 {
		mapping := make(map[string]string, len(s.Rename))
		for _, rule := range s.Rename {
			mapping[rule.From] = rule.To
		}
		fns = append(fns, Rename(mapping))
	}
	return Chain(fns...)
}
