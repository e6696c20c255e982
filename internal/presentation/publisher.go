package presentation

import (
	"bytes"
	"fmt"

	"github.com/zjrosen/keyreg/internal/domain/record"
)

// Lister is the read side of a registry the publisher needs.
type Lister interface {
	Name() string
	ListAll() (record.Listing, error)
}

// Publisher renders a registry's full, transformed contents.
// Render never mutates the registry and is safe to call concurrently.
type Publisher struct {
	lister Lister
	format Format
}

// NewPublisher returns a publisher over lister in the given format.
func NewPublisher(lister Lister, format Format) *Publisher {
	if format == "" {
		format = FormatJSON
	}
	return &Publisher{lister: lister, format: format}
}

// Format returns the publisher's output format.
func (p *Publisher) Format() Format {
	return p.format
}

// Render returns the listing serialized in the publisher's format.
func (p *Publisher) Render() ([]byte, error) {
	listing, err := p.lister.ListAll()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", p.lister.Name(), err)
	}

	var buf bytes.Buffer
	if err := NewFormatter(&buf, p.format).Format(listing); err != nil {
		return nil, fmt.Errorf("render %s: %w", p.lister.Name(), err)
	}
	return buf.Bytes(), nil
}
