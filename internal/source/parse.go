package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/keyreg/internal/domain/record"
)

// Format is a data file format tag.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a format tag. "yml" is accepted as an alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: cannot infer format of %s", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// Parse decodes data in the given format.
func Parse(format Format, data []byte) ([]record.Entry, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(data)
	case FormatJSON:
		return ParseJSON(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ParseYAML decodes a YAML document whose root is a mapping of key to record.
// Walking the node tree keeps declaration order. An empty document yields no
// entries.
func ParseYAML(data []byte) ([]record.Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return []record.Entry{}, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return []record.Entry{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("document root (line %d): %w", root.Line, record.ErrNotMapping)
	}

	entries := make([]record.Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: key must be a scalar", keyNode.Line)
		}

		var raw any
		if err := valueNode.Decode(&raw); err != nil {
			return nil, fmt.Errorf("key %s: %w", keyNode.Value, err)
		}
		rec, err := record.Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("key %s (line %d): %w", keyNode.Value, valueNode.Line, err)
		}
		entries = append(entries, record.Entry{Key: keyNode.Value, Record: rec})
	}
	return entries, nil
}

// ParseJSON decodes a JSON object whose members are records. The object is
// read token by token so member order survives, and numbers are decoded
// exactly: integers come back as int like their YAML counterparts. Blank input
// yields no entries.
func ParseJSON(data []byte) ([]record.Entry, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return []record.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("document root: %w", record.ErrNotMapping)
	}

	entries := make([]record.Entry, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parse json: unexpected token %v", keyTok)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("key %s: %w", key, err)
		}
		rec, err := record.Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", key, err)
		}
		entries = append(entries, record.Entry{Key: key, Record: rec})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse json: trailing data after document")
	}
	return entries, nil
}
