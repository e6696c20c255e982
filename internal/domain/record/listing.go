package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Listing is an ordered list of output records.
type Listing []Entry

// Keys returns the listing keys in order.
func (l Listing) Keys() []string {
	keys := make([]string, len(l))
	for i, e := range l {
		keys[i] = e.Key
	}
	return keys
}

// Map returns the listing as an unordered map.
func (l Listing) Map() map[string]Record {
	m := make(map[string]Record, len(l))
	for _, e := range l {
		m[e.Key] = e.Record
	}
	return m
}

// MarshalJSON encodes the listing as a JSON object with keys in listing order.
func (l Listing) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Record)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", e.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the listing as a YAML mapping with keys in listing order.
func (l Listing) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range l {
		var value yaml.Node
		if err := value.Encode(e.Record); err != nil {
			return nil, fmt.Errorf("marshal %s: %w", e.Key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&value,
		)
	}
	return node, nil
}
