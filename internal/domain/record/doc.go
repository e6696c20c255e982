// Package record implements the data model of the named-data registry.
//
// This package has no knowledge of how records are stored on disk or served
// over the network.
//
// # Core Types
//
// Record is one declared data item: an opaque mapping of field name to value.
// Values are whatever a parser produced (strings, numbers, booleans, nil, and
// nested maps or slices of those). The package never type-checks fields.
//
// Entry pairs a Record with the Key it was declared under.
//
// Set is the immutable, ordered collection a data source produces. It keeps
// declaration order and rejects duplicate or empty keys.
//
// Listing is the ordered output of a registry after transformation. It
// marshals to JSON and YAML mappings without losing that order.
package record
