// Package pubsub provides a generic publish/subscribe event system used to
// announce registry reloads.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// UpdatedEvent announces that new data has been published.
	UpdatedEvent EventType = "updated"
	// FailedEvent announces that an update was attempted and rejected.
	FailedEvent EventType = "failed"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}
