package registry

// ReloadEvent describes one reload attempt. It is published with
// pubsub.UpdatedEvent on success and pubsub.FailedEvent on failure.
type ReloadEvent struct {
	Registry   string
	Generation uint64 // generation live after the attempt
	Revision   string
	Keys       int
	Err        error
}
