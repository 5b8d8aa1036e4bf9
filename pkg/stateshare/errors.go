package stateshare

import "errors"

// Sentinel errors. Only TryDelete reports them; every other operation
// degrades silently.
var (
	// ErrListenersRemain indicates a delete was refused because the handler
	// still has subscribed listeners.
	ErrListenersRemain = errors.New("handler still has listeners")

	// ErrNotRegistered indicates the handler type has no live record.
	ErrNotRegistered = errors.New("handler not registered")
)
