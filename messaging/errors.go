package messaging

import "errors"

var (
	// ErrNotFound is returned by direct lookups (thread roots, messages,
	// users) when the referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrCycle is returned when reply links form a loop. The data is
	// corrupt; the traversal aborts instead of truncating the result.
	ErrCycle = errors.New("reply cycle detected")
)
