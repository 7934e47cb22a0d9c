package fiber

import "errors"

var (
	// ErrAlreadyStarted is returned by Start when called more than once.
	ErrAlreadyStarted = errors.New("fiber: already started")
	// ErrNotRunning is returned by Yield/Block/Suspend when called outside
	// of the fiber's own goroutine context.
	ErrNotRunning = errors.New("fiber: not running")
)

// ErrCancelled marks a fiber that reached DONE because cancellation was
// observed at a yield point, rather than because its routine returned
// normally (spec.md §7 "Cancelled").
var ErrCancelled = errors.New("fiber: cancelled")
