package asyncscope

import "errors"

var (
	// ErrCancelled is returned by Spawn once the scope has been cancelled.
	ErrCancelled = errors.New("asyncscope: cancelled")
	// ErrDestroyed is returned by Spawn on a destroyed scope.
	ErrDestroyed = errors.New("asyncscope: destroyed")
)
