package slot

import "errors"

// Validation and resource-exhaustion errors (spec.md §7), returned to the
// caller and never retried inside the manager.
var (
	ErrInvalidHandle  = errors.New("slot: invalid handle")
	ErrTypeMismatch   = errors.New("slot: type mismatch")
	ErrSlotNotFound   = errors.New("slot: slot not found")
	ErrOutOfMemory    = errors.New("slot: out of memory")
	ErrTokenRequired  = errors.New("slot: token capability required")
	ErrTokenInvalid   = errors.New("slot: token capability invalid or expired")
)
