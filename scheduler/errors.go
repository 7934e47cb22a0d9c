package scheduler

import "errors"

var (
	// ErrCancelled is returned by spawn when the scheduler is stopping.
	ErrCancelled = errors.New("scheduler: cancelled")
	// ErrStopped is returned by operations attempted after Stop.
	ErrStopped = errors.New("scheduler: stopped")
	// ErrOutOfResources is returned when a fiber cannot be created (spec.md
	// §7 "Resource exhaustion").
	ErrOutOfResources = errors.New("scheduler: out of resources")
	// ErrFDAlreadyRegistered mirrors the teacher's poller error taxonomy
	// (eventloop.ErrFDAlreadyRegistered), adapted for the reactor below.
	ErrFDAlreadyRegistered = errors.New("scheduler: fd already registered")
	// ErrFDNotRegistered is returned when unregistering an unknown fd.
	ErrFDNotRegistered = errors.New("scheduler: fd not registered")
	// ErrPollerClosed is returned by a Poller after Close.
	ErrPollerClosed = errors.New("scheduler: poller closed")
)
