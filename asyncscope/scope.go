// Package asyncscope implements the structured-concurrency AsyncScope
// (spec.md §3 "AsyncScope", §4.5): a mutable list of child fibers, a
// cancellation token with parent-chain propagation, a first-error slot, and
// disposal state.
package asyncscope

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pergyralang/sea-runtime/fiber"
	"github.com/pergyralang/sea-runtime/scheduler"
	"golang.org/x/sync/errgroup"
)

// Scope is a structured-concurrency container for fibers (spec.md §4.5).
// Instances must be created with New or NewChild.
type Scope struct {
	sched  *scheduler.Scheduler
	parent *Scope

	cancelled atomic.Bool
	destroyed atomic.Bool

	mu      sync.Mutex
	fibers  []*fiber.Fiber
	first   error
	errs    int64
	created int64

	// errgrp aggregates completions for host code that is not itself a
	// fiber (SPEC_FULL.md §4.5a "errgroup for the all-succeed/first-error
	// path"); the caller-fiber path (WaitAll) uses the cooperative yield
	// loop below instead, since blocking a fiber's own goroutine on
	// errgroup.Wait would stall the worker that switched into it.
	errgrp *errgroup.Group
}

// New creates a root scope bound to sched. A root scope is its own
// cancellation root (spec.md §4.5 "create(parent?) → scope").
func New(sched *scheduler.Scheduler) *Scope {
	g := &errgroup.Group{}
	return &Scope{sched: sched, errgrp: g}
}

// NewChild creates a scope whose cancellation is inherited from s (spec.md
// §4.5 "parent cancellation propagates"). Used directly by Race, and
// available to callers building their own nested scopes.
func (s *Scope) NewChild() *Scope {
	g := &errgroup.Group{}
	return &Scope{sched: s.sched, parent: s, errgrp: g}
}

// IsCancelled walks the parent chain, so a child scope observes cancellation
// of any ancestor without needing its own bit flipped (spec.md §4.5 "Nested
// scopes inherit cancellation transitively").
func (s *Scope) IsCancelled() bool {
	if s.cancelled.Load() {
		return true
	}
	if s.parent != nil {
		return s.parent.IsCancelled()
	}
	return false
}

// Spawn creates a fiber running routine under s, attaches it as a child of
// caller (structured concurrency), and registers it in s's fiber list
// (spec.md §4.5 "spawn"). caller may be nil for a scope owned directly by
// host (non-fiber) code.
func (s *Scope) Spawn(caller *fiber.Fiber, routine fiber.Routine, priority int) (*fiber.Fiber, error) {
	if s.destroyed.Load() {
		return nil, ErrDestroyed
	}
	if s.IsCancelled() {
		return nil, ErrCancelled
	}

	var f *fiber.Fiber
	wrapped := func(child *fiber.Fiber) error {
		err := routine(child)
		s.onChildDone(child, err)
		return err
	}

	f, err := s.sched.Spawn(wrapped, priority)
	if err != nil {
		return nil, err
	}
	if caller != nil {
		fiber.AttachChild(caller, f)
	}

	s.mu.Lock()
	s.fibers = append(s.fibers, f)
	s.created++
	s.mu.Unlock()

	s.errgrp.Go(func() error {
		<-f.Done()
		if code, msg := f.Error(); code != "" {
			return &fiberError{code: code, message: msg}
		}
		return nil
	})

	return f, nil
}

type fiberError struct {
	code    string
	message string
}

func (e *fiberError) Error() string { return e.code + ": " + e.message }

func (s *Scope) onChildDone(f *fiber.Fiber, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.fibers {
		if c == f {
			s.fibers = append(s.fibers[:i], s.fibers[i+1:]...)
			break
		}
	}
	if err != nil {
		s.errs++
		if s.first == nil {
			s.first = err
		}
	}
}

// Cancel sets the cancellation bit and cancels every tracked fiber plus any
// nested child scopes' fibers. Idempotent (spec.md §4.5 "cancel").
func (s *Scope) Cancel() {
	if !s.cancelled.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	fibers := append([]*fiber.Fiber(nil), s.fibers...)
	s.mu.Unlock()
	for _, f := range fibers {
		f.Cancel()
	}
}

// WaitAll blocks caller by yielding until s's fiber list is empty (spec.md
// §4.5 "wait_all"). caller must be the fiber invoking WaitAll.
func (s *Scope) WaitAll(caller *fiber.Fiber) {
	for {
		s.mu.Lock()
		empty := len(s.fibers) == 0
		s.mu.Unlock()
		if empty {
			return
		}
		caller.Yield()
	}
}

// WaitAllTimeout is WaitAll bounded by a wall-clock deadline, returning false
// if fibers are still running once the deadline passes (spec.md §4.5
// "wait_all_timeout" — fibers are not auto-cancelled on timeout).
func (s *Scope) WaitAllTimeout(caller *fiber.Fiber, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		s.mu.Lock()
		empty := len(s.fibers) == 0
		s.mu.Unlock()
		if empty {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		caller.Yield()
	}
}

// Wait is the non-fiber (host) counterpart of WaitAll, built directly on
// golang.org/x/sync/errgroup (SPEC_FULL.md §4.5a): it blocks the calling
// goroutine — which must NOT itself be a fiber routine — until every spawned
// fiber has completed, returning the first error if any.
func (s *Scope) Wait(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- s.errgrp.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HasError reports whether any child has terminated in ERROR.
func (s *Scope) HasError() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.first != nil
}

// FirstError returns the first recorded child error, or nil.
func (s *Scope) FirstError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.first
}

// ErrorCount returns the number of children that terminated in ERROR.
func (s *Scope) ErrorCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errs
}

// Len reports the number of fibers currently tracked by the scope.
func (s *Scope) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fibers)
}

// Destroy cancels, waits for every tracked fiber to reach a terminal state,
// then frees the scope. Calling Destroy twice is a no-op (spec.md §4.5
// "destroy"). caller is the fiber performing the destroy, used for the
// cooperative wait; it may be nil only if the scope is already empty.
func (s *Scope) Destroy(caller *fiber.Fiber) {
	if !s.destroyed.CompareAndSwap(false, true) {
		return
	}
	s.Cancel()
	if caller != nil {
		s.WaitAll(caller)
	}
}
