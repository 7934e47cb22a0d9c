// Package channel implements the CSP channel (spec.md §3 "Channel", §4.6):
// bounded or unbuffered, with direct sender/receiver handoff, blocking and
// non-blocking variants, timeouts, and select.
package channel

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pergyralang/sea-runtime/fiber"
)

// Result is the outcome taxonomy for channel operations (spec.md §4.6).
type Result int

const (
	OK Result = iota
	CLOSED
	FULL
	EMPTY
	ERROR
	TIMEOUT
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case CLOSED:
		return "CLOSED"
	case FULL:
		return "FULL"
	case EMPTY:
		return "EMPTY"
	case ERROR:
		return "ERROR"
	case TIMEOUT:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Unblocker is the subset of scheduler.Scheduler a Channel needs: the
// ability to move a BLOCKED fiber back to READY. scheduler.Scheduler
// satisfies this directly, avoiding an import-cycle-prone dependency on the
// concrete scheduler type.
type Unblocker interface {
	Unblock(f *fiber.Fiber)
}

type waiter[T any] struct {
	fiber  *fiber.Fiber
	value  T  // payload for a send waiter
	slot   *T // destination for a recv waiter
	result Result
	done   bool // set once result holds a real outcome, for Select to detect which case fired

	// claim is nil for a waiter registered by a single blocking Send/Recv
	// call, which has exactly one channel operation able to fulfil it. A
	// Select registers the same fiber as a waiter on every blocking case
	// simultaneously, across independent channels each guarded by its own
	// mutex; claim is then a single flag shared by all of that select's
	// waiters so only the first channel operation to reach it commits the
	// handoff, and every other would-be winner backs off instead of also
	// completing, which would otherwise double-resume the fiber and leak
	// a value nobody reads.
	claim *atomic.Bool
}

// tryClaim reports whether this waiter may be fulfilled right now. A waiter
// with no shared claim (an ordinary, non-select wait) always succeeds; a
// select waiter succeeds at most once across all of its sibling waiters.
func (w *waiter[T]) tryClaim() bool {
	if w.claim == nil {
		return true
	}
	return w.claim.CompareAndSwap(false, true)
}

// Channel is a bounded (or, with capacity 0, unbuffered/rendezvous) CSP
// channel (spec.md §4.6).
type Channel[T any] struct {
	mu     sync.Mutex
	buf    []T
	cap    int
	closed bool

	sendWaiters []*waiter[T]
	recvWaiters []*waiter[T]

	sched Unblocker
}

// New constructs a Channel of the given capacity, bound to sched for
// unparking blocked fibers.
func New[T any](capacity int, sched Unblocker) *Channel[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Channel[T]{cap: capacity, sched: sched}
}

// Len returns the number of buffered values.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

// Capacity returns the channel's configured buffer capacity.
func (c *Channel[T]) Capacity() int { return c.cap }

// Close marks the channel closed. Pending senders and receivers are woken
// with CLOSED. Closing twice is a no-op.
func (c *Channel[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	senders := c.sendWaiters
	receivers := c.recvWaiters
	c.sendWaiters = nil
	c.recvWaiters = nil
	c.mu.Unlock()

	for _, w := range senders {
		if !w.tryClaim() {
			continue
		}
		w.result = CLOSED
		w.done = true
		c.sched.Unblock(w.fiber)
	}
	for _, w := range receivers {
		if !w.tryClaim() {
			continue
		}
		w.result = CLOSED
		w.done = true
		c.sched.Unblock(w.fiber)
	}
}

// Send implements spec.md §4.6 "Sending": direct handoff to a waiting
// receiver, else buffering if capacity allows, else (try) FULL, else block
// the caller fiber until a receiver or a close wakes it.
func (c *Channel[T]) Send(f *fiber.Fiber, value T) Result {
	return c.send(f, value, false, 0)
}

// TrySend is Send without blocking: returns FULL instead of parking.
func (c *Channel[T]) TrySend(value T) Result {
	return c.send(nil, value, true, 0)
}

// SendTimeout is Send bounded by timeout; returns TIMEOUT if no receiver or
// buffer slot becomes available in time.
func (c *Channel[T]) SendTimeout(f *fiber.Fiber, value T, timeout time.Duration) Result {
	return c.send(f, value, false, timeout)
}

func (c *Channel[T]) send(f *fiber.Fiber, value T, tryOnly bool, timeout time.Duration) Result {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return CLOSED
	}
	for len(c.recvWaiters) > 0 {
		w := c.recvWaiters[0]
		c.recvWaiters = c.recvWaiters[1:]
		if !w.tryClaim() {
			// w's fiber already resumed through a sibling select case;
			// nothing to hand off to it, try the next receiver.
			continue
		}
		*w.slot = value
		w.result = OK
		w.done = true
		c.mu.Unlock()
		c.sched.Unblock(w.fiber)
		return OK
	}
	if len(c.buf) < c.cap {
		c.buf = append(c.buf, value)
		c.mu.Unlock()
		return OK
	}
	if tryOnly {
		c.mu.Unlock()
		return FULL
	}

	w := &waiter[T]{fiber: f, value: value}
	c.sendWaiters = append(c.sendWaiters, w)
	c.mu.Unlock()

	c.parkWithTimeout(f, w, &c.sendWaiters, timeout)
	return w.result
}

// Recv implements spec.md §4.6 "Receiving": direct handoff from a waiting
// sender, else draining the buffer, else EMPTY/block.
func (c *Channel[T]) Recv(f *fiber.Fiber) (T, Result) {
	return c.recv(f, false, 0)
}

// TryRecv is Recv without blocking: returns EMPTY instead of parking.
func (c *Channel[T]) TryRecv() (T, Result) {
	return c.recv(nil, true, 0)
}

// RecvTimeout is Recv bounded by timeout.
func (c *Channel[T]) RecvTimeout(f *fiber.Fiber, timeout time.Duration) (T, Result) {
	return c.recv(f, false, timeout)
}

func (c *Channel[T]) recv(f *fiber.Fiber, tryOnly bool, timeout time.Duration) (T, Result) {
	var zero T
	c.mu.Lock()
	for len(c.sendWaiters) > 0 {
		w := c.sendWaiters[0]
		c.sendWaiters = c.sendWaiters[1:]
		if !w.tryClaim() {
			continue
		}
		value := w.value
		w.result = OK
		w.done = true
		c.mu.Unlock()
		c.sched.Unblock(w.fiber)
		return value, OK
	}
	if len(c.buf) > 0 {
		value := c.buf[0]
		c.buf = c.buf[1:]
		c.mu.Unlock()
		return value, OK
	}
	if c.closed {
		c.mu.Unlock()
		return zero, CLOSED
	}
	if tryOnly {
		c.mu.Unlock()
		return zero, EMPTY
	}

	w := &waiter[T]{fiber: f, slot: &zero}
	c.recvWaiters = append(c.recvWaiters, w)
	c.mu.Unlock()

	c.parkWithTimeout(f, w, &c.recvWaiters, timeout)
	if w.result == OK {
		return *w.slot, OK
	}
	return zero, w.result
}

// parkWithTimeout blocks f via the fiber's cooperative Block primitive,
// optionally racing a wall-clock timeout that removes w from queue (a
// pointer to whichever of sendWaiters/recvWaiters w was pushed onto) and
// wakes f with TIMEOUT (spec.md §4.6 "Timeouts use the monotonic clock with
// early wake-up on unblock").
func (c *Channel[T]) parkWithTimeout(f *fiber.Fiber, w *waiter[T], queue *[]*waiter[T], timeout time.Duration) {
	var timer *time.Timer
	if timeout > 0 {
		timer = time.AfterFunc(timeout, func() {
			c.mu.Lock()
			for i, q := range *queue {
				if q == w {
					*queue = append((*queue)[:i], (*queue)[i+1:]...)
					c.mu.Unlock()
					if w.tryClaim() {
						w.result = TIMEOUT
						w.done = true
						c.sched.Unblock(f)
					}
					return
				}
			}
			c.mu.Unlock()
		})
	}
	f.Block(&fiber.Effect{Kind: fiber.EffectChannel, Payload: w})
	if timer != nil {
		timer.Stop()
	}
}

// RecvBlocking is the non-fiber (host) counterpart of Recv: it polls
// TryRecv, backing off briefly between attempts, for goroutines that are
// not themselves a scheduled fiber and so cannot use the cooperative
// Block/Yield path. Intended for bridging to plain Go code (e.g.
// channel.DrainBatch's go-longpoll adaptation).
func (c *Channel[T]) RecvBlocking(ctx context.Context) (T, Result) {
	var zero T
	for {
		if v, r := c.TryRecv(); r == OK || r == CLOSED {
			return v, r
		}
		select {
		case <-ctx.Done():
			return zero, ERROR
		case <-time.After(time.Millisecond):
		}
	}
}
