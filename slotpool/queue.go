// Package slotpool implements the two lowest-level components of the
// runtime: a lock-free multi-producer multi-consumer queue of opaque
// pointers (C1), and the fixed-capacity slot arena built over it (C2).
package slotpool

import (
	"sync/atomic"
	"unsafe"
)

// Queue is a lock-free multi-producer multi-consumer FIFO of opaque
// pointers, implemented as a Michael-Scott linked queue. It underlies the
// scheduler's global run queue and per-worker queues (spec.md §5: "lock-free
// MPMC (Michael-Scott style); stealing touches only the victim's local
// queue").
type Queue struct {
	head unsafe.Pointer // *node
	tail unsafe.Pointer // *node
	len  atomic.Int64
}

type node struct {
	value unsafe.Pointer
	next  unsafe.Pointer // *node
}

// NewQueue returns an empty Queue, ready for use.
func NewQueue() *Queue {
	q := &Queue{}
	dummy := unsafe.Pointer(&node{})
	q.head = dummy
	q.tail = dummy
	return q
}

// Push enqueues value, which must be non-nil; pushing nil is rejected to
// keep Pop's "empty" sentinel unambiguous.
func (q *Queue) Push(value unsafe.Pointer) bool {
	if value == nil {
		return false
	}
	n := unsafe.Pointer(&node{value: value})
	for {
		tail := atomic.LoadPointer(&q.tail)
		tailNode := (*node)(tail)
		next := atomic.LoadPointer(&tailNode.next)
		if tail != atomic.LoadPointer(&q.tail) {
			continue
		}
		if next == nil {
			if atomic.CompareAndSwapPointer(&tailNode.next, nil, n) {
				atomic.CompareAndSwapPointer(&q.tail, tail, n)
				q.len.Add(1)
				return true
			}
		} else {
			// tail lagged behind; help advance it
			atomic.CompareAndSwapPointer(&q.tail, tail, next)
		}
	}
}

// Pop dequeues the oldest pushed value, returning (nil, false) if the queue
// is empty at the moment of the attempt.
func (q *Queue) Pop() (unsafe.Pointer, bool) {
	for {
		head := atomic.LoadPointer(&q.head)
		tail := atomic.LoadPointer(&q.tail)
		headNode := (*node)(head)
		next := atomic.LoadPointer(&headNode.next)
		if head != atomic.LoadPointer(&q.head) {
			continue
		}
		if head == tail {
			if next == nil {
				return nil, false
			}
			// tail lagged behind; help advance it
			atomic.CompareAndSwapPointer(&q.tail, tail, next)
			continue
		}
		nextNode := (*node)(next)
		value := nextNode.value
		if atomic.CompareAndSwapPointer(&q.head, head, next) {
			q.len.Add(-1)
			return value, true
		}
	}
}

// PushBatch enqueues every value in values, returning the count actually
// pushed (nil entries are skipped, matching Push's contract).
func (q *Queue) PushBatch(values []unsafe.Pointer) int {
	n := 0
	for _, v := range values {
		if q.Push(v) {
			n++
		}
	}
	return n
}

// PopBatch dequeues up to max values, returning however many were available.
func (q *Queue) PopBatch(max int) []unsafe.Pointer {
	if max <= 0 {
		return nil
	}
	out := make([]unsafe.Pointer, 0, max)
	for len(out) < max {
		v, ok := q.Pop()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

// Len returns a point-in-time estimate of the queue's length. Under
// concurrent access this may be stale by the time the caller observes it;
// it is intended for statistics, not synchronization.
func (q *Queue) Len() int {
	if n := q.len.Load(); n > 0 {
		return int(n)
	}
	return 0
}
