package channel

import (
	"sync/atomic"

	"github.com/pergyralang/sea-runtime/fiber"
)

// CaseOp discriminates a Select case's operation.
type CaseOp int

const (
	RecvOp CaseOp = iota
	SendOp
	DefaultOp
)

// Case is one arm of a Select over channels sharing element type T (spec.md
// §4.6 "Select"). Heterogeneous-type select is out of scope for this
// generic form; compose via a sum type T when cases need different payload
// shapes.
type Case[T any] struct {
	Op    CaseOp
	Ch    *Channel[T]
	Value T // used when Op == SendOp
}

// Select performs spec.md §4.6's select cycle: (1) scan cases in order for
// one ready without blocking; (2) if none and a DefaultOp case is present,
// take it; (3) otherwise enqueue the caller fiber on every case's wait
// queue, yield via Block, and on wakeup unlink from the other queues. Ties
// among simultaneously-ready cases break on array index.
func Select[T any](f *fiber.Fiber, cases []Case[T]) (index int, value T, result Result) {
	// phase 1: non-blocking scan, in listed order.
	for i, c := range cases {
		switch c.Op {
		case SendOp:
			if r := c.Ch.TrySend(c.Value); r == OK || r == CLOSED {
				return i, c.Value, r
			}
		case RecvOp:
			if v, r := c.Ch.TryRecv(); r == OK || r == CLOSED {
				return i, v, r
			}
		}
	}

	// phase 2: default.
	for i, c := range cases {
		if c.Op == DefaultOp {
			var zero T
			return i, zero, OK
		}
	}

	// phase 3: enqueue on every blocking case's wait queue, then block.
	type pending struct {
		idx int
		ch  *Channel[T]
		w   *waiter[T]
		op  CaseOp
	}
	// claim is shared by every waiter this call registers: one fiber is
	// about to sit in multiple channels' wait queues at once, across
	// independent mutexes, so only a cross-channel atomic can guarantee
	// exactly one of them is ever allowed to complete the handoff and
	// call Unblock.
	claim := new(atomic.Bool)
	var all []pending
	for i, c := range cases {
		switch c.Op {
		case SendOp:
			w := &waiter[T]{fiber: f, value: c.Value, claim: claim}
			c.Ch.mu.Lock()
			c.Ch.sendWaiters = append(c.Ch.sendWaiters, w)
			c.Ch.mu.Unlock()
			all = append(all, pending{idx: i, ch: c.Ch, w: w, op: SendOp})
		case RecvOp:
			var zero T
			w := &waiter[T]{fiber: f, slot: &zero, claim: claim}
			c.Ch.mu.Lock()
			c.Ch.recvWaiters = append(c.Ch.recvWaiters, w)
			c.Ch.mu.Unlock()
			all = append(all, pending{idx: i, ch: c.Ch, w: w, op: RecvOp})
		}
	}

	f.Block(&fiber.Effect{Kind: fiber.EffectChannel, Payload: all})

	winner := -1
	for i, p := range all {
		if p.w.done {
			winner = i
			break
		}
	}

	// unlink the fiber from every case it didn't win.
	for i, p := range all {
		if i == winner {
			continue
		}
		p.ch.mu.Lock()
		switch p.op {
		case SendOp:
			p.ch.sendWaiters = removeWaiter(p.ch.sendWaiters, p.w)
		case RecvOp:
			p.ch.recvWaiters = removeWaiter(p.ch.recvWaiters, p.w)
		}
		p.ch.mu.Unlock()
	}

	if winner == -1 {
		var zero T
		return -1, zero, ERROR
	}
	w := all[winner].w
	if w.slot != nil {
		return all[winner].idx, *w.slot, w.result
	}
	return all[winner].idx, w.value, w.result
}

func removeWaiter[T any](q []*waiter[T], target *waiter[T]) []*waiter[T] {
	for i, w := range q {
		if w == target {
			return append(q[:i], q[i+1:]...)
		}
	}
	return q
}
