package fiber

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// EffectKind discriminates the suspending operation a fiber is parked on
// (spec.md §9 Design Notes, "Effects abstraction").
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectIO
	EffectChannel
	EffectTimer
	EffectSpawn
	EffectJoin
	EffectSlot
)

// Effect is the reified description of a suspending operation: the runtime
// either executes it synchronously or hands it to the reactor, which
// resumes the owning fiber via Scheduler.Unblock.
type Effect struct {
	Kind         EffectKind
	Payload      any
	Result       any
	Continuation func()
}

type resumeMsg struct{}

type yieldMsg struct {
	state State
}

// Routine is a fiber's entry point. Returning a non-nil error transitions
// the fiber to Error; returning nil transitions it to Done.
type Routine func(f *Fiber) error

// Fiber is a stackful user-space coroutine scheduled cooperatively onto a
// worker thread (spec.md §3 "Fiber", §4.3).
type Fiber struct {
	ID       int64
	Priority int

	routine Routine
	arg     any

	stateVal atomic.Int32
	cancelled atomic.Bool

	PendingEffect atomic.Pointer[Effect]

	errMu   sync.Mutex
	errCode string
	errMsg  string

	schedulerTag string

	parentMu    sync.Mutex
	parent      *Fiber
	firstChild  *Fiber
	nextSibling *Fiber

	resumeCh chan resumeMsg
	yieldCh  chan yieldMsg
	doneCh   chan struct{}
	startOnce sync.Once
}

// New constructs a fiber in the NEW state, which is immediately advanced to
// READY (spec.md §4.3 transition table: "NEW → READY (after creation)").
func New(routine Routine, priority int) *Fiber {
	f := &Fiber{
		routine:  routine,
		Priority: priority,
		resumeCh: make(chan resumeMsg),
		yieldCh:  make(chan yieldMsg),
		doneCh:   make(chan struct{}),
	}
	f.stateVal.Store(int32(Ready))
	return f
}

// State returns the fiber's current lifecycle state.
func (f *Fiber) State() State { return State(f.stateVal.Load()) }

func (f *Fiber) setState(s State) { f.stateVal.Store(int32(s)) }

// IsCancelled reports whether Cancel has been observed for this fiber.
func (f *Fiber) IsCancelled() bool { return f.cancelled.Load() }

// Cancel marks f as cancelled and recursively cancels every descendant
// (spec.md §4.3 "Cancelling a fiber recursively cancels every descendant").
// Cancellation is cooperative: it only takes effect once the fiber's
// routine observes IsCancelled at a yield point.
func (f *Fiber) Cancel() {
	f.cancelled.Store(true)
	f.parentMu.Lock()
	child := f.firstChild
	f.parentMu.Unlock()
	for child != nil {
		child.Cancel()
		child.parentMu.Lock()
		next := child.nextSibling
		child.parentMu.Unlock()
		child = next
	}
}

// AttachChild inserts c at the head of p's child list (spec.md §4.3).
func AttachChild(p, c *Fiber) {
	if p == nil || c == nil {
		return
	}
	p.parentMu.Lock()
	c.parentMu.Lock()
	c.parent = p
	c.nextSibling = p.firstChild
	p.firstChild = c
	c.parentMu.Unlock()
	p.parentMu.Unlock()
}

// DetachChild removes c from p's child list.
func DetachChild(p, c *Fiber) {
	if p == nil || c == nil {
		return
	}
	p.parentMu.Lock()
	defer p.parentMu.Unlock()
	if p.firstChild == c {
		c.parentMu.Lock()
		p.firstChild = c.nextSibling
		c.parentMu.Unlock()
		return
	}
	prev := p.firstChild
	for prev != nil {
		prev.parentMu.Lock()
		next := prev.nextSibling
		prev.parentMu.Unlock()
		if next == c {
			c.parentMu.Lock()
			prev.parentMu.Lock()
			prev.nextSibling = c.nextSibling
			prev.parentMu.Unlock()
			c.parentMu.Unlock()
			return
		}
		prev = next
	}
}

// Children returns a snapshot slice of f's current children.
func (f *Fiber) Children() []*Fiber {
	f.parentMu.Lock()
	defer f.parentMu.Unlock()
	var out []*Fiber
	for c := f.firstChild; c != nil; c = c.nextSibling {
		out = append(out, c)
	}
	return out
}

// Parent returns f's parent, or nil for a root fiber.
func (f *Fiber) Parent() *Fiber {
	f.parentMu.Lock()
	defer f.parentMu.Unlock()
	return f.parent
}

// Error returns the fiber's recorded error code/message, set when it
// terminates in the ERROR state.
func (f *Fiber) Error() (code, message string) {
	f.errMu.Lock()
	defer f.errMu.Unlock()
	return f.errCode, f.errMsg
}

func (f *Fiber) setError(code, message string) {
	f.errMu.Lock()
	f.errCode = code
	f.errMsg = message
	f.errMu.Unlock()
}

// Done returns a channel closed once the fiber reaches DONE or ERROR.
func (f *Fiber) Done() <-chan struct{} { return f.doneCh }

// ensureStarted launches the fiber's backing goroutine exactly once. The
// goroutine blocks on the first resume before running the routine, so
// construction (New) never itself consumes a worker.
func (f *Fiber) ensureStarted() {
	f.startOnce.Do(func() {
		go f.run()
	})
}

func (f *Fiber) run() {
	<-f.resumeCh

	var final State
	func() {
		defer func() {
			if r := recover(); r != nil {
				final = Error
				f.setError("PANIC", fmt.Sprint(r))
			}
		}()
		if err := f.routine(f); err != nil {
			final = Error
			if f.IsCancelled() {
				f.setError("CANCELLED", err.Error())
			} else {
				f.setError("ROUTINE_ERROR", err.Error())
			}
		} else {
			final = Done
		}
	}()

	f.setState(final)
	close(f.doneCh)
	f.yieldCh <- yieldMsg{state: final}
}

// SwitchInto is the scheduler-facing half of FiberSwitchContext (spec.md
// §4.3 "FiberSwitchContext(from, to) is the single primitive; yielding and
// blocking both funnel through it"): it transitions f to RUNNING, resumes
// its goroutine (starting it on first use), and blocks until f yields,
// blocks, or finishes, returning the resulting state.
func (f *Fiber) SwitchInto() State {
	f.ensureStarted()
	f.setState(Running)
	f.resumeCh <- resumeMsg{}
	msg := <-f.yieldCh
	f.setState(msg.state)
	return msg.state
}

// Yield cooperatively relinquishes the worker, returning to READY. Must be
// called from within the fiber's own routine.
func (f *Fiber) Yield() {
	f.yieldCh <- yieldMsg{state: Ready}
	<-f.resumeCh
}

// Suspend explicitly suspends the fiber until a future SwitchInto resumes
// it (spec.md §4.3 "RUNNING → SUSPENDED (explicit)").
func (f *Fiber) Suspend() {
	f.yieldCh <- yieldMsg{state: Suspended}
	<-f.resumeCh
}

// Block parks the fiber on effect until some peer (the reactor, a channel
// operation, or another fiber) calls Scheduler.Unblock on it.
func (f *Fiber) Block(effect *Effect) {
	f.PendingEffect.Store(effect)
	f.yieldCh <- yieldMsg{state: Blocked}
	<-f.resumeCh
	f.PendingEffect.Store(nil)
}
