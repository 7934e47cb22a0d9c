package scheduler

import (
	"sync"
	"time"

	"github.com/pergyralang/sea-runtime/fiber"
)

// IOEvents is the bitmask of readiness conditions a registration waits for
// (spec.md §4.4 "register_io_event(fd, events, fiber)").
type IOEvents uint32

const (
	EventRead IOEvents = 1 << iota
	EventWrite
	EventError
	EventHangup
)

// pollTimeout is the reactor loop's poll interval (spec.md §4.4 "the reactor
// loops with a 100 ms timeout").
const pollTimeout = 100 * time.Millisecond

// Poller is the OS readiness interface the reactor drives. Platform backends
// are adapted from the teacher's eventloop poller family
// (SPEC_FULL.md §4.4b): epoll on Linux, kqueue on Darwin, a channel/timer
// fallback elsewhere.
type Poller interface {
	// Register attaches fd/events to the poller. Calling Register again for
	// the same fd before Unregister returns ErrFDAlreadyRegistered.
	Register(fd int, events IOEvents) error
	// Unregister detaches fd. Returns ErrFDNotRegistered if unknown.
	Unregister(fd int) error
	// Wait blocks up to timeout and returns the fds that became ready.
	Wait(timeout time.Duration) ([]int, error)
	// Close releases the poller's OS resources.
	Close() error
}

// reactor owns a Poller plus the fd->fiber registration table and drives the
// unblock loop described in spec.md §4.4.
type reactor struct {
	poller Poller
	sched  *Scheduler

	mu       sync.Mutex
	fibers   map[int]*fiber.Fiber
	stopCh   chan struct{}
	stopOnce sync.Once
	doneCh   chan struct{}
}

func newReactor(s *Scheduler, p Poller) *reactor {
	return &reactor{
		poller: p,
		sched:  s,
		fibers: make(map[int]*fiber.Fiber),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// registerIOEvent is the reactor-facing half of spec.md §4.4
// "register(fd, events, fiber)": it records the owning fiber and registers
// interest with the OS poller.
func (r *reactor) registerIOEvent(fd int, events IOEvents, f *fiber.Fiber) error {
	r.mu.Lock()
	if _, exists := r.fibers[fd]; exists {
		r.mu.Unlock()
		return ErrFDAlreadyRegistered
	}
	r.fibers[fd] = f
	r.mu.Unlock()

	if err := r.poller.Register(fd, events); err != nil {
		r.mu.Lock()
		delete(r.fibers, fd)
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *reactor) run() {
	defer close(r.doneCh)
	for {
		select {
		case <-r.stopCh:
			return
		default:
		}

		ready, err := r.poller.Wait(pollTimeout)
		if err != nil {
			continue
		}
		for _, fd := range ready {
			r.mu.Lock()
			f, ok := r.fibers[fd]
			if ok {
				delete(r.fibers, fd)
			}
			r.mu.Unlock()
			if !ok {
				continue
			}
			_ = r.poller.Unregister(fd)
			r.sched.counters.ioEvents.Add(1)
			r.sched.Unblock(f)
		}
	}
}

func (r *reactor) stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
	<-r.doneCh
	_ = r.poller.Close()
}
