// Package scheduler implements the work-stealing fiber scheduler (spec.md
// §3 "Scheduler", §4.4): a fixed worker pool, a lock-free global queue plus
// per-worker local queues, parking on a condition variable, and an I/O
// reactor thread that unblocks fibers on readiness.
package scheduler

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pergyralang/sea-runtime/fiber"
	"github.com/pergyralang/sea-runtime/internal/rlog"
	"github.com/pergyralang/sea-runtime/internal/sysinfo"
	"github.com/pergyralang/sea-runtime/slotpool"
)

func defaultWorkerCount() int { return sysinfo.Workers() }

// Scheduler owns the worker pool and reactor described in spec.md §4.4.
type Scheduler struct {
	cfg    Config
	logger rlog.Logger

	global *slotpool.Queue
	locals []*slotpool.Queue

	parkMu sync.Mutex
	parkCv *sync.Cond
	parked int

	stealingVictim atomic.Int32

	rng *rand.Rand

	counters counters
	overload *overloadTracker

	reactor *reactor

	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once

	current currentRegistry
}

// New constructs and starts a Scheduler (spec.md §6 "scheduler_create" +
// "start"). The returned Scheduler is immediately able to accept Spawn.
func New(cfg Config, opts ...Option) (*Scheduler, error) {
	cfg = resolved(cfg)
	if cfg.NumWorkers < 1 {
		cfg.NumWorkers = 1
	}

	o := resolveOptions(opts)

	s := &Scheduler{
		cfg:      cfg,
		logger:   o.logger,
		global:   slotpool.NewQueue(),
		locals:   make([]*slotpool.Queue, cfg.NumWorkers),
		overload: newOverloadTracker(),
		stopCh:   make(chan struct{}),
	}
	s.parkCv = sync.NewCond(&s.parkMu)
	s.current.init(cfg.NumWorkers)

	seed := cfg.RandomSeed
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	for i := range s.locals {
		s.locals[i] = slotpool.NewQueue()
	}

	poller := o.poller
	if poller == nil {
		p, err := newPoller()
		if err != nil {
			return nil, err
		}
		poller = p
	}
	s.reactor = newReactor(s, poller)

	s.wg.Add(cfg.NumWorkers)
	for i := 0; i < cfg.NumWorkers; i++ {
		go s.workerLoop(i)
	}
	go s.reactor.run()

	active.Store(s)
	s.logger.Info("scheduler started", "num_workers", cfg.NumWorkers, "enable_stealing", cfg.EnableStealing, "deterministic", cfg.Deterministic)
	return s, nil
}

// Stop signals every worker and the reactor to exit and waits for them.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.parkMu.Lock()
		s.parkCv.Broadcast()
		s.parkMu.Unlock()
	})
	s.wg.Wait()
	s.reactor.stop()
	s.logger.Info("scheduler stopped", "fibers_created", s.counters.created.Load(), "fibers_completed", s.counters.completed.Load())
}

// Stats returns a snapshot of scheduler_stats() (spec.md §6).
func (s *Scheduler) Stats() Stats { return s.counters.snapshot() }

// Overloaded reports whether recent spawn bursts have exceeded the
// diagnostic rate windows (SPEC_FULL.md §4.4c). It never throttles Spawn.
func (s *Scheduler) Overloaded() bool { return s.overload.observeSpawn() }

// Spawn creates a fiber and pushes it to the global queue, waking a parked
// worker if any (spec.md §4.4 "Spawning").
func (s *Scheduler) Spawn(routine fiber.Routine, priority int) (*fiber.Fiber, error) {
	select {
	case <-s.stopCh:
		return nil, ErrCancelled
	default:
	}

	f := fiber.New(routine, priority)
	if !s.global.Push(unsafe.Pointer(f)) {
		s.logger.Warn("spawn rejected, global queue full", "priority", priority)
		return nil, ErrOutOfResources
	}
	s.counters.created.Add(1)
	s.wakeOne()
	return f, nil
}

// RegisterIOEvent attaches fd/events to the reactor for f (spec.md §4.4
// "register_io_event(fd, events, fiber)").
func (s *Scheduler) RegisterIOEvent(fd int, events IOEvents, f *fiber.Fiber) error {
	return s.reactor.registerIOEvent(fd, events, f)
}

// Unblock transitions a BLOCKED fiber to READY and pushes it onto the
// global queue (spec.md §4.4 "Unblock"). Safe from any goroutine.
func (s *Scheduler) Unblock(f *fiber.Fiber) {
	s.global.Push(unsafe.Pointer(f))
	s.wakeOne()
}

func (s *Scheduler) wakeOne() {
	s.parkMu.Lock()
	if s.parked > 0 {
		s.parkCv.Signal()
	}
	s.parkMu.Unlock()
}

// CurrentFiber returns the fiber running on the calling goroutine's worker,
// or nil if called outside a worker (spec.md §6 "current_fiber()").
func (s *Scheduler) CurrentFiber(workerID int) *fiber.Fiber {
	return s.current.get(workerID)
}

func (s *Scheduler) workerLoop(id int) {
	defer s.wg.Done()
	local := s.locals[id]

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		f := s.popReady(id, local)
		if f == nil {
			if s.parkUntilWork() {
				return
			}
			continue
		}

		s.current.set(id, f)
		s.counters.switches.Add(1)
		state := f.SwitchInto()
		s.current.set(id, nil)

		switch state {
		case fiber.Ready:
			local.Push(unsafe.Pointer(f))
		case fiber.Done, fiber.Error:
			s.counters.completed.Add(1)
			if state == fiber.Error {
				code, msg := f.Error()
				s.logger.Warn("fiber exited with error", "worker", id, "code", code, "message", msg)
			}
		case fiber.Blocked:
			// left for the reactor or a peer to Unblock.
		case fiber.Suspended:
			local.Push(unsafe.Pointer(f))
		}
	}
}

// popReady implements spec.md §4.4's pop order: local queue, then global
// queue, then (if enabled) steal from a round-robin victim.
func (s *Scheduler) popReady(id int, local *slotpool.Queue) *fiber.Fiber {
	if v, ok := local.Pop(); ok {
		return (*fiber.Fiber)(v)
	}
	if v, ok := s.global.Pop(); ok {
		return (*fiber.Fiber)(v)
	}
	if s.cfg.EnableStealing && len(s.locals) > 1 {
		s.counters.stealAttempts.Add(1)
		victim := s.nextVictim(id)
		if v, ok := s.locals[victim].Pop(); ok {
			s.counters.stealSuccesses.Add(1)
			s.logger.Debug("stole fiber", "worker", id, "victim", victim)
			return (*fiber.Fiber)(v)
		}
	}
	return nil
}

func (s *Scheduler) nextVictim(self int) int {
	n := len(s.locals)
	var idx int
	if s.cfg.Deterministic {
		idx = int(s.rng.Uint32N(uint32(n)))
	} else {
		idx = int(s.nextVictimIndex(n))
	}
	if idx == self {
		idx = (idx + 1) % n
	}
	return idx
}

// nextVictimIndex advances stealingVictim round-robin via CAS (spec.md §4.4
// "round-robin index stealing_victim, skipping self").
func (s *Scheduler) nextVictimIndex(n int) int32 {
	for {
		old := s.stealingVictim.Load()
		next := (old + 1) % int32(n)
		if s.stealingVictim.CompareAndSwap(old, next) {
			return old
		}
	}
}

// parkUntilWork blocks the worker on the shared condition variable until
// woken, or returns true if the scheduler is stopping.
func (s *Scheduler) parkUntilWork() bool {
	s.parkMu.Lock()
	defer s.parkMu.Unlock()
	select {
	case <-s.stopCh:
		return true
	default:
	}
	s.parked++
	s.parkCv.Wait()
	s.parked--
	select {
	case <-s.stopCh:
		return true
	default:
	}
	return false
}
