package party

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pergyralang/sea-runtime/fiber"
	"github.com/pergyralang/sea-runtime/scheduler"
)

// JoinStrategy selects how DispatchParallel waits on a FiberMap's entries
// (spec.md §4.7 step 3).
type JoinStrategy int

const (
	// JoinAll waits for every entry to complete.
	JoinAll JoinStrategy = iota
	// JoinAny waits for the first entry to complete, leaving the rest
	// running for the caller to manage.
	JoinAny
	// JoinRace waits for the first entry to succeed, discarding failed
	// completers and continuing to wait.
	JoinRace
	// JoinMajority waits until strictly more than half of the entries have
	// succeeded, or all have finished.
	JoinMajority
)

// ErrNoMajority is returned by DispatchParallel under JoinMajority when every
// entry has finished without a strict majority succeeding.
var ErrNoMajority = errors.New("party: no majority of entries succeeded")

// EntryResult is one FiberMapEntry's dispatch outcome.
type EntryResult struct {
	RoleID   string
	Err      error
	Duration time.Duration
}

// DispatchResult is dispatch_parallel's return value (spec.md §6
// "dispatch_parallel(...) -> {results[], all_succeeded, total_time_ns}").
type DispatchResult struct {
	Results      []EntryResult
	AllSucceeded bool
	TotalTime    time.Duration
}

type entryState struct {
	// ready marks "has produced a result available to join on": for a
	// oneshot entry that's its one and only run; for a continuous entry
	// it flips true after the *first* iteration and stays true, since a
	// periodic routine has no terminal run for a join strategy to wait
	// on. done marks actual goroutine exit, only reachable once stop is
	// observed, and is what the post-join drain phase waits for.
	ready     atomic.Bool
	done      atomic.Bool
	succeeded atomic.Bool
	stop      atomic.Bool
	f         *fiber.Fiber
	sched     *scheduler.Scheduler
	startedAt time.Time
	result    EntryResult
	mu        sync.Mutex
}

// DispatchParallel runs fm's entries per spec.md §4.7 steps 1-5: each entry
// is spawned on the scheduler registered for its tag (or the built-in
// default), as a oneshot or periodic fiber attached as a child of caller;
// the given join strategy determines when DispatchParallel returns; stop
// flags are signalled for every still-running continuous entry before
// finalising; and per-role FiberStats are updated for each entry that
// completed (via stats, which may be nil to skip recording).
func DispatchParallel(caller *fiber.Fiber, ctx *Context, fm FiberMap, strategy JoinStrategy, stats *StatsCollector) (DispatchResult, error) {
	start := time.Now()
	states := make([]*entryState, len(fm.Entries))

	for i, entry := range fm.Entries {
		entry := entry
		st := &entryState{startedAt: time.Now()}
		states[i] = st

		sched := schedulerForTag(entry.SchedulerTag)
		st.sched = sched
		routine := oneshotRoutine(ctx, entry, st)
		if entry.Continuous {
			routine = periodicRoutine(ctx, entry, st)
		}

		f, err := sched.Spawn(routine, entry.Priority)
		if err != nil {
			return DispatchResult{}, err
		}
		fiber.AttachChild(caller, f)
		st.f = f
	}

	var joinErr error
	switch strategy {
	case JoinAll:
		waitAll(caller, states)
	case JoinAny:
		waitAny(caller, states)
	case JoinRace:
		waitRace(caller, states)
	case JoinMajority:
		if !waitMajority(caller, states) {
			joinErr = ErrNoMajority
		}
	}

	for _, st := range states {
		st.stop.Store(true)
	}
	waitAllTerminal(caller, states)

	results := make([]EntryResult, len(states))
	allSucceeded := true
	for i, st := range states {
		st.mu.Lock()
		results[i] = st.result
		st.mu.Unlock()
		if results[i].Err != nil {
			allSucceeded = false
		}
		if stats != nil {
			stats.Record(results[i].RoleID, results[i].Duration, results[i].Err != nil)
		}
	}

	return DispatchResult{
		Results:      results,
		AllSucceeded: allSucceeded,
		TotalTime:    time.Since(start),
	}, joinErr
}

func oneshotRoutine(ctx *Context, entry FiberMapEntry, st *entryState) fiber.Routine {
	return func(f *fiber.Fiber) error {
		runOnce(ctx, entry, st, f)
		return nil
	}
}

func periodicRoutine(ctx *Context, entry FiberMapEntry, st *entryState) fiber.Routine {
	return func(f *fiber.Fiber) error {
		for !st.stop.Load() && !f.IsCancelled() {
			runOnce(ctx, entry, st, f)
			if entry.Interval > 0 {
				sleepFiber(f, st.sched, entry.Interval)
			} else {
				f.Yield()
			}
		}
		st.done.Store(true)
		return nil
	}
}

func runOnce(ctx *Context, entry FiberMapEntry, st *entryState, f *fiber.Fiber) {
	began := time.Now()
	err := entry.Fn(ctx, entry.role)
	dur := time.Since(began)

	st.mu.Lock()
	st.result = EntryResult{RoleID: entry.RoleID, Err: err, Duration: dur}
	st.mu.Unlock()

	st.succeeded.Store(err == nil)
	st.ready.Store(true)
	if !entry.Continuous {
		st.done.Store(true)
	}
}

// sleepFiber parks f on an Effect until duration elapses, unblocking it via
// the fiber's owning scheduler (the same Block/Unblock rendezvous used by
// channel timeouts and the I/O reactor, spec.md §5 "AsyncSleep").
func sleepFiber(f *fiber.Fiber, sched *scheduler.Scheduler, duration time.Duration) {
	effect := &fiber.Effect{Kind: fiber.EffectTimer}
	timer := time.AfterFunc(duration, func() {
		sched.Unblock(f)
	})
	defer timer.Stop()
	f.Block(effect)
}

// waitAll blocks until every entry has produced at least one result. For a
// continuous entry that's its first iteration, not its exit; periodic
// entries only exit once stop is signalled, which happens after the join
// phase, so joining on ready rather than done avoids a stop/done cycle.
func waitAll(caller *fiber.Fiber, states []*entryState) {
	for {
		allReady := true
		for _, st := range states {
			if !st.ready.Load() {
				allReady = false
				break
			}
		}
		if allReady {
			return
		}
		caller.Yield()
	}
}

func waitAny(caller *fiber.Fiber, states []*entryState) {
	for {
		for _, st := range states {
			if st.ready.Load() {
				return
			}
		}
		caller.Yield()
	}
}

func waitRace(caller *fiber.Fiber, states []*entryState) {
	for {
		allReady := true
		for _, st := range states {
			if st.ready.Load() {
				if st.succeeded.Load() {
					return
				}
				continue
			}
			allReady = false
		}
		if allReady {
			return
		}
		caller.Yield()
	}
}

func waitMajority(caller *fiber.Fiber, states []*entryState) bool {
	need := len(states)/2 + 1
	for {
		succeeded := 0
		allReady := true
		for _, st := range states {
			if st.ready.Load() {
				if st.succeeded.Load() {
					succeeded++
				}
			} else {
				allReady = false
			}
		}
		if succeeded >= need {
			return true
		}
		if allReady {
			return false
		}
		caller.Yield()
	}
}

// waitAllTerminal blocks until every entry's fiber has actually exited.
// Called only after stop has been signalled for every entry, so periodic
// routines are guaranteed to observe it and return.
func waitAllTerminal(caller *fiber.Fiber, states []*entryState) {
	for {
		allDone := true
		for _, st := range states {
			if !st.done.Load() {
				allDone = false
				break
			}
		}
		if allDone {
			return
		}
		caller.Yield()
	}
}
