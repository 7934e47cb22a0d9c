package asyncscope

import (
	"context"
	"sync/atomic"

	"github.com/pergyralang/sea-runtime/fiber"
	"golang.org/x/sync/semaphore"
)

// Task is one unit of work submitted to ParallelFor or Race.
type Task func(f *fiber.Fiber) error

// ParallelFor spawns one fiber per task and blocks caller until every task
// finishes (spec.md §4.5 "parallel_for"). maxWorkers caps how many of those
// fibers are allowed to run their task concurrently, via a weighted
// semaphore (SPEC_FULL.md §4.5a); the rest queue on the semaphore and run as
// slots free up. 0 or a value >= len(tasks) leaves every task free to run as
// soon as it's spawned.
func (s *Scope) ParallelFor(caller *fiber.Fiber, tasks []Task, maxWorkers int) error {
	if len(tasks) == 0 {
		return nil
	}
	if maxWorkers <= 0 || maxWorkers > len(tasks) {
		maxWorkers = len(tasks)
	}

	sem := semaphore.NewWeighted(int64(maxWorkers))
	ctx := context.Background()

	for i := range tasks {
		task := tasks[i]
		if _, err := s.Spawn(caller, func(f *fiber.Fiber) error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			return task(f)
		}, 0); err != nil {
			return err
		}
	}

	s.WaitAll(caller)
	if s.HasError() {
		return s.FirstError()
	}
	return nil
}

// Race creates a nested scope, spawns every task, and returns the index of
// the first task to complete without error (spec.md §4.5 "race"): the
// winner claims a compare-exchange slot, after which the nested scope is
// cancelled, taking the losers with it (spec.md §8 P8).
func (s *Scope) Race(caller *fiber.Fiber, tasks []Task) (int, error) {
	nested := s.NewChild()
	var winner atomic.Int32
	winner.Store(-1)
	var winnerErr atomic.Pointer[error]

	for idx, t := range tasks {
		idx, t := idx, t
		if _, err := nested.Spawn(caller, func(f *fiber.Fiber) error {
			err := t(f)
			if winner.CompareAndSwap(-1, int32(idx)) {
				if err != nil {
					winnerErr.Store(&err)
				}
			}
			return err
		}, 0); err != nil {
			nested.Cancel()
			return -1, err
		}
	}

	for winner.Load() == -1 {
		caller.Yield()
	}
	nested.Destroy(caller)

	if p := winnerErr.Load(); p != nil {
		return int(winner.Load()), *p
	}
	return int(winner.Load()), nil
}
