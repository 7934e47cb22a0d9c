package asyncscope

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/pergyralang/sea-runtime/fiber"
	"github.com/stretchr/testify/require"
)

func TestParallelForVisitsEveryTaskExactlyOnce(t *testing.T) {
	sched := newTestScheduler(t)
	scope := New(sched)

	const n = 20
	var counts [n]atomic.Int32
	tasks := make([]Task, n)
	for i := 0; i < n; i++ {
		i := i
		tasks[i] = func(f *fiber.Fiber) error {
			counts[i].Add(1)
			return nil
		}
	}

	driveFromFiber(t, sched, func(driver *fiber.Fiber) {
		err := scope.ParallelFor(driver, tasks, 4)
		require.NoError(t, err)
	})

	for i := 0; i < n; i++ {
		require.EqualValues(t, 1, counts[i].Load(), "task %d should run exactly once", i)
	}
}

func TestParallelForPropagatesFirstError(t *testing.T) {
	sched := newTestScheduler(t)
	scope := New(sched)

	boom := require.AnError
	tasks := []Task{
		func(f *fiber.Fiber) error { return nil },
		func(f *fiber.Fiber) error { return boom },
	}

	driveFromFiber(t, sched, func(driver *fiber.Fiber) {
		err := scope.ParallelFor(driver, tasks, 0)
		require.Error(t, err)
	})
}

func TestRaceReturnsFirstWinnerAndCancelsLosers(t *testing.T) {
	sched := newTestScheduler(t)
	scope := New(sched)

	var cancelledCount atomic.Int32
	sleepYield := func(f *fiber.Fiber, iterations int) {
		for i := 0; i < iterations; i++ {
			if f.IsCancelled() {
				cancelledCount.Add(1)
				return
			}
			f.Yield()
		}
	}

	tasks := []Task{
		func(f *fiber.Fiber) error { sleepYield(f, 2); return nil },
		func(f *fiber.Fiber) error { sleepYield(f, 5000); return nil },
		func(f *fiber.Fiber) error { sleepYield(f, 5000); return nil },
	}

	var winner int
	start := time.Now()
	driveFromFiber(t, sched, func(driver *fiber.Fiber) {
		idx, err := scope.Race(driver, tasks)
		require.NoError(t, err)
		winner = idx
	})
	elapsed := time.Since(start)

	require.Equal(t, 0, winner)
	require.Less(t, elapsed, 2*time.Second)
}
