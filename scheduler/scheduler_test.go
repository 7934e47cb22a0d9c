package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/pergyralang/sea-runtime/fiber"
	"github.com/stretchr/testify/require"
)

// fakePoller reports any registered fd as ready on the Wait call after its
// registration, simulating a single-shot readiness notification without a
// real OS poll primitive.
type fakePoller struct {
	mu      sync.Mutex
	pending []int
}

func (p *fakePoller) Register(fd int, events IOEvents) error {
	p.mu.Lock()
	p.pending = append(p.pending, fd)
	p.mu.Unlock()
	return nil
}
func (p *fakePoller) Unregister(fd int) error { return nil }
func (p *fakePoller) Wait(timeout time.Duration) ([]int, error) {
	p.mu.Lock()
	ready := p.pending
	p.pending = nil
	p.mu.Unlock()
	if len(ready) == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	return ready, nil
}
func (p *fakePoller) Close() error { return nil }

func newTestScheduler(t *testing.T, cfg Config) *Scheduler {
	t.Helper()
	s, err := New(cfg, WithPoller(&fakePoller{}))
	require.NoError(t, err)
	t.Cleanup(s.Stop)
	return s
}

func TestSchedulerSpawnRunsToCompletion(t *testing.T) {
	s := newTestScheduler(t, Config{Deterministic: true})

	done := make(chan struct{})
	f, err := s.Spawn(func(f *fiber.Fiber) error {
		close(done)
		return nil
	}, 0)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fiber never ran")
	}

	select {
	case <-f.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("fiber never completed")
	}

	require.Eventually(t, func() bool {
		return s.Stats().Completed == 1
	}, time.Second, time.Millisecond)
}

func TestSchedulerYieldReturnsToReady(t *testing.T) {
	s := newTestScheduler(t, Config{Deterministic: true})

	var steps int
	done := make(chan struct{})
	_, err := s.Spawn(func(f *fiber.Fiber) error {
		steps++
		f.Yield()
		steps++
		close(done)
		return nil
	}, 0)
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fiber never completed")
	}
	require.Equal(t, 2, steps)
}

func TestSchedulerUnblockResumesBlockedFiber(t *testing.T) {
	s := newTestScheduler(t, Config{Deterministic: true})

	var target *fiber.Fiber
	resumed := make(chan struct{})
	target, err := s.Spawn(func(f *fiber.Fiber) error {
		f.Block(&fiber.Effect{Kind: fiber.EffectIO})
		close(resumed)
		return nil
	}, 0)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return target.State() == fiber.Blocked
	}, time.Second, time.Millisecond)

	s.Unblock(target)

	select {
	case <-resumed:
	case <-time.After(2 * time.Second):
		t.Fatal("blocked fiber was never resumed")
	}
}

func TestSchedulerStatsCreatedAndCompleted(t *testing.T) {
	s := newTestScheduler(t, Config{Deterministic: true})

	const n = 5
	var fibers []*fiber.Fiber
	for i := 0; i < n; i++ {
		f, err := s.Spawn(func(f *fiber.Fiber) error { return nil }, 0)
		require.NoError(t, err)
		fibers = append(fibers, f)
	}
	for _, f := range fibers {
		select {
		case <-f.Done():
		case <-time.After(2 * time.Second):
			t.Fatal("fiber never completed")
		}
	}

	require.Eventually(t, func() bool {
		st := s.Stats()
		return st.Created == n && st.Completed == n
	}, time.Second, time.Millisecond)
}

func TestSchedulerRegisterIOEventAndDeliver(t *testing.T) {
	s := newTestScheduler(t, Config{Deterministic: true})

	blocked := make(chan *fiber.Fiber, 1)
	_, err := s.Spawn(func(f *fiber.Fiber) error {
		blocked <- f
		f.Block(&fiber.Effect{Kind: fiber.EffectIO})
		return nil
	}, 0)
	require.NoError(t, err)

	f := <-blocked
	require.Eventually(t, func() bool { return f.State() == fiber.Blocked }, time.Second, time.Millisecond)

	require.NoError(t, s.RegisterIOEvent(42, EventRead, f))

	select {
	case <-f.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("io-registered fiber never completed (reactor never unblocked it)")
	}
}

func TestSchedulerDeterministicSingleWorkerDisablesStealing(t *testing.T) {
	cfg := resolved(Config{Deterministic: true, NumWorkers: 8})
	require.Equal(t, 1, cfg.NumWorkers)
	require.False(t, cfg.EnableStealing)
}
