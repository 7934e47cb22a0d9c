package party

import (
	"testing"
	"time"

	"github.com/pergyralang/sea-runtime/fiber"
	"github.com/pergyralang/sea-runtime/scheduler"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *scheduler.Scheduler {
	t.Helper()
	s, err := scheduler.New(scheduler.Config{Deterministic: true})
	require.NoError(t, err)
	t.Cleanup(s.Stop)
	return s
}

func driveFromFiber(t *testing.T, sched *scheduler.Scheduler, body func(f *fiber.Fiber)) {
	t.Helper()
	done := make(chan struct{})
	_, err := sched.Spawn(func(f *fiber.Fiber) error {
		body(f)
		close(done)
		return nil
	}, 0)
	require.NoError(t, err)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("driver fiber never completed")
	}
}

type testRole struct {
	name      string
	abilities []string
}

func (r testRole) Abilities() []string { return r.abilities }
