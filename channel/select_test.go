package channel

import (
	"testing"

	"github.com/pergyralang/sea-runtime/fiber"
	"github.com/stretchr/testify/require"
)

func TestSelectPicksReadyCaseWithoutBlocking(t *testing.T) {
	sched := newTestScheduler(t)
	a := New[int](1, sched)
	b := New[int](1, sched)
	require.Equal(t, OK, a.TrySend(42))

	driveFromFiber(t, sched, func(f *fiber.Fiber) {
		idx, v, r := Select(f, []Case[int]{
			{Op: RecvOp, Ch: b},
			{Op: RecvOp, Ch: a},
		})
		require.Equal(t, 1, idx)
		require.Equal(t, 42, v)
		require.Equal(t, OK, r)
	})
}

func TestSelectTakesDefaultWhenNothingReady(t *testing.T) {
	sched := newTestScheduler(t)
	a := New[int](1, sched)

	driveFromFiber(t, sched, func(f *fiber.Fiber) {
		idx, _, r := Select(f, []Case[int]{
			{Op: RecvOp, Ch: a},
			{Op: DefaultOp},
		})
		require.Equal(t, 1, idx)
		require.Equal(t, OK, r)
	})
}

func TestSelectBlocksThenWinsOnSend(t *testing.T) {
	sched := newTestScheduler(t)
	a := New[int](0, sched)

	senderDone := make(chan struct{})
	_, err := sched.Spawn(func(f *fiber.Fiber) error {
		a.Send(f, 7)
		close(senderDone)
		return nil
	}, 0)
	require.NoError(t, err)

	driveFromFiber(t, sched, func(f *fiber.Fiber) {
		idx, v, r := Select(f, []Case[int]{
			{Op: RecvOp, Ch: a},
		})
		require.Equal(t, 0, idx)
		require.Equal(t, 7, v)
		require.Equal(t, OK, r)
	})
	<-senderDone
}
