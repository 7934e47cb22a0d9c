package party

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pergyralang/sea-runtime/fiber"
	"github.com/stretchr/testify/require"
)

const testTag = "party-dispatch-test"

func TestDispatchParallelJoinAllWaitsForEveryEntry(t *testing.T) {
	sched := newTestScheduler(t)
	RegisterScheduler(testTag, sched)
	t.Cleanup(func() { UnregisterScheduler(testTag) })

	var ran atomic.Int32
	metas := []RoleMeta{
		{RoleID: "a", SchedulerTag: testTag, Fn: func(*Context, Role) error { ran.Add(1); return nil }},
		{RoleID: "b", SchedulerTag: testTag, Fn: func(*Context, Role) error { ran.Add(1); return nil }},
	}
	fm, err := GenerateFiberMap("test_party", nil, metas, false)
	require.NoError(t, err)

	ctx := NewContext(nil, nil)
	var result DispatchResult
	driveFromFiber(t, sched, func(f *fiber.Fiber) {
		result, err = DispatchParallel(f, ctx, fm, JoinAll, nil)
	})
	require.NoError(t, err)
	require.True(t, result.AllSucceeded)
	require.Len(t, result.Results, 2)
	require.EqualValues(t, 2, ran.Load())
}

func TestDispatchParallelJoinAllPropagatesFailure(t *testing.T) {
	sched := newTestScheduler(t)
	RegisterScheduler(testTag, sched)
	t.Cleanup(func() { UnregisterScheduler(testTag) })

	boom := errors.New("boom")
	metas := []RoleMeta{
		{RoleID: "ok", SchedulerTag: testTag, Fn: func(*Context, Role) error { return nil }},
		{RoleID: "bad", SchedulerTag: testTag, Fn: func(*Context, Role) error { return boom }},
	}
	fm, err := GenerateFiberMap("test_party_fail", nil, metas, false)
	require.NoError(t, err)

	ctx := NewContext(nil, nil)
	var result DispatchResult
	driveFromFiber(t, sched, func(f *fiber.Fiber) {
		result, err = DispatchParallel(f, ctx, fm, JoinAll, nil)
	})
	require.NoError(t, err)
	require.False(t, result.AllSucceeded)
}

func TestDispatchParallelJoinRaceWaitsForFirstSuccess(t *testing.T) {
	sched := newTestScheduler(t)
	RegisterScheduler(testTag, sched)
	t.Cleanup(func() { UnregisterScheduler(testTag) })

	boom := errors.New("boom")
	metas := []RoleMeta{
		{RoleID: "fails-fast", SchedulerTag: testTag, Fn: func(*Context, Role) error { return boom }},
		{RoleID: "succeeds", SchedulerTag: testTag, Fn: func(*Context, Role) error { return nil }},
	}
	fm, err := GenerateFiberMap("race_party", nil, metas, false)
	require.NoError(t, err)

	ctx := NewContext(nil, nil)
	var result DispatchResult
	driveFromFiber(t, sched, func(f *fiber.Fiber) {
		result, err = DispatchParallel(f, ctx, fm, JoinRace, nil)
	})
	require.NoError(t, err)
	found := false
	for _, r := range result.Results {
		if r.RoleID == "succeeds" && r.Err == nil {
			found = true
		}
	}
	require.True(t, found)
}

func TestDispatchParallelJoinMajorityNeedsStrictMajority(t *testing.T) {
	sched := newTestScheduler(t)
	RegisterScheduler(testTag, sched)
	t.Cleanup(func() { UnregisterScheduler(testTag) })

	boom := errors.New("boom")
	metas := []RoleMeta{
		{RoleID: "a", SchedulerTag: testTag, Fn: func(*Context, Role) error { return nil }},
		{RoleID: "b", SchedulerTag: testTag, Fn: func(*Context, Role) error { return nil }},
		{RoleID: "c", SchedulerTag: testTag, Fn: func(*Context, Role) error { return boom }},
	}
	fm, err := GenerateFiberMap("majority_party", nil, metas, false)
	require.NoError(t, err)

	ctx := NewContext(nil, nil)
	var result DispatchResult
	driveFromFiber(t, sched, func(f *fiber.Fiber) {
		result, err = DispatchParallel(f, ctx, fm, JoinMajority, nil)
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 3)
}

func TestDispatchParallelJoinAllStopsContinuousEntries(t *testing.T) {
	sched := newTestScheduler(t)
	RegisterScheduler(testTag, sched)
	t.Cleanup(func() { UnregisterScheduler(testTag) })

	var iterations atomic.Int32
	metas := []RoleMeta{
		{RoleID: "oneshot", SchedulerTag: testTag, Fn: func(*Context, Role) error { return nil }},
		{RoleID: "ticker", SchedulerTag: testTag, Continuous: true, Fn: func(*Context, Role) error {
			iterations.Add(1)
			return nil
		}},
	}
	fm, err := GenerateFiberMap("continuous_party", nil, metas, false)
	require.NoError(t, err)

	ctx := NewContext(nil, nil)
	var result DispatchResult
	driveFromFiber(t, sched, func(f *fiber.Fiber) {
		result, err = DispatchParallel(f, ctx, fm, JoinAll, nil)
	})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	require.GreaterOrEqual(t, iterations.Load(), int32(1))
}

func TestDispatchParallelUpdatesFiberStats(t *testing.T) {
	sched := newTestScheduler(t)
	RegisterScheduler(testTag, sched)
	t.Cleanup(func() { UnregisterScheduler(testTag) })

	metas := []RoleMeta{
		{RoleID: "stat-role", SchedulerTag: testTag, Fn: func(*Context, Role) error {
			return nil
		}},
	}
	fm, err := GenerateFiberMap("stats_party", nil, metas, false)
	require.NoError(t, err)

	stats := NewStatsCollector()
	defer stats.Close()

	ctx := NewContext(nil, nil)
	driveFromFiber(t, sched, func(f *fiber.Fiber) {
		_, err = DispatchParallel(f, ctx, fm, JoinAll, stats)
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return stats.Get("stat-role").Count == 1
	}, time.Second, 5*time.Millisecond)
}
