package party

import (
	"context"
	"sync"
	"time"

	"github.com/joeycumines/go-microbatch"
)

// FiberStats is the per-role completion summary spec.md §4.7 step 5 and §6
// "get_fiber_stats" describe: count, total/min/max/avg duration, and error
// count.
type FiberStats struct {
	Count   int64
	TotalNS int64
	MinNS   int64
	MaxNS   int64
	Errors  int64
}

// AvgNS returns the mean duration across recorded completions, or 0 if none.
func (s FiberStats) AvgNS() int64 {
	if s.Count == 0 {
		return 0
	}
	return s.TotalNS / s.Count
}

func (s *FiberStats) observe(durationNS int64, failed bool) {
	if s.Count == 0 || durationNS < s.MinNS {
		s.MinNS = durationNS
	}
	if durationNS > s.MaxNS {
		s.MaxNS = durationNS
	}
	s.TotalNS += durationNS
	s.Count++
	if failed {
		s.Errors++
	}
}

// statCompletion is one dispatch completion awaiting batched merge.
type statCompletion struct {
	roleID     string
	durationNS int64
	failed     bool
}

// StatsCollector accumulates per-role FiberStats, coalescing bursts of
// completions through a micro-batcher so a parallel_for fan-out pays one
// lock acquisition per flush instead of one per completion (SPEC_FULL.md
// §4.7a, github.com/joeycumines/go-microbatch).
type StatsCollector struct {
	mu      sync.Mutex
	byRole  map[string]FiberStats
	batcher *microbatch.Batcher[*statCompletion]
}

// NewStatsCollector starts a StatsCollector with a bounded flush linger
// (default 10ms, per SPEC_FULL.md §4.7a).
func NewStatsCollector() *StatsCollector {
	sc := &StatsCollector{byRole: make(map[string]FiberStats)}
	sc.batcher = microbatch.NewBatcher(&microbatch.BatcherConfig{
		MaxSize:       64,
		FlushInterval: 10 * time.Millisecond,
	}, sc.flush)
	return sc
}

func (sc *StatsCollector) flush(_ context.Context, jobs []*statCompletion) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	for _, j := range jobs {
		s := sc.byRole[j.roleID]
		s.observe(j.durationNS, j.failed)
		sc.byRole[j.roleID] = s
	}
	return nil
}

// Record submits a completion for batched merging into roleID's FiberStats.
func (sc *StatsCollector) Record(roleID string, duration time.Duration, failed bool) {
	_, _ = sc.batcher.Submit(context.Background(), &statCompletion{
		roleID:     roleID,
		durationNS: duration.Nanoseconds(),
		failed:     failed,
	})
}

// Get returns the current FiberStats for roleID (spec.md §6
// "get_fiber_stats(role_id)"). May lag the most recent Record by up to the
// collector's flush interval.
func (sc *StatsCollector) Get(roleID string) FiberStats {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.byRole[roleID]
}

// Close stops the underlying batcher, flushing any pending completions.
func (sc *StatsCollector) Close() error {
	return sc.batcher.Close()
}
