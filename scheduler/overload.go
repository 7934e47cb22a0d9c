package scheduler

import (
	"time"

	"github.com/joeycumines/go-catrate"
)

// overloadTracker classifies spawn bursts through a multi-window rate
// tracker (SPEC_FULL.md §4.4c), exposed read-only via Scheduler.Overloaded.
// It never throttles spawn itself.
type overloadTracker struct {
	limiter *catrate.Limiter
}

func newOverloadTracker() *overloadTracker {
	return &overloadTracker{
		limiter: catrate.NewLimiter(map[time.Duration]int{
			100 * time.Millisecond: 512,
			time.Second:            4096,
		}),
	}
}

// observeSpawn records one spawn event and reports whether the scheduler is
// currently considered overloaded (i.e. the most recent spawn would have
// violated a configured rate window).
func (t *overloadTracker) observeSpawn() bool {
	_, ok := t.limiter.Allow("spawn")
	return !ok
}
