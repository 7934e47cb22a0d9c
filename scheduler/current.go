package scheduler

import (
	"sync/atomic"

	"github.com/pergyralang/sea-runtime/fiber"
)

// currentRegistry tracks which fiber each worker is currently running. Go
// exposes no goroutine-local storage, so "current_fiber()" (spec.md §6) is
// indexed by worker id rather than by the calling goroutine's identity;
// worker bodies know their own id and can query it directly.
type currentRegistry struct {
	slots []atomic.Pointer[fiber.Fiber]
}

func (r *currentRegistry) init(n int) {
	r.slots = make([]atomic.Pointer[fiber.Fiber], n)
}

func (r *currentRegistry) set(workerID int, f *fiber.Fiber) {
	r.slots[workerID].Store(f)
}

func (r *currentRegistry) get(workerID int) *fiber.Fiber {
	if workerID < 0 || workerID >= len(r.slots) {
		return nil
	}
	return r.slots[workerID].Load()
}

// active is the process-wide "current_scheduler()" (spec.md §6): the most
// recently constructed Scheduler. Most hosts run exactly one Scheduler per
// process; multi-scheduler hosts should prefer holding their own reference
// instead of this global.
var active atomic.Pointer[Scheduler]

// Current returns the most recently constructed Scheduler, or nil if none
// has been created yet.
func Current() *Scheduler { return active.Load() }
