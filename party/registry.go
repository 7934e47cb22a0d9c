package party

import (
	"sync"

	"github.com/pergyralang/sea-runtime/scheduler"
)

// schedulerRegistry maps scheduler tags to schedulers, so FiberMapEntry
// dispatch can "look up the scheduler for its tag (registered or built-in
// default)" per spec.md §4.7 step 2.
var schedulerRegistry = struct {
	mu sync.RWMutex
	m  map[string]*scheduler.Scheduler
}{m: make(map[string]*scheduler.Scheduler)}

// RegisterScheduler associates tag with sched for subsequent dispatches. An
// empty tag registers the built-in default, overriding scheduler.Current().
func RegisterScheduler(tag string, sched *scheduler.Scheduler) {
	schedulerRegistry.mu.Lock()
	defer schedulerRegistry.mu.Unlock()
	schedulerRegistry.m[tag] = sched
}

// UnregisterScheduler removes any scheduler registered under tag.
func UnregisterScheduler(tag string) {
	schedulerRegistry.mu.Lock()
	defer schedulerRegistry.mu.Unlock()
	delete(schedulerRegistry.m, tag)
}

// schedulerForTag resolves tag to a registered scheduler, falling back to
// the package-level default (scheduler.Current()) when unregistered.
func schedulerForTag(tag string) *scheduler.Scheduler {
	schedulerRegistry.mu.RLock()
	sched, ok := schedulerRegistry.m[tag]
	schedulerRegistry.mu.RUnlock()
	if ok {
		return sched
	}
	return scheduler.Current()
}
