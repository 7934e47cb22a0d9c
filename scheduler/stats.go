package scheduler

import "sync/atomic"

// Stats is the snapshot returned by Scheduler.Stats (spec.md §6
// "scheduler_stats()").
type Stats struct {
	Created        int64
	Completed      int64
	Switches       int64
	StealAttempts  int64
	StealSuccesses int64
	IOEvents       int64
}

type counters struct {
	created        atomic.Int64
	completed      atomic.Int64
	switches       atomic.Int64
	stealAttempts  atomic.Int64
	stealSuccesses atomic.Int64
	ioEvents       atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Created:        c.created.Load(),
		Completed:      c.completed.Load(),
		Switches:       c.switches.Load(),
		StealAttempts:  c.stealAttempts.Load(),
		StealSuccesses: c.stealSuccesses.Load(),
		IOEvents:       c.ioEvents.Load(),
	}
}
