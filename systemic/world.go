package systemic

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pergyralang/sea-runtime/fiber"
	"github.com/pergyralang/sea-runtime/scheduler"
)

// World is an ordered list of systemics plus a frame counter and start time
// (spec.md §4.8 "A world is an ordered list of systemics plus a frame
// counter and start time").
type World struct {
	Systemics []*Systemic

	startTime time.Time
	frame     atomic.Int64

	mu      sync.Mutex
	history []FrameResult
}

// NewWorld constructs a World over systemics, recording the construction
// time as the world's start time.
func NewWorld(systemics []*Systemic) *World {
	return &World{Systemics: systemics, startTime: time.Now()}
}

// FrameResult is one world frame's outcome: per-systemic results plus frame
// time (spec.md §4.8 "A world frame executes each systemic and returns
// per-systemic results plus frame time").
type FrameResult struct {
	Frame     int64
	Systemics []SystemicResult
	Duration  time.Duration
}

// RunFrame executes every systemic in World order under caller, recording
// the frame in the world's retained history (bounded to the last 64 frames,
// consulted by Statistics).
func (w *World) RunFrame(caller *fiber.Fiber) FrameResult {
	frame := w.frame.Add(1)
	start := time.Now()

	results := make([]SystemicResult, len(w.Systemics))
	for i, sys := range w.Systemics {
		results[i] = sys.Execute(caller)
	}

	fr := FrameResult{Frame: frame, Systemics: results, Duration: time.Since(start)}

	w.mu.Lock()
	w.history = append(w.history, fr)
	if len(w.history) > 64 {
		w.history = w.history[len(w.history)-64:]
	}
	w.mu.Unlock()

	return fr
}

// FrameCount returns the number of frames executed so far.
func (w *World) FrameCount() int64 { return w.frame.Load() }

// StartTime returns when the world was constructed.
func (w *World) StartTime() time.Time { return w.startTime }

// RunLoop drives RunFrame at a target cadence, optionally sleeping to
// maintain it, invoking onFrameStart/onFrameEnd around each frame (spec.md
// §4.8 "A world loop runs frames at a target nanosecond period, optionally
// sleeping to maintain cadence, invoking user-supplied on_frame_start/end
// callbacks"). Sleeping between frames is a suspension point implemented the
// same way party's periodic dispatch sleeps a fiber (Block + a timer that
// Unblocks it), since caller must not perform a raw blocking sleep from
// within its own fiber routine. The loop exits once stop is closed or
// maxFrames frames have run (maxFrames <= 0 means unbounded).
func (w *World) RunLoop(caller *fiber.Fiber, sched *scheduler.Scheduler, targetPeriod time.Duration, maxFrames int, stop <-chan struct{}, onFrameStart, onFrameEnd func(FrameResult)) {
	for maxFrames <= 0 || int(w.frame.Load()) < maxFrames {
		select {
		case <-stop:
			return
		default:
		}

		if onFrameStart != nil {
			onFrameStart(FrameResult{Frame: w.frame.Load() + 1})
		}

		frameStart := time.Now()
		fr := w.RunFrame(caller)

		if onFrameEnd != nil {
			onFrameEnd(fr)
		}

		if targetPeriod > 0 {
			elapsed := time.Since(frameStart)
			if remaining := targetPeriod - elapsed; remaining > 0 {
				sleepFiber(caller, sched, remaining)
			}
		} else {
			caller.Yield()
		}
	}
}

// sleepFiber parks caller on a timer-backed Effect, mirroring
// party's AsyncSleep suspension point (spec.md §5).
func sleepFiber(f *fiber.Fiber, sched *scheduler.Scheduler, duration time.Duration) {
	effect := &fiber.Effect{Kind: fiber.EffectTimer}
	timer := time.AfterFunc(duration, func() {
		sched.Unblock(f)
	})
	defer timer.Stop()
	f.Block(effect)
}

// History returns a snapshot of the most recently retained frame results,
// oldest first.
func (w *World) History() []FrameResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]FrameResult, len(w.history))
	copy(out, w.history)
	return out
}
