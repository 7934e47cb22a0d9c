package channel

import (
	"sync/atomic"

	"github.com/pergyralang/sea-runtime/fiber"
)

// Spawner is the subset of asyncscope.Scope a pipeline helper needs: spawn a
// fiber attached to caller and tracked for structured-concurrency cleanup.
// Defined here (rather than importing asyncscope) to avoid a cycle, since
// asyncscope callers are expected to wire this package's helpers against
// their own *asyncscope.Scope, which already satisfies this shape.
type Spawner interface {
	Spawn(caller *fiber.Fiber, routine fiber.Routine, priority int) (*fiber.Fiber, error)
}

// FanIn runs one forwarder fiber per source, each copying values into dst
// until its source closes; dst is closed once every source has (spec.md
// §4.6 "Pipelines, fan-in, fan-out").
func FanIn[T any](scope Spawner, caller *fiber.Fiber, sources []*Channel[T], dst *Channel[T]) error {
	var remaining atomic.Int32
	remaining.Store(int32(len(sources)))
	for _, src := range sources {
		src := src
		if _, err := scope.Spawn(caller, func(f *fiber.Fiber) error {
			for {
				v, r := src.Recv(f)
				if r == CLOSED {
					break
				}
				if r != OK {
					continue
				}
				dst.Send(f, v)
			}
			if remaining.Add(-1) == 0 {
				dst.Close()
			}
			return nil
		}, 0); err != nil {
			return err
		}
	}
	return nil
}

// FanOut runs one forwarder fiber per destination, each pulling from src and
// round-robin distributing to the destinations (spec.md §4.6 "fan-out runs
// one forwarder per destination from one source").
func FanOut[T any](scope Spawner, caller *fiber.Fiber, src *Channel[T], destinations []*Channel[T]) error {
	for _, dst := range destinations {
		dst := dst
		if _, err := scope.Spawn(caller, func(f *fiber.Fiber) error {
			for {
				v, r := src.Recv(f)
				if r == CLOSED {
					dst.Close()
					return nil
				}
				if r != OK {
					continue
				}
				dst.Send(f, v)
			}
		}, 0); err != nil {
			return err
		}
	}
	return nil
}

// Stage is one transform in a Pipeline.
type Stage[T any] func(f *fiber.Fiber, in T) (T, error)

// Pipeline chains stages with buffered channels of capacity bufSize,
// spawning one forwarder fiber per stage (spec.md §4.6 "pipeline chains
// stages[i] with buffered channels of configurable capacity"). It returns
// the final output channel.
func Pipeline[T any](scope Spawner, caller *fiber.Fiber, sched Unblocker, src *Channel[T], stages []Stage[T], bufSize int) (*Channel[T], error) {
	current := src
	for _, stage := range stages {
		stage := stage
		out := New[T](bufSize, sched)
		if _, err := scope.Spawn(caller, func(f *fiber.Fiber) error {
			in := current
			for {
				v, r := in.Recv(f)
				if r == CLOSED {
					out.Close()
					return nil
				}
				if r != OK {
					continue
				}
				transformed, err := stage(f, v)
				if err != nil {
					out.Close()
					return err
				}
				out.Send(f, transformed)
			}
		}, 0); err != nil {
			return nil, err
		}
		current = out
	}
	return current, nil
}
