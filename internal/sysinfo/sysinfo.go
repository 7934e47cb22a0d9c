// Package sysinfo resolves container/cgroup-aware resource defaults for the
// scheduler (worker count) and the slot manager's memory pool (block-map
// capacity), instead of reading raw runtime.NumCPU()/a hardcoded byte count.
package sysinfo

import (
	"runtime"
	"sync"

	"github.com/KimMachineGun/automemlimit/memlimit"
	"github.com/pbnjay/memory"
	"go.uber.org/automaxprocs/maxprocs"
)

var once sync.Once

// init runs once, best-effort: it tunes GOMAXPROCS and GOMEMLIMIT for the
// process based on cgroup quotas (containers), falling back silently to
// whatever the Go runtime already picked when no cgroup is present.
func tune() {
	once.Do(func() {
		_, _ = maxprocs.Set()
		_, _ = memlimit.SetGoMemLimitWithOpts(memlimit.WithRatio(0.9))
	})
}

// Workers returns the default worker-thread count for scheduler.Config when
// NumWorkers is left at 0: GOMAXPROCS after container-quota tuning.
func Workers() int {
	tune()
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		n = 1
	}
	return n
}

// MemoryBudgetBytes returns a best-effort total memory figure used to size
// the slot manager's memory pool block-map default capacity. It prefers the
// cgroup/GOMEMLIMIT-aware figure tuned by Workers/tune, falling back to
// github.com/pbnjay/memory's host-level detection when no limit is set.
func MemoryBudgetBytes() uint64 {
	tune()
	if total := memory.TotalMemory(); total > 0 {
		return total
	}
	// conservative fallback when the host memory size cannot be determined
	return 512 * 1024 * 1024
}

// DefaultPoolBlocks derives a reasonable default slot-pool block count from
// MemoryBudgetBytes, reserving at most reserveFraction (e.g. 1/1024th) of the
// detected memory for the slot manager's arena, at blockSize bytes/block.
func DefaultPoolBlocks(blockSize int, reserveFraction uint64) int {
	if blockSize <= 0 {
		blockSize = 64
	}
	if reserveFraction == 0 {
		reserveFraction = 1024
	}
	budget := MemoryBudgetBytes() / reserveFraction
	blocks := int(budget / uint64(blockSize))
	if blocks < 1024 {
		blocks = 1024
	}
	return blocks
}
