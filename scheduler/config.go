package scheduler

import "github.com/pergyralang/sea-runtime/internal/rconfig"

// Config enumerates scheduler_create's parameters (spec.md §6).
type Config struct {
	// NumWorkers is the worker pool size. 0 autodetects via internal/sysinfo,
	// which resolves container CPU quotas through go.uber.org/automaxprocs
	// rather than a raw runtime.NumCPU() (spec.md §4.4a).
	NumWorkers int `toml:"num_workers"`
	// Deterministic fixes worker count to 1, disables stealing, and seeds a
	// per-instance PRNG for tie-breaks (spec.md §4.4 "Determinism mode").
	Deterministic bool `toml:"deterministic"`
	// RandomSeed seeds the determinism-mode PRNG.
	RandomSeed uint64 `toml:"random_seed"`
	// StackHint is advisory; Go goroutine stacks grow dynamically, so this
	// only influences the initial channel buffer sizing hint in fiber pools.
	StackHint int `toml:"stack_hint"`
	// EnableStealing toggles work-stealing between worker local queues.
	EnableStealing bool `toml:"enable_stealing"`
}

// LoadConfig parses a TOML document at path into a Config, per SPEC_FULL.md
// §6 ("both paths produce the identical scheduler.Config value").
func LoadConfig(path string) (Config, error) {
	return rconfig.LoadFile[Config](path)
}

func resolved(cfg Config) Config {
	if cfg.Deterministic {
		cfg.NumWorkers = 1
		cfg.EnableStealing = false
	} else if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = defaultWorkerCount()
	}
	return cfg
}
