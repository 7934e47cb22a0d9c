package scheduler

import "github.com/pergyralang/sea-runtime/internal/rlog"

// schedOptions mirrors the teacher's eventloop.loopOptions pattern
// (eventloop/options.go): an unexported config struct resolved from a slice
// of functional options.
type schedOptions struct {
	logger rlog.Logger
	poller Poller
}

// Option configures a Scheduler at construction time.
type Option interface {
	apply(*schedOptions)
}

type optionFunc func(*schedOptions)

func (f optionFunc) apply(o *schedOptions) { f(o) }

// WithLogger sets the structured logger used for scheduler diagnostics.
func WithLogger(l rlog.Logger) Option {
	return optionFunc(func(o *schedOptions) { o.logger = l })
}

// WithPoller overrides the platform-default Poller, primarily for tests
// that want a fake/portable reactor backend regardless of GOOS.
func WithPoller(p Poller) Option {
	return optionFunc(func(o *schedOptions) { o.poller = p })
}

func resolveOptions(opts []Option) *schedOptions {
	o := &schedOptions{logger: rlog.NoOp()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(o)
	}
	return o
}
