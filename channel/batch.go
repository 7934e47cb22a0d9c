package channel

import (
	"context"

	"github.com/joeycumines/go-longpoll"
)

// DrainBatch receives up to cfg.MaxSize values from ch, waiting at least
// cfg.MinSize or until cfg.PartialTimeout, honoring ctx cancellation
// (SPEC_FULL.md §4.6a, adapted from github.com/joeycumines/go-longpoll's
// Channel function). cfg may be nil for the package's documented defaults.
// Returns io.EOF once ch is closed and drained, matching longpoll.Channel.
func DrainBatch[T any](ctx context.Context, ch *Channel[T], cfg *longpoll.ChannelConfig, handler func(value T) error) error {
	native := make(chan T)
	go func() {
		defer close(native)
		for {
			v, r := ch.RecvBlocking(ctx)
			if r != OK {
				return
			}
			select {
			case native <- v:
			case <-ctx.Done():
				return
			}
		}
	}()
	return longpoll.Channel(ctx, cfg, native, handler)
}
