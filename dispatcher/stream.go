package dispatcher

import (
	"context"
	"iter"
	"sync"

	"github.com/amp-labs/amp-flux/channels"
)

// Actions returns a lazy sequence of dispatched actions. Nothing is
// subscribed until the sequence is ranged over; each range subscribes afresh,
// sees only actions dispatched after it started, and unsubscribes when the
// loop exits or ctx is done.
//
// Unlike Subscribe handlers, a ranging consumer runs on its own goroutine, so
// Dispatch does not wait for it.
func (d *Dispatcher) Actions(ctx context.Context) iter.Seq[Action] {
	return func(yield func(Action) bool) {
		w, r, _ := channels.Create[Action](channels.Unbounded)

		var (
			mu     sync.Mutex
			closed bool
		)

		sub := d.Subscribe(func(_ context.Context, action Action) {
			mu.Lock()
			defer mu.Unlock()

			if !closed {
				w <- action
			}
		})

		defer func() {
			sub.Cancel()

			mu.Lock()
			closed = true
			channels.CloseChannelIgnorePanic(w)
			mu.Unlock()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case action, ok := <-r:
				if !ok || !yield(action) {
					return
				}
			}
		}
	}
}
