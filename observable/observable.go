// Package observable provides a minimal observable value: a cell that can be
// read at any time and that notifies subscribers on every write.
//
// It has no dependency on any UI framework. A presentation layer adapts it to
// its own rendering loop, typically through Updates.
package observable

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/amp-labs/amp-flux/channels"
	"github.com/amp-labs/amp-flux/logger"
	"github.com/google/uuid"
)

// Observable is the read-only view of a Value.
type Observable[T any] interface {
	// Get returns the current value.
	Get() T

	// Subscribe registers fn to be called with every value written from now
	// on. The returned function removes the subscription; calling it more
	// than once is harmless.
	Subscribe(fn func(T)) (unsubscribe func())

	// Updates streams every value written after the call until ctx is done,
	// at which point the channel is closed. Delivery never blocks the writer.
	Updates(ctx context.Context) <-chan T
}

type subscriber[T any] struct {
	id uuid.UUID
	fn func(T)
}

// Value is a mutable cell. Only its owner should hold a *Value; everyone
// else receives it as an Observable.
type Value[T any] struct {
	mu          sync.RWMutex
	current     T
	subscribers []subscriber[T]
}

var _ Observable[int] = (*Value[int])(nil)

// New creates a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

// Get returns the current value.
func (v *Value[T]) Get() T { //nolint:ireturn
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.current
}

// Set stores value and synchronously notifies every subscriber, in
// subscription order, on the calling goroutine. Subscribers are notified even
// when value equals the previous one. A panicking subscriber is logged and
// the remaining ones are still notified.
func (v *Value[T]) Set(value T) {
	v.mu.Lock()
	v.current = value
	subs := v.subscribers
	v.mu.Unlock()

	for _, s := range subs {
		s.notify(value)
	}
}

func (s subscriber[T]) notify(value T) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Error("observable subscriber panicked",
				"subscription", s.id.String(),
				"error", r,
				"stack", string(debug.Stack()))
		}
	}()

	s.fn(value)
}

// Subscribe implements Observable.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	id := uuid.New()

	v.mu.Lock()
	// Copy on write so Set can iterate a snapshot without holding the lock.
	next := make([]subscriber[T], 0, len(v.subscribers)+1)
	next = append(next, v.subscribers...)
	v.subscribers = append(next, subscriber[T]{id: id, fn: fn})
	v.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() { v.unsubscribe(id) })
	}
}

func (v *Value[T]) unsubscribe(id uuid.UUID) {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := make([]subscriber[T], 0, len(v.subscribers))

	for _, s := range v.subscribers {
		if s.id != id {
			next = append(next, s)
		}
	}

	v.subscribers = next
}

// Subscribers returns the number of active subscriptions.
func (v *Value[T]) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return len(v.subscribers)
}

// Updates implements Observable.
func (v *Value[T]) Updates(ctx context.Context) <-chan T {
	w, r, _ := channels.Create[T](channels.Unbounded)

	var mu sync.Mutex

	closed := false

	unsubscribe := v.Subscribe(func(value T) {
		mu.Lock()
		defer mu.Unlock()

		if !closed {
			w <- value
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribe()

		mu.Lock()
		closed = true
		channels.CloseChannelIgnorePanic(w)
		mu.Unlock()
	}()

	return r
}
