// Package dispatcher provides the action bus: a synchronous broadcast point
// that decouples the code producing actions from the stores consuming them.
//
// Every action names the family it belongs to. A store subscribes to the
// whole stream and keeps only actions of its own family, so many state
// machines can share one dispatcher without seeing each other's actions.
package dispatcher

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/amp-labs/amp-flux/logger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Family is the discriminant shared by all actions of one state machine.
type Family string

// Action is an intent or event. Actions carry data, never behavior.
type Action interface {
	// Family names the action family (one per state machine).
	Family() Family
	// Name identifies the action variant within its family.
	Name() string
}

// Handler receives dispatched actions.
type Handler func(ctx context.Context, action Action)

type subscriber struct {
	id      uuid.UUID
	handler Handler
}

// Dispatcher broadcasts actions to its subscribers. The zero value is not
// usable; call New or Default.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers []*subscriber
}

// New creates an independent dispatcher. Tests use this instead of Default to
// avoid sharing global state.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Default returns the process-wide dispatcher, creating it on first use. It
// lives for the lifetime of the process.
var Default = sync.OnceValue(New) //nolint:gochecknoglobals

// Dispatch delivers action to every current subscriber, in the order they
// subscribed, and returns once the last one has returned. A slow subscriber
// delays the ones after it. Dispatching with no subscribers is fine.
//
// Subscriptions added or cancelled by a subscriber during delivery take
// effect from the next Dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, action Action) {
	if action == nil {
		return
	}

	d.mu.RLock()
	subs := d.subscribers
	d.mu.RUnlock()

	family := string(action.Family())

	ctx, span := otel.Tracer("dispatcher").Start(ctx, "dispatcher.dispatch")
	span.SetAttributes(
		attribute.String("action.family", family),
		attribute.String("action.name", action.Name()),
		attribute.Int("subscribers", len(subs)),
	)

	defer span.End()

	actionsDispatched.WithLabelValues(family).Inc()

	logger.Get(ctx).Debug("Dispatching action",
		"family", family,
		"action", action.Name(),
		"subscribers", len(subs))

	for _, sub := range subs {
		d.deliver(ctx, sub, action)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, sub *subscriber, action Action) {
	defer func() {
		if r := recover(); r != nil {
			subscriberPanics.WithLabelValues(string(action.Family())).Inc()

			logger.Get(ctx).Error("dispatcher subscriber panicked",
				"subscription", sub.id.String(),
				"family", string(action.Family()),
				"action", action.Name(),
				"error", r,
				"stack", string(debug.Stack()))
		}
	}()

	sub.handler(ctx, action)
}

// Subscribe registers handler for every action dispatched from now on.
// Actions dispatched before the call are not replayed.
func (d *Dispatcher) Subscribe(handler Handler) *Subscription {
	sub := &subscriber{
		id:      uuid.New(),
		handler: handler,
	}

	d.mu.Lock()
	// Copy on write: an in-flight Dispatch keeps iterating its own snapshot.
	next := make([]*subscriber, 0, len(d.subscribers)+1)
	next = append(next, d.subscribers...)
	d.subscribers = append(next, sub)
	count := len(d.subscribers)
	d.mu.Unlock()

	subscribers.Inc()

	logger.Get().Debug("Dispatcher subscription added",
		"subscription", sub.id.String(),
		"subscribers", count)

	return &Subscription{dispatcher: d, sub: sub}
}

// Len returns the number of current subscribers.
func (d *Dispatcher) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.subscribers)
}

func (d *Dispatcher) remove(sub *subscriber) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := make([]*subscriber, 0, len(d.subscribers))
	found := false

	for _, s := range d.subscribers {
		if s == sub {
			found = true

			continue
		}

		next = append(next, s)
	}

	d.subscribers = next

	return found
}

// Subscription is a live registration on a Dispatcher.
type Subscription struct {
	dispatcher *Dispatcher
	sub        *subscriber
	once       sync.Once
}

// ID identifies the subscription in logs.
func (s *Subscription) ID() uuid.UUID {
	return s.sub.id
}

// Cancel removes the subscription. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		if s.dispatcher.remove(s.sub) {
			subscribers.Dec()

			logger.Get().Debug("Dispatcher subscription cancelled",
				"subscription", s.sub.id.String())
		}
	})
}
