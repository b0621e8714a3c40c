// Package store binds one state machine to a dispatcher.
//
// A Store subscribes to the dispatcher's whole action stream and forwards to
// its machine only the actions of its own family. Narrowing is two-step: the
// family discriminant is compared first, and only a matching action is
// decoded into the machine's action type. Actions of other families are
// dropped at this store without error.
package store

import (
	"context"
	"io"
	"runtime"

	"github.com/amp-labs/amp-flux/dispatcher"
	"github.com/amp-labs/amp-flux/logger"
	"github.com/amp-labs/amp-flux/observable"
	"github.com/amp-labs/amp-flux/statemachine"
	"go.uber.org/atomic"
)

// Outcome labels for storeActions.
const (
	outcomeForwarded = "forwarded"
	outcomeDiscarded = "discarded"
	outcomeUnmatched = "unmatched"
)

// Action is what a Store's machine consumes: a dispatcher action that is also
// a state machine action.
type Action interface {
	dispatcher.Action
	statemachine.Action
}

// Store owns one state machine and one dispatcher subscription. It never
// dispatches on its own.
type Store[S statemachine.State, A Action] struct {
	name         string
	family       dispatcher.Family
	machine      *statemachine.Machine[S, A]
	subscription *dispatcher.Subscription
	closed       *atomic.Bool
	cleanup      runtime.Cleanup
}

var _ io.Closer = (*Store[statemachine.State, Action])(nil)

// New builds the store's machine and subscribes it to d. A nil d means
// dispatcher.Default().
//
// The subscription lasts until Close. If the store becomes unreachable
// without being closed, the subscription is cancelled by a runtime cleanup so
// the dispatcher does not keep a dead listener forever.
func New[S statemachine.State, A Action](
	d *dispatcher.Dispatcher,
	family dispatcher.Family,
	initial S,
	transitions []statemachine.Transition[S, A],
	opts ...Option,
) *Store[S, A] {
	if d == nil {
		d = dispatcher.Default()
	}

	options := &options{
		name: string(family),
	}

	for _, opt := range opts {
		opt(options)
	}

	machineOpts := append([]statemachine.Option{statemachine.WithName(options.name)}, options.machineOpts...)
	machine := statemachine.New(initial, transitions, machineOpts...)

	name := options.name

	// The handler must not capture the Store itself, otherwise the
	// dispatcher would keep it reachable and the cleanup below never runs.
	sub := d.Subscribe(func(ctx context.Context, action dispatcher.Action) {
		forward(ctx, name, family, machine, action)
	})

	s := &Store[S, A]{
		name:         name,
		family:       family,
		machine:      machine,
		subscription: sub,
		closed:       atomic.NewBool(false),
	}

	s.cleanup = runtime.AddCleanup(s, func(sub *dispatcher.Subscription) {
		sub.Cancel()
	}, sub)

	storeActions.WithLabelValues(name, outcomeForwarded).Add(0)
	storeActions.WithLabelValues(name, outcomeDiscarded).Add(0)
	storeActions.WithLabelValues(name, outcomeUnmatched).Add(0)

	logger.Get().Debug("Store subscribed",
		"store", name,
		"family", string(family),
		"subscription", sub.ID().String())

	return s
}

// forward narrows a broadcast action to A and applies it.
func forward[S statemachine.State, A Action](
	ctx context.Context,
	name string,
	family dispatcher.Family,
	machine *statemachine.Machine[S, A],
	action dispatcher.Action,
) {
	if action.Family() != family {
		storeActions.WithLabelValues(name, outcomeDiscarded).Inc()

		return
	}

	narrowed, ok := action.(A)
	if !ok {
		// Right family tag, wrong type: a mislabelled action from some other
		// package. Treat it like any foreign action.
		storeActions.WithLabelValues(name, outcomeDiscarded).Inc()

		logger.Get(ctx).Warn("Action claims store family but has foreign type",
			"store", name,
			"family", string(family),
			"action", action.Name())

		return
	}

	if machine.Apply(ctx, narrowed) {
		storeActions.WithLabelValues(name, outcomeForwarded).Inc()
	} else {
		storeActions.WithLabelValues(name, outcomeUnmatched).Inc()
	}
}

// Name returns the store's name (the family unless overridden).
func (s *Store[S, A]) Name() string {
	return s.name
}

// Family returns the action family this store accepts.
func (s *Store[S, A]) Family() dispatcher.Family {
	return s.family
}

// State returns the machine's current state.
func (s *Store[S, A]) State() S { //nolint:ireturn
	return s.machine.State()
}

// CurrentState returns a read-only view of the machine's current state.
func (s *Store[S, A]) CurrentState() observable.Observable[S] { //nolint:ireturn
	return s.machine.CurrentState()
}

// Close releases the dispatcher subscription. It is safe to call more than once.
func (s *Store[S, A]) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.cleanup.Stop()
	s.subscription.Cancel()

	logger.Get().Debug("Store closed", "store", s.name)

	return nil
}
