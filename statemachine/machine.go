// Package statemachine provides a generic deterministic finite-state machine
// driven by an ordered list of transition functions.
//
// Resolution is first match wins: the list is scanned in order and the first
// function that returns a state decides the transition. Later functions that
// would also match are never consulted, so a broad entry placed early
// silently shadows narrower entries after it. The list is not validated for
// exhaustiveness or conflicts; an unmatched (state, action) pair is a no-op.
package statemachine

import (
	"context"
	"slices"
	"time"

	"github.com/amp-labs/amp-flux/observable"
	"go.opentelemetry.io/otel/attribute"
)

// Metric outcome constants.
const (
	outcomeMatched   = "matched"
	outcomeUnmatched = "unmatched"
)

// Machine holds the current state and the fixed transition list. It is not
// safe for concurrent Apply calls; callers serialize them (see package loop).
// Reading the current state is safe from any goroutine.
type Machine[S State, A Action] struct {
	name        string
	transitions []Transition[S, A]
	current     *observable.Value[S]
	logger      Logger
}

// New creates a machine in the initial state. The transition list is copied,
// so later changes to the caller's slice have no effect.
func New[S State, A Action](initial S, transitions []Transition[S, A], opts ...Option) *Machine[S, A] {
	options := &options{
		name: defaultName,
	}

	for _, opt := range opts {
		opt(options)
	}

	return &Machine[S, A]{
		name:        options.name,
		transitions: slices.Clone(transitions),
		current:     observable.New(initial),
		logger:      options.logger,
	}
}

// Resolve runs the first-match scan without touching any machine. It returns
// the next state, the index of the transition that produced it, and whether
// any transition matched. For a fixed list the result depends only on
// (state, action).
func Resolve[S State, A Action](transitions []Transition[S, A], state S, action A) (S, int, bool) { //nolint:ireturn
	for i, transition := range transitions {
		if next, ok := transition(state, action).Get(); ok {
			return next, i, true
		}
	}

	var zero S

	return zero, -1, false
}

// Apply feeds action through the transition list. If a transition matches,
// its state is committed and published to observers (even when it equals the
// previous state) and Apply returns true. Otherwise the state is left alone,
// nothing is published, and Apply returns false.
func (m *Machine[S, A]) Apply(ctx context.Context, action A) bool {
	from := m.current.Get()

	ctx, span := startApplySpan(ctx, m.name, from.Name(), action.Name())
	defer span.End()

	start := time.Now()
	next, index, ok := Resolve(m.transitions, from, action)

	if !ok {
		span.SetAttributes(attribute.Bool("matched", false))

		unmatchedTotal.WithLabelValues(m.name, from.Name(), action.Name()).Inc()
		applyDuration.WithLabelValues(m.name, outcomeUnmatched).Observe(time.Since(start).Seconds())

		if m.logger != nil {
			m.logger.TransitionUnmatched(ctx, m.name, from.Name(), action.Name())
		}

		return false
	}

	span.SetAttributes(
		attribute.Bool("matched", true),
		attribute.String("to", next.Name()),
		attribute.Int("transition_index", index),
	)

	m.current.Set(next)

	transitionTotal.WithLabelValues(m.name, from.Name(), next.Name(), action.Name()).Inc()
	applyDuration.WithLabelValues(m.name, outcomeMatched).Observe(time.Since(start).Seconds())

	if m.logger != nil {
		m.logger.TransitionExecuted(ctx, m.name, from.Name(), next.Name(), action.Name(), index)
	}

	return true
}

// State returns the current state.
func (m *Machine[S, A]) State() S { //nolint:ireturn
	return m.current.Get()
}

// CurrentState returns a read-only view of the current state. Every commit
// is published to its subscribers.
func (m *Machine[S, A]) CurrentState() observable.Observable[S] { //nolint:ireturn
	return m.current
}

// Name returns the machine's name.
func (m *Machine[S, A]) Name() string {
	return m.name
}
