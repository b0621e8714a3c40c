package statemachine

import "github.com/amp-labs/amp-flux/optional"

// State is a point in a machine's lifecycle. Implementations are plain data;
// Name identifies the variant for logs and metrics.
type State interface {
	Name() string
}

// Action is an input to a machine. Implementations are plain data.
type Action interface {
	Name() string
}

// Transition maps a (state, action) pair to the next state, or to None when
// it does not apply to the pair. Transitions must be pure: they compute a
// value and never update anything themselves.
type Transition[S State, A Action] func(state S, action A) optional.Value[S]
