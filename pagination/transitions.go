package pagination

import (
	"github.com/amp-labs/amp-flux/optional"
	"github.com/amp-labs/amp-flux/statemachine"
)

// Transition is a pagination transition function.
type Transition = statemachine.Transition[State, Action]

// on lifts a function over one concrete (state, action) pair into a
// Transition that returns None for every other pair.
func on[S State, A Action](f func(S, A) State) Transition {
	return func(state State, action Action) optional.Value[State] {
		s, ok := state.(S)
		if !ok {
			return optional.None[State]()
		}

		a, ok := action.(A)
		if !ok {
			return optional.None[State]()
		}

		return optional.Some(f(s, a))
	}
}

// Transitions returns the pagination lifecycle, in priority order. Pairs not
// listed are no-ops; in particular nothing leaves Failed.
func Transitions() []Transition {
	return []Transition{
		// 1
		on(func(Initial, StartLoading) State {
			return LoadingFirstPage{}
		}),
		// 2
		on(func(_ LoadingFirstPage, a LoadingFailed) State {
			return Failed{Err: a.Err}
		}),
		// 3
		on(func(_ LoadingFirstPage, a LoadedThereIsMore) State {
			return Idle{DataSource: a.Page}
		}),
		// 4
		on(func(_ LoadingFirstPage, a LoadedAll) State {
			return Loaded{DataSource: a.Page}
		}),
		// 5
		on(func(s LoadingAdditionalPage, a LoadedThereIsMore) State {
			return Idle{DataSource: s.DataSource.Append(a.Page)}
		}),
		// 6
		on(func(s Idle, _ LoadNextPage) State {
			return LoadingAdditionalPage(s)
		}),
		// 7
		on(func(s LoadingAdditionalPage, a LoadedAll) State {
			return Loaded{DataSource: s.DataSource.Append(a.Page)}
		}),
		// 8
		on(func(_ LoadingAdditionalPage, a LoadingFailed) State {
			return Failed{Err: a.Err}
		}),
		// 9
		on(func(s Idle, _ Reload) State {
			return Reloading(s)
		}),
		// 10: a reload replaces the data source
		on(func(_ Reloading, a LoadedThereIsMore) State {
			return Idle{DataSource: a.Page}
		}),
		// 11
		on(func(s Loaded, _ Reload) State {
			return Reloading(s)
		}),
		// 12
		on(func(_ Reloading, a LoadingFailed) State {
			return Failed{Err: a.Err}
		}),
	}
}

// RecoveryTransitions is Transitions plus two entries that keep a model from
// getting stuck: Retry leaves Failed, and a reload whose first page is also
// the last one settles in Loaded.
func RecoveryTransitions() []Transition {
	return append(Transitions(),
		// 13
		on(func(Failed, Retry) State {
			return LoadingFirstPage{}
		}),
		// 14
		on(func(_ Reloading, a LoadedAll) State {
			return Loaded{DataSource: a.Page}
		}),
	)
}
