package statemachine

import (
	"context"
	"testing"

	"github.com/amp-labs/amp-flux/logger"
	"github.com/amp-labs/amp-flux/optional"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A small door machine: closed <-> open, closed <-> locked.
type doorState string

func (s doorState) Name() string { return string(s) }

type doorAction string

func (a doorAction) Name() string { return string(a) }

const (
	closed doorState = "closed"
	open   doorState = "open"
	locked doorState = "locked"

	push   doorAction = "push"
	pull   doorAction = "pull"
	lock   doorAction = "lock"
	unlock doorAction = "unlock"
)

func edge(from doorState, on doorAction, to doorState) Transition[doorState, doorAction] {
	return func(s doorState, a doorAction) optional.Value[doorState] {
		if s == from && a == on {
			return optional.Some(to)
		}

		return optional.None[doorState]()
	}
}

func doorTransitions() []Transition[doorState, doorAction] {
	return []Transition[doorState, doorAction]{
		edge(closed, push, open),
		edge(open, pull, closed),
		edge(closed, lock, locked),
		edge(locked, unlock, closed),
	}
}

func TestApplyFollowsTransitions(t *testing.T) {
	t.Parallel()

	m := New(closed, doorTransitions(), WithName("door-basic"))

	assert.Equal(t, closed, m.State())
	assert.True(t, m.Apply(t.Context(), push))
	assert.Equal(t, open, m.State())
	assert.True(t, m.Apply(t.Context(), pull))
	assert.True(t, m.Apply(t.Context(), lock))
	assert.Equal(t, locked, m.State())
	assert.Equal(t, "door-basic", m.Name())
}

func TestResolveIsDeterministic(t *testing.T) {
	t.Parallel()

	transitions := doorTransitions()

	states := []doorState{closed, open, locked}
	actions := []doorAction{push, pull, lock, unlock}

	// Resolve the full grid twice, the second time after driving a machine
	// around; results must not depend on history.
	first := map[[2]string]optional.Value[doorState]{}

	for _, s := range states {
		for _, a := range actions {
			next, _, ok := Resolve(transitions, s, a)
			first[[2]string{s.Name(), a.Name()}] = optional.Of(next, ok)
		}
	}

	m := New(closed, transitions)
	for _, a := range []doorAction{push, pull, lock, unlock, push} {
		m.Apply(t.Context(), a)
	}

	for _, s := range states {
		for _, a := range actions {
			next, _, ok := Resolve(transitions, s, a)
			assert.Equal(t, first[[2]string{s.Name(), a.Name()}], optional.Of(next, ok))
		}
	}
}

func TestFirstMatchWins(t *testing.T) {
	t.Parallel()

	calls := 0
	later := func(s doorState, a doorAction) optional.Value[doorState] {
		calls++

		return optional.Some(locked)
	}

	transitions := []Transition[doorState, doorAction]{
		edge(closed, push, open),
		later, // overlaps with the entry above for (closed, push)
	}

	next, index, ok := Resolve(transitions, closed, push)
	require.True(t, ok)
	assert.Equal(t, open, next)
	assert.Equal(t, 0, index)
	assert.Equal(t, 0, calls, "shadowed transition must not be consulted")

	m := New(closed, transitions)
	m.Apply(t.Context(), push)
	assert.Equal(t, open, m.State())
	assert.Equal(t, 0, calls)

	// Once the first entry no longer matches, the second one is reached.
	m.Apply(t.Context(), pull)
	assert.Equal(t, locked, m.State())
	assert.Equal(t, 1, calls)
}

func TestUnmatchedIsNoOp(t *testing.T) {
	t.Parallel()

	m := New(locked, doorTransitions())

	published := 0
	unsubscribe := m.CurrentState().Subscribe(func(doorState) { published++ })
	t.Cleanup(unsubscribe)

	assert.False(t, m.Apply(t.Context(), push))
	assert.False(t, m.Apply(t.Context(), pull))
	assert.Equal(t, locked, m.State())
	assert.Equal(t, 0, published)
}

func TestEveryCommitIsPublished(t *testing.T) {
	t.Parallel()

	stay := edge(open, push, open)
	m := New(closed, append(doorTransitions(), stay))

	var seen []doorState

	unsubscribe := m.CurrentState().Subscribe(func(s doorState) { seen = append(seen, s) })
	t.Cleanup(unsubscribe)

	m.Apply(t.Context(), push)
	m.Apply(t.Context(), push) // open -> open still publishes

	assert.Equal(t, []doorState{open, open}, seen)
}

func TestTransitionListIsCopied(t *testing.T) {
	t.Parallel()

	transitions := doorTransitions()
	m := New(closed, transitions)

	transitions[0] = edge(closed, push, locked)

	m.Apply(t.Context(), push)
	assert.Equal(t, open, m.State())
}

func TestEmptyTransitionList(t *testing.T) {
	t.Parallel()

	m := New[doorState, doorAction](closed, nil)

	assert.False(t, m.Apply(t.Context(), push))
	assert.Equal(t, closed, m.State())
}

type recordingLogger struct {
	executed  []string
	unmatched []string
}

func (r *recordingLogger) TransitionExecuted(_ context.Context, _, from, to, action string, _ int) {
	r.executed = append(r.executed, from+"-"+action+"->"+to)
}

func (r *recordingLogger) TransitionUnmatched(_ context.Context, _, state, action string) {
	r.unmatched = append(r.unmatched, state+"-"+action)
}

func TestLoggerHooks(t *testing.T) {
	t.Parallel()

	rec := &recordingLogger{}
	m := New(closed, doorTransitions(), WithLogger(rec))

	m.Apply(t.Context(), push)
	m.Apply(t.Context(), lock)

	assert.Equal(t, []string{"closed-push->open"}, rec.executed)
	assert.Equal(t, []string{"open-lock"}, rec.unmatched)
}

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	ctx := logger.WithLogger(t.Context(), slogt.New(t))
	m := New(closed, doorTransitions(), WithLogger(NewDefaultLogger()))

	assert.NotPanics(t, func() {
		m.Apply(ctx, push)
		m.Apply(ctx, lock)
	})
}
