package statemachine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric definitions with appropriate labels.
var (
	// transitionTotal tracks committed transitions.
	transitionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statemachine_transitions_total",
		Help: "Total number of state transitions by machine, from_state, to_state, and action",
	}, []string{"machine", "from_state", "to_state", "action"})

	// unmatchedTotal tracks actions that no transition handled.
	unmatchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "statemachine_unmatched_total",
		Help: "Total number of actions that matched no transition, by machine, state, and action",
	}, []string{"machine", "state", "action"})

	// applyDuration tracks the time spent resolving and committing an action.
	applyDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "statemachine_apply_duration_seconds",
		Help:    "Duration of Apply by machine and outcome (matched or unmatched)",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	}, []string{"machine", "outcome"})
)
