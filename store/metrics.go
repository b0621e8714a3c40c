package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// storeActions counts broadcast actions seen by a store, by what happened to them.
var storeActions = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
	Name: "store_actions_total",
	Help: "Actions received by a store: forwarded (transition), unmatched (no transition) or discarded (other family)",
}, []string{"store", "outcome"})
