package dispatcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// actionsDispatched counts dispatched actions by family.
	actionsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "dispatcher_actions_dispatched_total",
		Help: "Total number of actions dispatched, by action family",
	}, []string{"family"})

	// subscriberPanics counts subscriber callbacks that panicked.
	subscriberPanics = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "dispatcher_subscriber_panics_total",
		Help: "Total number of subscriber panics recovered during dispatch, by action family",
	}, []string{"family"})

	// subscribers tracks live subscriptions across all dispatchers.
	subscribers = promauto.NewGauge(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "dispatcher_subscribers",
		Help: "Number of live dispatcher subscriptions",
	})
)
