package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "pagination_fetches_total",
		Help: "Total number of completed page fetches by model, trigger and outcome",
	}, []string{"model", "trigger", "outcome"})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "pagination_fetch_duration_seconds",
		Help:    "Time from issuing a page fetch to applying its result",
		Buckets: prometheus.DefBuckets,
	}, []string{"model", "outcome"})

	fetchesRejected = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "pagination_fetches_rejected_total",
		Help: "Fetches skipped because another fetch was still in flight",
	}, []string{"model", "trigger"})

	fetchesDropped = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "pagination_fetches_dropped_total",
		Help: "Fetch results discarded because a reload or retry superseded them",
	}, []string{"model", "trigger"})
)
