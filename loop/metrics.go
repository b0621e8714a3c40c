package loop

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// alive tracks running loops.
	alive = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "loop_alive",
		Help: "The number of loops currently running",
	}, []string{"loop"})

	// processed counts tasks executed by a loop.
	processed = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "loop_processed_total",
		Help: "The total number of tasks executed",
	}, []string{"loop"})

	// panics counts tasks that panicked.
	panics = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "loop_panics_total",
		Help: "The total number of tasks that panicked",
	}, []string{"loop"})

	// skipped counts Do tasks dropped because their caller's ctx was done
	// before the loop reached them.
	skipped = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "loop_skipped_total",
		Help: "The total number of tasks skipped because their context was done",
	}, []string{"loop"})

	// queueDepth is refreshed periodically with the mailbox backlog.
	queueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{ //nolint:gochecknoglobals
		Name: "loop_queue_depth",
		Help: "The number of tasks waiting in the mailbox",
	}, []string{"loop"})

	processingTime = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name: "loop_processing_seconds",
		Help: "The time spent executing a task",
		Buckets: []float64{
			0.0001, // 100µs
			0.001,  // 1ms
			0.01,   // 10ms
			0.1,    // 100ms
			1,      // 1s
		},
	}, []string{"loop"})
)
