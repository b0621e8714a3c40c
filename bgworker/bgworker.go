// Package bgworker provides a bounded background worker pool with graceful lifecycle control.
package bgworker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/alitto/pond/v2"
	"github.com/amp-labs/amp-flux/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultWorkerCount is the concurrency used by Default and by New when
// given a non-positive size.
const DefaultWorkerCount = 4

// ErrPoolStopped is returned when submitting to a pool that has been stopped.
var ErrPoolStopped = errors.New("worker pool stopped")

var (
	tasksSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "bgworker_tasks_submitted_total",
		Help: "The total number of tasks submitted to a background worker pool",
	}, []string{"pool"})

	taskPanics = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "bgworker_task_panics_total",
		Help: "The total number of background tasks that panicked",
	}, []string{"pool"})
)

// Pool runs functions on a fixed number of goroutines.
type Pool struct {
	name string
	pool pond.Pool
}

// New creates a pool with the given concurrency. The pool is stopped (after
// draining queued work) when ctx is cancelled.
func New(ctx context.Context, name string, size int) *Pool {
	if size <= 0 {
		size = DefaultWorkerCount
	}

	logger.Get(ctx).Debug("Initializing background worker pool", "pool", name, "count", size)

	p := &Pool{
		name: name,
		pool: pond.NewPool(size, pond.WithContext(ctx)),
	}

	tasksSubmitted.WithLabelValues(name).Add(0)
	taskPanics.WithLabelValues(name).Add(0)

	return p
}

// Go submits f to the pool and returns immediately. A panic inside f is
// recovered and logged.
func (p *Pool) Go(ctx context.Context, f func()) error {
	err := p.pool.Go(p.wrap(ctx, f))
	if err != nil {
		if errors.Is(err, pond.ErrPoolStopped) {
			return fmt.Errorf("%w: %s", ErrPoolStopped, p.name)
		}

		return err
	}

	tasksSubmitted.WithLabelValues(p.name).Inc()

	return nil
}

// Running reports the number of workers currently executing a task.
func (p *Pool) Running() int64 {
	return p.pool.RunningWorkers()
}

// Stop waits for queued tasks to finish and then stops the pool.
func (p *Pool) Stop() {
	logger.Get().Debug("Stopping background worker pool", "pool", p.name)
	p.pool.StopAndWait()
}

func (p *Pool) wrap(ctx context.Context, f func()) func() {
	return func() {
		defer func() {
			if r := recover(); r != nil {
				taskPanics.WithLabelValues(p.name).Inc()
				logger.Get(ctx).Error("background task panicked",
					"pool", p.name,
					"error", r,
					"stack", string(debug.Stack()))
			}
		}()

		f()
	}
}
