// Package loop provides the single logical thread that all dispatching and
// state-machine work runs on.
//
// A Loop is a mailbox drained by one goroutine: functions posted to it run one
// at a time, in the order they were posted. Asynchronous work (such as a
// network fetch) completes elsewhere and posts its continuation back onto the
// loop, so state is only ever mutated from one goroutine and needs no lock.
package loop

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/amp-labs/amp-flux/channels"
	"github.com/amp-labs/amp-flux/logger"
	"go.uber.org/atomic"
)

// metricsTickerTime is the interval at which the queue depth gauge is refreshed.
const metricsTickerTime = 10 * time.Second

var (
	// ErrStopped is returned when posting to a loop that is no longer running.
	ErrStopped = errors.New("loop is stopped")
	// ErrLoopPanic is returned by Do when the function panicked.
	ErrLoopPanic = errors.New("panic in loop")
)

type task struct {
	ctx  context.Context //nolint:containedctx
	fn   func(ctx context.Context)
	done chan error
}

type loopKey struct{}

// Loop executes posted functions sequentially on a dedicated goroutine.
type Loop struct {
	name       string
	inboxWrite chan<- task
	inboxRead  <-chan task
	depth      func() int
	stopped    *atomic.Bool
	stopOnce   sync.Once
	wg         sync.WaitGroup
	base       context.Context //nolint:containedctx
}

// New starts a loop. It runs until ctx is cancelled or Stop is called; tasks
// already queued when it stops are still executed.
func New(ctx context.Context, name string) *Loop {
	w, r, depth := channels.Create[task](channels.Unbounded)

	l := &Loop{
		name:       name,
		inboxWrite: w,
		inboxRead:  r,
		depth:      depth,
		stopped:    atomic.NewBool(false),
	}

	l.base = context.WithValue(ctx, loopKey{}, l)

	processed.WithLabelValues(name).Add(0)
	panics.WithLabelValues(name).Add(0)
	skipped.WithLabelValues(name).Add(0)
	queueDepth.WithLabelValues(name).Set(0)
	alive.WithLabelValues(name).Inc()

	l.wg.Add(1)

	go l.run(ctx)

	return l
}

func (l *Loop) run(ctx context.Context) {
	defer l.wg.Done()
	defer alive.WithLabelValues(l.name).Dec()

	ticker := time.NewTicker(metricsTickerTime)
	defer ticker.Stop()

	stopWatch := ctx.Done()

	for {
		select {
		case <-stopWatch:
			stopWatch = nil

			l.Stop()
		case <-ticker.C:
			queueDepth.WithLabelValues(l.name).Set(float64(l.depth()))
		case t, ok := <-l.inboxRead:
			if !ok {
				return
			}

			// The caller of Do has already given up on this task.
			if t.done != nil && t.ctx.Err() != nil {
				skipped.WithLabelValues(l.name).Inc()
				t.done <- t.ctx.Err()
				close(t.done)

				continue
			}

			start := time.Now()
			err := l.execute(t.ctx, t.fn)

			processed.WithLabelValues(l.name).Inc()
			processingTime.WithLabelValues(l.name).Observe(time.Since(start).Seconds())

			if t.done != nil {
				t.done <- err
				close(t.done)
			}
		}
	}
}

func (l *Loop) execute(ctx context.Context, fn func(ctx context.Context)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			panics.WithLabelValues(l.name).Inc()

			logger.Get(ctx).Error("loop recovered from panic",
				"loop", l.name,
				"error", r,
				"stack", string(debug.Stack()))

			err = fmt.Errorf("%w %s: %v", ErrLoopPanic, l.name, r)
		}
	}()

	fn(ctx)

	return nil
}

// Name returns the loop's name.
func (l *Loop) Name() string {
	return l.name
}

// Alive returns true until Stop has been called.
func (l *Loop) Alive() bool {
	return !l.stopped.Load()
}

// OnLoop reports whether ctx was handed out by this loop, which means the
// caller is already running inside one of its tasks.
func (l *Loop) OnLoop(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	owner, ok := ctx.Value(loopKey{}).(*Loop)

	return ok && owner == l
}

// Post queues fn to run on the loop and returns immediately. It never blocks.
// fn receives the loop's own context.
func (l *Loop) Post(fn func(ctx context.Context)) error {
	return l.submit(task{ctx: l.base, fn: fn})
}

// Do runs fn on the loop and waits for it to finish. fn receives ctx marked
// as belonging to the loop. When ctx already belongs to the loop (a task
// calling Do) fn runs inline, since waiting on the mailbox would deadlock.
//
// If ctx is done before the loop reaches fn, fn is skipped. If ctx is done
// while fn runs, Do returns ctx.Err() without waiting and fn still completes.
func (l *Loop) Do(ctx context.Context, fn func(ctx context.Context)) error {
	if l.OnLoop(ctx) {
		return l.execute(ctx, fn)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	done := make(chan error, 1)

	if err := l.submit(task{ctx: context.WithValue(ctx, loopKey{}, l), fn: fn, done: done}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err, ok := <-done:
		if !ok {
			return ErrStopped
		}

		return err
	}
}

func (l *Loop) submit(t task) (err error) {
	if l.stopped.Load() {
		return fmt.Errorf("%w: %s", ErrStopped, l.name)
	}

	// Stop can race with a send; a send on the closed inbox panics.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s", ErrStopped, l.name)
		}
	}()

	l.inboxWrite <- t

	return nil
}

// Stop stops accepting new work. Queued work still runs. Safe to call multiple times.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		l.stopped.Store(true)
		channels.CloseChannelIgnorePanic(l.inboxWrite)
	})
}

// Wait blocks until the loop goroutine has exited.
func (l *Loop) Wait() {
	l.wg.Wait()
}
