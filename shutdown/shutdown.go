// Package shutdown turns SIGINT and SIGTERM into context cancellation, after
// running registered hooks.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/amp-labs/amp-flux/logger"
)

var (
	mut     sync.Mutex //nolint:gochecknoglobals
	hooks   []func()   //nolint:gochecknoglobals
	trigger func()     //nolint:gochecknoglobals
)

// BeforeShutdown registers a function to be called before the context
// returned by SetupHandler is cancelled. Hooks run in registration order,
// while that context is still alive.
func BeforeShutdown(h func()) {
	mut.Lock()
	defer mut.Unlock()

	hooks = append(hooks, h)
}

// Shutdown starts the shutdown process programmatically, as if a signal had
// been received. It does nothing before SetupHandler.
func Shutdown() {
	mut.Lock()
	t := trigger
	mut.Unlock()

	if t != nil {
		t()
	}
}

// SetupHandler listens for SIGINT and SIGTERM and returns a context derived
// from parent that is cancelled once the hooks have run. Shutdown also
// happens when parent is cancelled or Shutdown is called.
func SetupHandler(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	requested := make(chan struct{})

	var once sync.Once

	mut.Lock()
	trigger = func() {
		once.Do(func() { close(requested) })
	}
	mut.Unlock()

	go func() {
		select {
		case sig := <-signals:
			logger.Get(ctx).Warn("Received " + sig.String() + ", shutting down...")
		case <-requested:
			logger.Get(ctx).Info("Shutdown requested")
		case <-ctx.Done():
		}

		signal.Stop(signals)
		runHooks()
		cancel()
	}()

	return ctx
}

func runHooks() {
	mut.Lock()
	pending := hooks
	hooks = nil
	trigger = nil
	mut.Unlock()

	for _, h := range pending {
		h()
	}
}
