package shutdown

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests share the package's hook list, so none of them run in parallel.

//nolint:paralleltest
func TestShutdownRunsHooksBeforeCancel(t *testing.T) {
	ctx := SetupHandler(t.Context())

	var order []string

	BeforeShutdown(func() {
		order = append(order, "first")
		assert.NoError(t, ctx.Err(), "context cancelled before hooks ran")
	})
	BeforeShutdown(func() { order = append(order, "second") })

	Shutdown()
	Shutdown()

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		require.FailNow(t, "context was not cancelled")
	}

	assert.Equal(t, []string{"first", "second"}, order)
}

//nolint:paralleltest
func TestParentCancellation(t *testing.T) {
	parent, cancel := context.WithCancel(t.Context())

	ctx := SetupHandler(parent)

	ran := make(chan struct{})
	BeforeShutdown(func() { close(ran) })

	cancel()

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		require.FailNow(t, "hook did not run")
	}

	<-ctx.Done()
}

//nolint:paralleltest
func TestShutdownWithoutHandler(t *testing.T) {
	assert.NotPanics(t, Shutdown)
}
