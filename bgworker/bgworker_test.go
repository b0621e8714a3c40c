package bgworker

import (
	"sync"
	"testing"
	"time"

	"github.com/amp-labs/amp-flux/logger"
	"github.com/neilotoole/slogt"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsTasks(t *testing.T) {
	t.Parallel()

	ctx := logger.WithLogger(t.Context(), slogt.New(t))
	pool := New(ctx, "test-runs", 2)

	var (
		mu  sync.Mutex
		got []int
		wg  sync.WaitGroup
	)

	for i := range 10 {
		wg.Add(1)

		require.NoError(t, pool.Go(ctx, func() {
			defer wg.Done()

			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}))
	}

	wg.Wait()
	pool.Stop()

	assert.Len(t, got, 10)
	assert.InDelta(t, 10, testutil.ToFloat64(tasksSubmitted.WithLabelValues("test-runs")), 0)
}

func TestPoolRecoversPanics(t *testing.T) {
	t.Parallel()

	ctx := logger.WithLogger(t.Context(), slogt.New(t))
	pool := New(ctx, "test-panics", 1)

	require.NoError(t, pool.Go(ctx, func() { panic("boom") }))

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(taskPanics.WithLabelValues("test-panics")) == 1
	}, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	require.NoError(t, pool.Go(ctx, func() { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool stopped working after a panic")
	}

	pool.Stop()
}

func TestPoolStopped(t *testing.T) {
	t.Parallel()

	pool := New(t.Context(), "test-stopped", 1)
	pool.Stop()

	err := pool.Go(t.Context(), func() {})
	require.ErrorIs(t, err, ErrPoolStopped)
}
