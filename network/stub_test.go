package network

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amp-labs/amp-flux/bgworker"
	"github.com/amp-labs/amp-flux/dispatcher"
	"github.com/amp-labs/amp-flux/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCorpus(t *testing.T) {
	t.Parallel()

	phrases := defaultCorpus()
	assert.GreaterOrEqual(t, len(phrases), DefaultTotal)
	assert.Equal(t, "amber falcon", phrases[0])
}

func TestParseCorpus(t *testing.T) {
	t.Parallel()

	phrases, err := parseCorpus([]byte("phrases: [a, b]"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, phrases)

	_, err = parseCorpus([]byte("phrases: []"))
	require.ErrorIs(t, err, errEmptyCorpus)

	_, err = parseCorpus([]byte("phrases: {"))
	require.Error(t, err)
}

func TestPaging(t *testing.T) {
	t.Parallel()

	stub := NewStub(WithDelay(0))

	tests := []struct {
		offset, size int
		first, count int
	}{
		{0, 5, 0, 5},
		{5, 5, 5, 5},
		{20, 5, 20, 3},
		{23, 5, 0, 0},
		{40, 5, 0, 0},
	}

	for _, tt := range tests {
		page, err := stub.FetchPage(t.Context(), tt.offset, tt.size).Await()
		require.NoError(t, err)
		assert.Equal(t, DefaultTotal, page.Total)
		require.Len(t, page.Items, tt.count)

		if tt.count > 0 {
			assert.Equal(t, tt.first, page.Items[0].Index)
			assert.Equal(t, tt.first+tt.count-1, page.Items[tt.count-1].Index)
		}
	}

	assert.Equal(t, int64(len(tests)), stub.Requests())
}

func TestItemText(t *testing.T) {
	t.Parallel()

	stub := NewStub(WithDelay(0), WithCorpus([]string{"red fox", "blue jay"}), WithTotal(3))

	page, err := stub.FetchPage(t.Context(), 0, 10).Await()
	require.NoError(t, err)

	assert.Equal(t, pagination.DataSource{
		{Index: 0, Text: "Red Fox #1"},
		{Index: 1, Text: "Blue Jay #2"},
		{Index: 2, Text: "Red Fox #3"},
	}, page.Items)
}

func TestInvalidRequest(t *testing.T) {
	t.Parallel()

	stub := NewStub(WithDelay(0))

	_, err := stub.FetchPage(t.Context(), -1, 5).Await()
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = stub.FetchPage(t.Context(), 0, 0).Await()
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestCancellation(t *testing.T) {
	t.Parallel()

	stub := NewStub(WithDelay(time.Minute))

	ctx, cancel := context.WithCancel(t.Context())
	fut := stub.FetchPage(ctx, 0, 5)
	cancel()

	_, err := fut.Await()
	require.Error(t, err)

	var pe *pagination.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, pagination.KindCanceled, pe.Kind)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFailOnceAt(t *testing.T) {
	t.Parallel()

	stub := NewStub(WithDelay(0), WithFailures(FailOnceAt(5)))

	_, err := stub.FetchPage(t.Context(), 0, 5).Await()
	require.NoError(t, err)

	_, err = stub.FetchPage(t.Context(), 5, 5).Await()
	require.ErrorIs(t, err, pagination.ErrNetwork)
	assert.Equal(t, pagination.KindNetwork, pagination.AsError(err).Kind)

	_, err = stub.FetchPage(t.Context(), 5, 5).Await()
	require.NoError(t, err)
}

func TestPool(t *testing.T) {
	t.Parallel()

	pool := bgworker.New(t.Context(), "network-test", 2)
	stub := NewStub(WithDelay(time.Millisecond), WithPool(pool))

	page, err := stub.FetchPage(t.Context(), 10, 5).Await()
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)

	pool.Stop()

	_, err = stub.FetchPage(t.Context(), 0, 5).Await()
	require.ErrorIs(t, err, bgworker.ErrPoolStopped)
	assert.Equal(t, pagination.KindNetwork, pagination.AsError(err).Kind)
}

func TestStubDrivesModel(t *testing.T) {
	t.Parallel()

	stub := NewStub(WithDelay(time.Millisecond), WithTotal(12), WithFailures(FailOnceAt(5)))
	m := pagination.New(stub,
		pagination.WithDispatcher(dispatcher.New()),
		pagination.WithName("network-model"),
		pagination.WithRecovery())
	t.Cleanup(func() { _ = m.Close() })

	waitState := func(name string) {
		t.Helper()
		require.Eventually(t, func() bool {
			return m.State().Name() == name
		}, 2*time.Second, 5*time.Millisecond)
	}

	require.NoError(t, m.Apply(t.Context(), pagination.StartLoading{}))
	waitState("idle")

	require.NoError(t, m.Apply(t.Context(), pagination.LoadNextPage{}))
	waitState("error")

	failed, ok := m.State().(pagination.Failed)
	require.True(t, ok)
	assert.True(t, errors.Is(failed.Err, pagination.ErrNetwork))

	require.NoError(t, m.Apply(t.Context(), pagination.Retry{}))
	waitState("idle")
	require.NoError(t, m.Apply(t.Context(), pagination.LoadNextPage{}))
	waitState("idle")
	require.NoError(t, m.Apply(t.Context(), pagination.LoadNextPage{}))
	waitState("loaded")

	assert.Len(t, pagination.Items(m.State()), 12)
}
