package closer

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingCloser(order *[]string, name string, err error) io.Closer {
	return Func(func() error {
		*order = append(*order, name)

		return err
	})
}

func TestStackClosesInReverse(t *testing.T) {
	t.Parallel()

	var order []string

	s := NewStack(recordingCloser(&order, "first", nil))
	s.Push(recordingCloser(&order, "second", nil))
	s.Push(nil)
	s.Push(recordingCloser(&order, "third", nil))

	assert.Equal(t, 4, s.Len())
	require.NoError(t, s.Close())
	assert.Equal(t, []string{"third", "second", "first"}, order)
	assert.Equal(t, 0, s.Len())

	require.NoError(t, s.Close())
	assert.Len(t, order, 3)
}

func TestStackJoinsErrors(t *testing.T) {
	t.Parallel()

	var order []string

	errA := errors.New("a")
	errB := errors.New("b")

	s := NewStack(
		recordingCloser(&order, "a", errA),
		recordingCloser(&order, "ok", nil),
		recordingCloser(&order, "b", errB),
	)

	err := s.Close()
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
	assert.Equal(t, []string{"b", "ok", "a"}, order)
}

func TestFuncNil(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Func(nil))
	assert.Nil(t, Once(nil))
}

func TestOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	c := Once(Func(func() error {
		calls++

		return nil
	}))

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, calls)
}
