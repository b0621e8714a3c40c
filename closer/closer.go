// Package closer collects io.Closer resources so a program can release them
// in one call at shutdown.
package closer

import (
	"errors"
	"io"
	"sync"

	"go.uber.org/atomic"
)

type funcCloser struct {
	closeFn func() error
}

// Func adapts a cleanup function to io.Closer. A nil fn yields nil.
func Func(closeFn func() error) io.Closer {
	if closeFn == nil {
		return nil
	}

	return &funcCloser{closeFn: closeFn}
}

func (c *funcCloser) Close() error {
	return c.closeFn()
}

// Stack closes its closers in reverse order of addition, so resources are
// released before the things they depend on.
type Stack struct {
	mu      sync.Mutex
	closers []io.Closer
}

// NewStack returns a Stack holding closers, the last of which is closed first.
func NewStack(closers ...io.Closer) *Stack {
	return &Stack{closers: closers}
}

// Push adds c on top of the stack. Nil closers are skipped at Close.
func (s *Stack) Push(c io.Closer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closers = append(s.closers, c)
}

// Len returns the number of closers on the stack.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.closers)
}

// Close pops and closes every closer, even when some fail, and returns the
// joined errors. The stack is empty afterwards.
func (s *Stack) Close() error {
	s.mu.Lock()
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	var errs []error

	for i := len(closers) - 1; i >= 0; i-- {
		if closers[i] == nil {
			continue
		}

		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

type onceCloser struct {
	closer io.Closer
	closed *atomic.Bool
}

// Once wraps c so only the first Close reaches it; later calls return nil.
func Once(c io.Closer) io.Closer {
	if c == nil {
		return nil
	}

	return &onceCloser{closer: c, closed: atomic.NewBool(false)}
}

func (o *onceCloser) Close() error {
	if !o.closed.CompareAndSwap(false, true) {
		return nil
	}

	return o.closer.Close()
}
