// Package future provides a minimal Future/Promise pair for asynchronous results.
//
// A Future is the read side of a computation that completes exactly once with
// either a value or an error. A Promise is the write side. Callbacks registered
// with OnResult run on their own goroutine after completion, so they never
// block the completing goroutine; callers that need to get back onto a specific
// goroutine (such as a loop.Loop) post from inside the callback.
package future

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/amp-labs/amp-flux/logger"
)

// Result is the settled outcome of a Future.
type Result[T any] struct {
	Value T
	Error error
}

// Get returns the value and error as a pair.
func (r Result[T]) Get() (T, error) { //nolint:ireturn
	return r.Value, r.Error
}

// Future is the read-only side of an asynchronous computation.
type Future[T any] struct {
	once        sync.Once
	mu          sync.Mutex
	resultReady chan struct{}
	result      Result[T]
	callbacks   []func(Result[T])
}

// New creates a Future and the Promise that completes it.
func New[T any]() (*Future[T], *Promise[T]) {
	fut := &Future[T]{
		resultReady: make(chan struct{}),
	}

	return fut, &Promise[T]{future: fut}
}

// Completed returns a Future that is already settled with the given pair.
func Completed[T any](value T, err error) *Future[T] {
	fut, promise := New[T]()
	promise.Complete(value, err)

	return fut
}

// Go runs fn on a new goroutine and returns a Future for its result.
// A panic inside fn settles the Future with an error.
func Go[T any](fn func() (T, error)) *Future[T] {
	return GoContext(context.Background(), func(context.Context) (T, error) {
		return fn()
	})
}

// GoContext runs fn on a new goroutine with ctx and returns a Future for its
// result. A panic inside fn settles the Future with an error.
func GoContext[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	fut, promise := New[T]()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				promise.Failure(fmt.Errorf("%w: %v\n%s", ErrPanic, r, debug.Stack()))
			}
		}()

		promise.Complete(fn(ctx))
	}()

	return fut
}

// Done returns a channel that is closed once the Future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.resultReady
}

// Await blocks until the Future settles.
func (f *Future[T]) Await() (T, error) { //nolint:ireturn
	<-f.resultReady

	return f.result.Get()
}

// AwaitContext blocks until the Future settles or ctx is done.
func (f *Future[T]) AwaitContext(ctx context.Context) (T, error) { //nolint:ireturn
	select {
	case <-ctx.Done():
		var zero T

		return zero, ctx.Err()
	case <-f.resultReady:
		return f.result.Get()
	}
}

// OnResult registers a callback that receives the settled Result. If the
// Future has already settled the callback is scheduled immediately.
func (f *Future[T]) OnResult(callback func(Result[T])) {
	if callback == nil {
		return
	}

	f.mu.Lock()

	select {
	case <-f.resultReady:
		f.mu.Unlock()
		invokeCallback(callback, f.result)
	default:
		f.callbacks = append(f.callbacks, callback)
		f.mu.Unlock()
	}
}

// invokeCallback runs callback on its own goroutine and logs (rather than
// propagates) a panic.
func invokeCallback[T any](callback func(Result[T]), result Result[T]) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Get().Error("panic encountered in future.OnResult callback",
					"error", r,
					"stack", string(debug.Stack()))
			}
		}()

		callback(result)
	}()
}
