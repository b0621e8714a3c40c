package future

import "errors"

// ErrPanic wraps a panic recovered from the function passed to Go or GoContext.
var ErrPanic = errors.New("panic in future")

// Promise is the write side of a Future. Only the first Success, Failure or
// Complete call takes effect; later calls are ignored. All methods are safe
// for concurrent use.
type Promise[T any] struct {
	future *Future[T]
}

func (p *Promise[T]) fulfill(result Result[T]) {
	p.future.once.Do(func() {
		p.future.result = result

		// Closing under the lock keeps OnResult from registering a callback
		// that would never be invoked.
		p.future.mu.Lock()
		close(p.future.resultReady)
		callbacks := p.future.callbacks
		p.future.callbacks = nil
		p.future.mu.Unlock()

		for _, cb := range callbacks {
			invokeCallback(cb, result)
		}
	})
}

// Success fulfills the promise with a value.
func (p *Promise[T]) Success(value T) {
	p.fulfill(Result[T]{Value: value})
}

// Failure fulfills the promise with an error and the zero value.
func (p *Promise[T]) Failure(err error) {
	var zero T

	p.fulfill(Result[T]{Value: zero, Error: err})
}

// Complete fulfills the promise from a (value, error) pair.
func (p *Promise[T]) Complete(value T, err error) {
	if err != nil {
		p.Failure(err)

		return
	}

	p.Success(value)
}
