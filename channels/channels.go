// Package channels provides small channel helpers shared by the loop and
// observable packages.
package channels

import "go.uber.org/atomic"

// Unbounded can be passed to Create to request a channel that never blocks
// the sender.
const Unbounded = -1

// CloseChannelIgnorePanic closes a channel like normal.
// However, if the channel has already been closed,
// it will suppress the resulting panic.
func CloseChannelIgnorePanic[T any](ch chan<- T) {
	if ch == nil {
		return
	}

	defer func() {
		// Recover from panic if the channel is already closed
		_ = recover()
	}()

	close(ch)
}

// Create returns the write side, the read side and a length function for a
// new channel. A depth of 0 is unbuffered, a positive depth is buffered, and
// Unbounded (any negative depth) yields an infinitely buffered channel whose
// length function reports the number of values not yet received.
func Create[T any](depth int) (chan<- T, <-chan T, func() int) {
	if depth >= 0 {
		ch := make(chan T, depth)

		return ch, ch, func() int { return len(ch) }
	}

	return InfiniteChan[T]()
}

// InfiniteChan creates a channel with infinite buffering.
// Values are received in the order they were sent. Closing the send side
// drains the queue and then closes the receive side.
//
// Note: memory grows without bound if the sender outpaces the receiver.
func InfiniteChan[A any]() (chan<- A, <-chan A, func() int) {
	inputCh := make(chan A)
	outputCh := make(chan A)
	pending := atomic.NewInt64(0)

	go func() {
		var queue []A

		// A nil channel disables the send case while the queue is empty.
		outCh := func() chan A {
			if len(queue) == 0 {
				return nil
			}

			return outputCh
		}

		head := func() A {
			if len(queue) == 0 {
				var zero A

				return zero
			}

			return queue[0]
		}

		in := inputCh

		for len(queue) > 0 || in != nil {
			select {
			case v, ok := <-in:
				if !ok {
					in = nil
				} else {
					queue = append(queue, v)
					pending.Inc()
				}
			case outCh() <- head():
				var zero A

				queue[0] = zero
				queue = queue[1:]
				pending.Dec()
			}
		}

		close(outputCh)
	}()

	return inputCh, outputCh, func() int { return int(pending.Load()) }
}
