// Package channels provides the channel plumbing used by the transition step
// stream and the signal fan-out: an order-preserving unbounded buffer and a
// close helper that tolerates racing closers.
package channels

// CloseIgnorePanic closes ch, suppressing the panic raised when the channel
// was already closed by a racing goroutine.
func CloseIgnorePanic[T any](ch chan<- T) {
	if ch == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	close(ch)
}

// Unbounded returns a send side that never blocks and a receive side that
// yields values in send order. Closing the send side drains the queue and
// then closes the receive side.
//
// The buffer grows without bound, so producers that can outpace their
// consumer indefinitely should not use this.
func Unbounded[T any]() (chan<- T, <-chan T) {
	in := make(chan T)
	out := make(chan T)

	go func() {
		defer close(out)

		src := in

		var queue []T

		for src != nil || len(queue) > 0 {
			// Only offer the send case when there is something queued.
			var (
				send chan T
				head T
			)

			if len(queue) > 0 {
				send = out
				head = queue[0]
			}

			select {
			case v, ok := <-src:
				if !ok {
					src = nil

					continue
				}

				queue = append(queue, v)
			case send <- head:
				queue = queue[1:]
			}
		}
	}()

	return in, out
}
