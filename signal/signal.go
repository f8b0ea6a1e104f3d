// Package signal provides the reactive value adapters the transition machine
// consumes. A Source is a single current value plus subscribe-for-changes;
// there is no ordering guarantee between different sources. Sources are owned
// by external collaborators (power, biometrics, window manager reporting) and
// only read here.
package signal

import (
	"context"
	"sync"

	"github.com/amp-labs/lockstate/channels"
)

// Source is the read side of a reactive value.
type Source[T any] interface {
	// Value returns the current value.
	Value() T
	// Subscribe returns a channel of value changes. The current value is
	// delivered first (replay depth 1), then every subsequent change in
	// order. The channel closes when ctx is done.
	Subscribe(ctx context.Context) <-chan T
}

// Var is the owning side of a reactive value. Updates fan out to every
// subscriber through per-subscriber unbounded buffers, so a slow subscriber
// never blocks the owner or other subscribers.
//
// Set conflates: writing a value equal to the current one is a no-op, which
// keeps re-delivery of identical raw facts idempotent at the source.
type Var[T comparable] struct {
	mu      sync.Mutex
	current T
	nextID  uint64
	subs    map[uint64]chan<- T
}

var _ Source[bool] = (*Var[bool])(nil)

// NewVar creates a Var holding initial.
func NewVar[T comparable](initial T) *Var[T] {
	return &Var[T]{
		current: initial,
		subs:    make(map[uint64]chan<- T),
	}
}

// Value returns the current value.
func (v *Var[T]) Value() T { //nolint:ireturn
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.current
}

// Set updates the value and notifies subscribers. Setting the current value
// again does nothing.
func (v *Var[T]) Set(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if value == v.current {
		return
	}

	v.current = value

	for _, sub := range v.subs {
		sub <- value // unbounded, never blocks
	}
}

// Subscribe implements Source.
func (v *Var[T]) Subscribe(ctx context.Context) <-chan T {
	in, out := channels.Unbounded[T]()

	v.mu.Lock()

	id := v.nextID
	v.nextID++
	v.subs[id] = in

	// Replay the current value before any live update.
	in <- v.current

	v.mu.Unlock()

	go func() {
		<-ctx.Done()

		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()

		channels.CloseIgnorePanic(in)
	}()

	return out
}
