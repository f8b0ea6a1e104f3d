// Package shutdown coordinates process teardown: a signal-driven root context
// plus hooks that run before it is canceled, so pools and exporters can drain
// while the context is still alive.
package shutdown

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	mu       sync.Mutex     //nolint:gochecknoglobals
	hooks    []func()       //nolint:gochecknoglobals
	trigger  chan struct{}  //nolint:gochecknoglobals
	stopOnce *sync.Once     //nolint:gochecknoglobals
	sigCh    chan os.Signal //nolint:gochecknoglobals
)

// BeforeShutdown registers a hook that runs before the root context is
// canceled. Hooks run in registration order.
func BeforeShutdown(h func()) {
	mu.Lock()
	defer mu.Unlock()

	hooks = append(hooks, h)
}

// Shutdown triggers teardown programmatically, as if a signal arrived.
func Shutdown() {
	mu.Lock()
	ch := trigger
	mu.Unlock()

	if ch != nil {
		select {
		case ch <- struct{}{}:
		default:
			// Teardown already in progress.
		}
	}
}

// SetupHandler installs a SIGINT/SIGTERM handler and returns a context that
// is canceled once all BeforeShutdown hooks have run.
func SetupHandler() context.Context {
	mu.Lock()

	trigger = make(chan struct{}, 1)
	stopOnce = &sync.Once{}
	sigCh = make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	once := stopOnce
	local := trigger
	sig := sigCh

	mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		select {
		case s := <-sig:
			slog.Warn("received " + s.String() + ", shutting down")
		case <-local:
			slog.Warn("shutdown requested, shutting down")
		}

		once.Do(func() {
			runHooks()
			cancel()
		})
	}()

	return ctx
}

func runHooks() {
	mu.Lock()
	pending := hooks
	hooks = nil
	mu.Unlock()

	for _, h := range pending {
		h()
	}
}
