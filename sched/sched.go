// Package sched owns the worker pool that drives transition progression
// frames. Every in-flight transition runs its frame loop as one pool task, so
// the pool size bounds how many animations can tick concurrently (normally
// one; briefly two while a supersede settles).
package sched

import (
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/alitto/pond/v2"

	"github.com/amp-labs/lockstate/shutdown"
)

const defaultWorkerCount = 4

// pool is initialized on first use so tests and embedders that never start a
// transition pay nothing.
var pool = sync.OnceValue(func() pond.Pool { //nolint:gochecknoglobals
	count := defaultWorkerCount

	if raw, ok := os.LookupEnv("LOCKSTATE_WORKER_COUNT"); ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			count = n
		}
	}

	slog.Debug("initializing frame scheduler pool", "count", count)

	p := pond.NewPool(count)

	shutdown.BeforeShutdown(func() {
		slog.Debug("stopping frame scheduler pool")
		p.StopAndWait()
	})

	return p
})

// Submit runs f on the pool and returns a Task to wait on.
func Submit(f func()) pond.Task { //nolint:ireturn
	return pool().Submit(f)
}

// Go runs f on the pool without waiting. Returns an error if the pool has
// been stopped.
func Go(f func()) error {
	return pool().Go(f)
}
