// Package interactor holds the per-source-state policy units. Each unit is
// bound permanently to one keyguard state and decides, while that state is
// current, which signal combinations justify leaving it and for where. Units
// are themselves two-state machines: dormant until their bound state becomes
// current, active until it stops being current. All state mutation goes
// through the transition repository; units only read signals and request.
package interactor

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/amp-labs/lockstate/config"
	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/logger"
	"github.com/amp-labs/lockstate/optional"
	"github.com/amp-labs/lockstate/signal"
	"github.com/amp-labs/lockstate/transition"
)

// Interactor is the capability contract every policy unit implements.
type Interactor interface {
	// Source is the state this unit is permanently bound to.
	Source() keyguard.State
	// Activate starts the unit reacting to its signals. Idempotent while
	// active.
	Activate(ctx context.Context)
	// Deactivate stops the unit, disarms any pending guard, and waits for
	// its goroutines to exit. Idempotent while dormant.
	Deactivate()
}

// Signals bundles the read-only sources the policy units subscribe to. Each
// unit watches only the subset relevant to its bound state.
type Signals struct {
	Wakefulness      signal.Source[signal.Wakefulness]
	Occluded         signal.Source[bool]
	Biometric        signal.Source[optional.Value[bool]]
	PrimaryBouncer   signal.Source[bool]
	AlternateBouncer signal.Source[bool]
	Dreaming         signal.Source[bool]
}

// Snapshot is the latest value of every signal. Decision functions are pure
// over a Snapshot, which keeps them deterministic and independently testable.
type Snapshot struct {
	Wake             signal.Wakefulness
	Occluded         bool
	Biometric        optional.Value[bool]
	PrimaryBouncer   bool
	AlternateBouncer bool
	Dreaming         bool
}

// Sample reads the current value of every signal.
func (s Signals) Sample() Snapshot {
	return Snapshot{
		Wake:             s.Wakefulness.Value(),
		Occluded:         s.Occluded.Value(),
		Biometric:        s.Biometric.Value(),
		PrimaryBouncer:   s.PrimaryBouncer.Value(),
		AlternateBouncer: s.AlternateBouncer.Value(),
		Dreaming:         s.Dreaming.Value(),
	}
}

// Authenticated reports whether the biometric signal currently confirms auth.
func (s Snapshot) Authenticated() bool {
	return s.Biometric.GetOrElse(false)
}

// watcher subscribes one signal and pokes the decision loop on each change.
type watcher func(ctx context.Context, wg *sync.WaitGroup, signals Signals, poke chan<- struct{})

func forward[T any](ctx context.Context, wg *sync.WaitGroup, src signal.Source[T], poke chan<- struct{}) {
	ch := src.Subscribe(ctx)

	wg.Add(1)

	go func() {
		defer wg.Done()

		for range ch {
			// Conflate: a pending poke already forces a re-sample that will
			// observe this change.
			select {
			case poke <- struct{}{}:
			default:
			}
		}
	}()
}

func watchWakefulness(ctx context.Context, wg *sync.WaitGroup, s Signals, poke chan<- struct{}) {
	forward(ctx, wg, s.Wakefulness, poke)
}

func watchOccluded(ctx context.Context, wg *sync.WaitGroup, s Signals, poke chan<- struct{}) {
	forward(ctx, wg, s.Occluded, poke)
}

func watchBiometric(ctx context.Context, wg *sync.WaitGroup, s Signals, poke chan<- struct{}) {
	forward(ctx, wg, s.Biometric, poke)
}

func watchPrimaryBouncer(ctx context.Context, wg *sync.WaitGroup, s Signals, poke chan<- struct{}) {
	forward(ctx, wg, s.PrimaryBouncer, poke)
}

func watchAlternateBouncer(ctx context.Context, wg *sync.WaitGroup, s Signals, poke chan<- struct{}) {
	forward(ctx, wg, s.AlternateBouncer, poke)
}

func watchDreaming(ctx context.Context, wg *sync.WaitGroup, s Signals, poke chan<- struct{}) {
	forward(ctx, wg, s.Dreaming, poke)
}

// base carries the machinery shared by every policy unit: activation
// lifecycle, the poke-driven decision loop, idempotent transition requests,
// and the single-slot guard.
type base struct {
	owner   string
	source  keyguard.State
	repo    *transition.Repository
	signals Signals
	cfg     *config.Config
	log     *slog.Logger
	guard   slot

	mu        sync.Mutex
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	requested optional.Value[keyguard.State]
}

func (b *base) init(
	owner string,
	source keyguard.State,
	repo *transition.Repository,
	signals Signals,
	cfg *config.Config,
) {
	b.owner = owner
	b.source = source
	b.repo = repo
	b.signals = signals
	b.cfg = cfg
	b.log = logger.Get()
}

// Source implements Interactor.
func (b *base) Source() keyguard.State {
	return b.source
}

// SetLogger overrides the unit's logger. Meant for tests.
func (b *base) SetLogger(log *slog.Logger) {
	b.log = log
}

// activate starts the decision loop fed by the given watchers. The loop
// re-samples all signals on every poke and hands the snapshot to react.
func (b *base) activate(ctx context.Context, react func(context.Context, Snapshot), watchers ...watcher) {
	b.mu.Lock()

	if b.cancel != nil {
		b.mu.Unlock()

		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.requested = optional.None[keyguard.State]()

	b.mu.Unlock()

	poke := make(chan struct{}, 1)
	// One initial decision pass against the current signal values.
	poke <- struct{}{}

	for _, w := range watchers {
		w(runCtx, &b.wg, b.signals, poke)
	}

	b.wg.Add(1)

	go func() {
		defer b.wg.Done()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-poke:
				react(runCtx, b.signals.Sample())
			}
		}
	}()

	activationsTotal.WithLabelValues(b.owner).Inc()
	b.log.Debug("interactor activated", "owner", b.owner)
}

// Deactivate implements Interactor. It returns only after the decision loop,
// the watchers, and any mid-fire guard action have stopped.
func (b *base) Deactivate() {
	b.mu.Lock()
	cancel := b.cancel
	b.cancel = nil
	b.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	// Join the decision loop first: a react running at cancel time may still
	// re-arm the guard, so disarming before it exits could leave a timer
	// pending past return.
	b.wg.Wait()
	b.guard.Disarm()
	b.guard.Wait()

	b.log.Debug("interactor deactivated", "owner", b.owner)
}

// request asks the repository to leave the bound state for dest. Repeated
// requests for the destination already in flight are dropped, which keeps
// decisions idempotent under re-delivered signal values. A stale-origin
// rejection means another unit won the race; the next decision pass will
// naturally re-request if still warranted.
func (b *base) request(ctx context.Context, dest keyguard.State) {
	b.mu.Lock()

	if already, ok := b.requested.Get(); ok && already == dest {
		b.mu.Unlock()

		return
	}

	b.mu.Unlock()

	info := keyguard.TransitionInfo{
		Owner: b.owner,
		From:  b.source,
		To:    dest,
		Mode:  b.cfg.ModeFor(b.source, dest),
	}

	if _, err := b.repo.Start(ctx, info); err != nil {
		if errors.Is(err, transition.ErrStaleOrigin) {
			requestsLostTotal.WithLabelValues(b.owner).Inc()
			b.log.Debug("transition request lost the race", "owner", b.owner, "error", err)

			return
		}

		b.log.Error("transition request failed", "owner", b.owner, "error", err)

		return
	}

	b.mu.Lock()
	b.requested = optional.Some(dest)
	b.mu.Unlock()

	requestsTotal.WithLabelValues(b.owner, string(dest)).Inc()
}
