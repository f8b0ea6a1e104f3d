// Package transition owns the lock-surface transition machine's only shared
// mutable state: the confirmed current state and the transition in flight.
// Every mutation funnels through the Repository's mutex, so "check current
// state, then open a transition" is atomic and at most one transition is in
// flight at any instant.
package transition

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/atomic"

	"github.com/amp-labs/lockstate/channels"
	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/logger"
	"github.com/amp-labs/lockstate/optional"
	"github.com/amp-labs/lockstate/sched"
)

// flight is one in-flight transition instance.
type flight struct {
	id      uuid.UUID
	info    keyguard.TransitionInfo
	value   float64
	cancel  context.CancelFunc
	endSpan func(outcome string)
	opened  time.Time
}

// Repository is the sole writer of the confirmed state and the ordered
// transition step stream. Policy units request transitions through Start and
// never touch the state directly.
type Repository struct {
	mu        sync.Mutex
	confirmed keyguard.State
	flight    *flight
	last      optional.Value[keyguard.TransitionStep]
	nextSub   uint64
	subs      map[uint64]chan<- keyguard.TransitionStep
	hints     hintFlags

	// snapshot mirrors confirmed for lock-free CurrentState reads on hot
	// render paths.
	snapshot *atomic.String
}

// New creates a repository confirmed in the given initial state.
func New(initial keyguard.State) (*Repository, error) {
	if !initial.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInitialStateInvalid, initial)
	}

	return &Repository{
		confirmed: initial,
		subs:      make(map[uint64]chan<- keyguard.TransitionStep),
		snapshot:  atomic.NewString(string(initial)),
	}, nil
}

// CurrentState returns the state confirmed by the latest terminal step.
func (r *Repository) CurrentState() keyguard.State {
	return keyguard.State(r.snapshot.Load())
}

// InFlight returns the request record of the transition currently in flight,
// if any.
func (r *Repository) InFlight() optional.Value[keyguard.TransitionInfo] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flight == nil {
		return optional.None[keyguard.TransitionInfo]()
	}

	return optional.Some(r.flight.info)
}

// Start opens a new transition and returns its instance ID.
//
// Arbitration is by recency: the most recent request wins and cancels
// whatever was in flight, provided its declared origin matches either the
// confirmed state or the in-flight destination (a continuation from the
// point the previous transition was heading to). Any other origin fails with
// a StaleOriginError and emits no step. There is no queueing: a superseded
// transition is discarded, not deferred.
func (r *Repository) Start(ctx context.Context, info keyguard.TransitionInfo) (uuid.UUID, error) {
	if err := info.Validate(); err != nil {
		return uuid.Nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flight != nil {
		if info.From != r.flight.info.To && info.From != r.confirmed {
			return uuid.Nil, r.rejectLocked(ctx, info)
		}

		r.cancelLocked(ctx, cancelSuperseded)
	} else if info.From != r.confirmed {
		return uuid.Nil, r.rejectLocked(ctx, info)
	}

	id := uuid.New()

	// The flight must outlive the caller: only a supersede or CancelInFlight
	// may stop it. Trace linkage is kept, cancellation is not.
	flightCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	spanCtx, span := startTransitionSpan(flightCtx, info, id)

	fl := &flight{
		id:     id,
		info:   info,
		cancel: cancel,
		opened: time.Now(),
		endSpan: func(outcome string) {
			span.SetAttributes(attribute.String("outcome", outcome))
			span.SetStatus(codes.Ok, outcome)
			span.End()
		},
	}

	r.flight = fl

	r.emitLocked(keyguard.TransitionStep{
		ID:    id,
		From:  info.From,
		To:    info.To,
		Value: 0,
		State: keyguard.Started,
		Owner: info.Owner,
	})

	startedTotal.WithLabelValues(string(info.From), string(info.To), info.Owner).Inc()
	inFlightGauge.Set(1)

	logger.Get(ctx).Info("transition started",
		"id", id,
		"from", info.From,
		"to", info.To,
		"owner", info.Owner,
		"duration", info.Mode.Duration)

	if err := sched.Go(func() { r.progress(spanCtx, fl) }); err != nil {
		r.cancelLocked(ctx, cancelForced)

		return uuid.Nil, fmt.Errorf("%w: %w", ErrSchedulerStopped, err)
	}

	return id, nil
}

// CancelInFlight force-cancels the in-flight transition, rolling observers
// back to its origin. No-op when nothing is in flight. Once it returns, no
// further step from the canceled instance will ever be emitted.
func (r *Repository) CancelInFlight(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flight == nil {
		return
	}

	r.cancelLocked(ctx, cancelForced)
}

// Steps returns the live, ordered step stream. The most recent step, if any,
// is delivered first (replay depth 1). Each subscriber gets an unbounded
// buffer, so a slow consumer can neither reorder nor block emission. The
// channel closes when ctx is done.
func (r *Repository) Steps(ctx context.Context) <-chan keyguard.TransitionStep {
	in, out := channels.Unbounded[keyguard.TransitionStep]()

	r.mu.Lock()

	id := r.nextSub
	r.nextSub++
	r.subs[id] = in

	if step, ok := r.last.Get(); ok {
		in <- step
	}

	r.mu.Unlock()

	go func() {
		<-ctx.Done()

		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()

		channels.CloseIgnorePanic(in)
	}()

	return out
}

// rejectLocked records and reports a stale origin. Caller holds the lock.
func (r *Repository) rejectLocked(ctx context.Context, info keyguard.TransitionInfo) error {
	err := &StaleOriginError{
		Owner:     info.Owner,
		Requested: info.From,
		Confirmed: r.confirmed,
	}

	if r.flight != nil {
		err.InFlight = optional.Some(r.flight.info.To)
	}

	staleOriginTotal.WithLabelValues(info.Owner).Inc()

	logger.Get(ctx).Warn("transition rejected", "error", err)

	return err
}

// cancelLocked closes the in-flight transition with a Canceled step, rolling
// the confirmed state back to the flight's origin. Caller holds the lock and
// has checked that a flight exists.
func (r *Repository) cancelLocked(ctx context.Context, reason string) {
	fl := r.flight
	r.flight = nil

	// Stops the frame loop; combined with the flight-id check in advance and
	// complete, nothing from this instance is emitted after we return.
	fl.cancel()

	r.emitLocked(keyguard.TransitionStep{
		ID:    fl.id,
		From:  fl.info.From,
		To:    fl.info.To,
		Value: fl.value,
		State: keyguard.Canceled,
		Owner: fl.info.Owner,
	})

	r.confirmed = fl.info.From
	r.snapshot.Store(string(fl.info.From))

	canceledTotal.WithLabelValues(string(fl.info.From), string(fl.info.To), reason).Inc()
	inFlightGauge.Set(0)
	fl.endSpan("canceled:" + reason)

	logger.Get(ctx).Info("transition canceled",
		"id", fl.id,
		"from", fl.info.From,
		"to", fl.info.To,
		"reason", reason,
		"value", fl.value)
}

// progress drives the Running frames for one flight. It runs as a scheduler
// task and exits as soon as the flight is superseded or canceled.
func (r *Repository) progress(ctx context.Context, fl *flight) {
	duration := fl.info.Mode.Duration
	if duration <= 0 {
		r.complete(ctx, fl.id)

		return
	}

	ticker := time.NewTicker(fl.info.Mode.Interval())
	defer ticker.Stop()

	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed := time.Since(start)
			if elapsed >= duration {
				r.complete(ctx, fl.id)

				return
			}

			if !r.advance(fl.id, float64(elapsed)/float64(duration)) {
				return
			}
		}
	}
}

// advance emits a Running step for the flight, unless it is no longer
// current. Values are clamped monotone non-decreasing and below 1.
func (r *Repository) advance(id uuid.UUID, value float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flight == nil || r.flight.id != id {
		return false
	}

	if value < r.flight.value {
		value = r.flight.value
	}

	if value >= 1 {
		value = r.flight.value
	}

	r.flight.value = value

	r.emitLocked(keyguard.TransitionStep{
		ID:    id,
		From:  r.flight.info.From,
		To:    r.flight.info.To,
		Value: value,
		State: keyguard.Running,
		Owner: r.flight.info.Owner,
	})

	return true
}

// complete closes the flight with a Finished step at value 1 and confirms
// its destination, unless the flight was superseded in the meantime.
func (r *Repository) complete(ctx context.Context, id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.flight == nil || r.flight.id != id {
		return
	}

	fl := r.flight
	r.flight = nil

	fl.cancel()

	r.emitLocked(keyguard.TransitionStep{
		ID:    fl.id,
		From:  fl.info.From,
		To:    fl.info.To,
		Value: 1,
		State: keyguard.Finished,
		Owner: fl.info.Owner,
	})

	r.confirmed = fl.info.To
	r.snapshot.Store(string(fl.info.To))

	finishedTotal.WithLabelValues(string(fl.info.From), string(fl.info.To), fl.info.Owner).Inc()
	transitionSeconds.WithLabelValues(string(fl.info.From), string(fl.info.To)).
		Observe(time.Since(fl.opened).Seconds())
	inFlightGauge.Set(0)
	fl.endSpan("finished")

	logger.Get(ctx).Info("transition finished",
		"id", fl.id,
		"from", fl.info.From,
		"to", fl.info.To,
		"owner", fl.info.Owner)
}

// emitLocked appends a step to the stream. Caller holds the lock, which is
// what makes the stream strictly ordered across all subscribers.
func (r *Repository) emitLocked(step keyguard.TransitionStep) {
	r.last = optional.Some(step)
	stepsTotal.WithLabelValues(string(step.State)).Inc()

	for _, sub := range r.subs {
		sub <- step // unbounded, never blocks
	}
}
