package interactor

import (
	"context"

	"github.com/amp-labs/lockstate/config"
	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/transition"
)

// FromAlternateBouncer decides when to leave the biometric prompt overlay.
// Its hide path is guarded: the overlay must stay hidden for the configured
// delay before the transition fires, because visibility flaps on bursts of
// failed biometric reads.
type FromAlternateBouncer struct {
	base

	// lastVisible tracks the previous visibility sample so the guard arms on
	// the falling edge only, not on every poke while hidden.
	lastVisible bool
}

// NewFromAlternateBouncer creates the policy unit bound to AlternateBouncer.
func NewFromAlternateBouncer(repo *transition.Repository, signals Signals, cfg *config.Config) *FromAlternateBouncer {
	u := &FromAlternateBouncer{}
	u.init("FromAlternateBouncer", keyguard.AlternateBouncer, repo, signals, cfg)

	return u
}

// Activate implements Interactor.
func (u *FromAlternateBouncer) Activate(ctx context.Context) {
	// The overlay is visible when this state becomes current; the first
	// hidden sample is a falling edge.
	u.lastVisible = true

	u.activate(ctx, u.react,
		watchWakefulness,
		watchPrimaryBouncer,
		watchAlternateBouncer,
		watchOccluded,
		watchBiometric,
	)
}

func (u *FromAlternateBouncer) react(ctx context.Context, snap Snapshot) {
	// The overlay shows the scanning indicator until a read lands.
	u.repo.SetHintShown(transition.HintFaceScanning, snap.AlternateBouncer && snap.Biometric.Empty())

	switch {
	case !snap.Wake.IsAwake():
		u.guard.Disarm()
		u.request(ctx, keyguard.AOD)

		return
	case snap.Authenticated():
		// Auth dismisses the overlay outright, occluded or not.
		u.guard.Disarm()
		u.request(ctx, keyguard.Gone)

		return
	case snap.PrimaryBouncer:
		u.guard.Disarm()
		u.request(ctx, keyguard.Bouncer)

		return
	}

	visible := snap.AlternateBouncer

	if visible {
		u.guard.Disarm()
	} else if u.lastVisible {
		u.armHideGuard(ctx)
	}

	u.lastVisible = visible
}

// armHideGuard schedules the transition that fires once the overlay has
// stayed hidden for the configured delay.
func (u *FromAlternateBouncer) armHideGuard(ctx context.Context) {
	guardArmedTotal.WithLabelValues(u.owner).Inc()

	u.guard.Arm(u.cfg.AlternateBouncerHideDelay, func() {
		if ctx.Err() != nil {
			return
		}

		snap := u.signals.Sample()
		if snap.AlternateBouncer || !snap.Wake.IsAwake() {
			guardStaleTotal.WithLabelValues(u.owner).Inc()

			return
		}

		guardFiredTotal.WithLabelValues(u.owner).Inc()

		dest := keyguard.Lockscreen
		if snap.Occluded {
			dest = keyguard.Occluded
		}

		u.request(ctx, dest)
	})
}
