package interactor

import (
	"context"

	"github.com/amp-labs/lockstate/config"
	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/transition"
)

// FromLockscreen decides when to leave the locked, idle state.
type FromLockscreen struct {
	base
}

// NewFromLockscreen creates the policy unit bound to Lockscreen.
func NewFromLockscreen(repo *transition.Repository, signals Signals, cfg *config.Config) *FromLockscreen {
	u := &FromLockscreen{}
	u.init("FromLockscreen", keyguard.Lockscreen, repo, signals, cfg)

	return u
}

// Activate implements Interactor.
func (u *FromLockscreen) Activate(ctx context.Context) {
	u.activate(ctx, u.react,
		watchWakefulness,
		watchPrimaryBouncer,
		watchAlternateBouncer,
		watchOccluded,
		watchDreaming,
		watchBiometric,
	)
}

func (u *FromLockscreen) react(ctx context.Context, snap Snapshot) {
	// The fingerprint nudge shows while the lockscreen waits for a read; a
	// confirmed read swaps it for the swipe affordance.
	u.repo.SetHintShown(transition.HintFingerprintAffordance, snap.Wake.IsAwake() && snap.Biometric.Empty())
	u.repo.SetHintShown(transition.HintSwipeToUnlock, snap.Authenticated())

	switch {
	case !snap.Wake.IsAwake():
		u.request(ctx, keyguard.AOD)
	case snap.PrimaryBouncer:
		u.request(ctx, keyguard.Bouncer)
	case snap.AlternateBouncer:
		u.request(ctx, keyguard.AlternateBouncer)
	case snap.Occluded:
		u.request(ctx, keyguard.Occluded)
	case snap.Dreaming:
		u.request(ctx, keyguard.Dreaming)
	case snap.Authenticated():
		u.request(ctx, keyguard.Gone)
	}
}
