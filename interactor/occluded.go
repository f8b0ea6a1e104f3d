package interactor

import (
	"context"

	"github.com/amp-labs/lockstate/config"
	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/transition"
)

// FromOccluded decides when to leave the state where an activity draws over
// the lock surface.
type FromOccluded struct {
	base
}

// NewFromOccluded creates the policy unit bound to Occluded.
func NewFromOccluded(repo *transition.Repository, signals Signals, cfg *config.Config) *FromOccluded {
	u := &FromOccluded{}
	u.init("FromOccluded", keyguard.Occluded, repo, signals, cfg)

	return u
}

// Activate implements Interactor.
func (u *FromOccluded) Activate(ctx context.Context) {
	u.activate(ctx, u.react,
		watchWakefulness,
		watchBiometric,
		watchOccluded,
		watchPrimaryBouncer,
		watchAlternateBouncer,
		watchDreaming,
	)
}

func (u *FromOccluded) react(ctx context.Context, snap Snapshot) {
	switch {
	case !snap.Wake.IsAwake():
		u.request(ctx, keyguard.AOD)
	case snap.Authenticated() && !snap.Occluded:
		// While still occluded, a biometric confirmation dismisses nothing:
		// the occluding activity keeps the surface.
		u.request(ctx, keyguard.Gone)
	case snap.PrimaryBouncer:
		u.request(ctx, keyguard.Bouncer)
	case snap.AlternateBouncer:
		u.request(ctx, keyguard.AlternateBouncer)
	case !snap.Occluded:
		if snap.Dreaming {
			u.request(ctx, keyguard.Dreaming)
		} else {
			u.request(ctx, keyguard.Lockscreen)
		}
	}
}
