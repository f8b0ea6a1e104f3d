package interactor

import (
	"context"

	"github.com/amp-labs/lockstate/config"
	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/transition"
)

// FromBouncer decides when to leave the primary credential prompt.
type FromBouncer struct {
	base
}

// NewFromBouncer creates the policy unit bound to Bouncer.
func NewFromBouncer(repo *transition.Repository, signals Signals, cfg *config.Config) *FromBouncer {
	u := &FromBouncer{}
	u.init("FromBouncer", keyguard.Bouncer, repo, signals, cfg)

	return u
}

// Activate implements Interactor.
func (u *FromBouncer) Activate(ctx context.Context) {
	u.activate(ctx, u.react,
		watchWakefulness,
		watchPrimaryBouncer,
		watchBiometric,
		watchOccluded,
		watchDreaming,
	)
}

func (u *FromBouncer) react(ctx context.Context, snap Snapshot) {
	switch {
	case !snap.Wake.IsAwake():
		u.request(ctx, keyguard.AOD)
	case snap.Authenticated():
		u.request(ctx, keyguard.Gone)
	case !snap.PrimaryBouncer:
		// The prompt was dismissed without auth; fall back to whatever is
		// underneath it.
		switch {
		case snap.Occluded:
			u.request(ctx, keyguard.Occluded)
		case snap.Dreaming:
			u.request(ctx, keyguard.Dreaming)
		default:
			u.request(ctx, keyguard.Lockscreen)
		}
	}
}
