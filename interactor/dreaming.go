package interactor

import (
	"context"

	"github.com/amp-labs/lockstate/config"
	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/transition"
)

// FromDreaming decides when to leave the screensaver state. The dream-ended
// path is guarded because the dream flag can flap while the dream service
// restarts its renderer.
type FromDreaming struct {
	base

	lastDreaming bool
}

// NewFromDreaming creates the policy unit bound to Dreaming.
func NewFromDreaming(repo *transition.Repository, signals Signals, cfg *config.Config) *FromDreaming {
	u := &FromDreaming{}
	u.init("FromDreaming", keyguard.Dreaming, repo, signals, cfg)

	return u
}

// Activate implements Interactor.
func (u *FromDreaming) Activate(ctx context.Context) {
	u.lastDreaming = true

	u.activate(ctx, u.react,
		watchWakefulness,
		watchBiometric,
		watchOccluded,
		watchDreaming,
	)
}

func (u *FromDreaming) react(ctx context.Context, snap Snapshot) {
	switch {
	case !snap.Wake.IsAwake():
		u.guard.Disarm()
		u.request(ctx, keyguard.AOD)

		return
	case snap.Authenticated():
		u.guard.Disarm()
		u.request(ctx, keyguard.Gone)

		return
	case snap.Occluded:
		u.guard.Disarm()
		u.request(ctx, keyguard.Occluded)

		return
	}

	dreaming := snap.Dreaming

	if dreaming {
		u.guard.Disarm()
	} else if u.lastDreaming {
		u.armDreamEndGuard(ctx)
	}

	u.lastDreaming = dreaming
}

func (u *FromDreaming) armDreamEndGuard(ctx context.Context) {
	guardArmedTotal.WithLabelValues(u.owner).Inc()

	u.guard.Arm(u.cfg.DreamEndDelay, func() {
		if ctx.Err() != nil {
			return
		}

		snap := u.signals.Sample()
		if snap.Dreaming || !snap.Wake.IsAwake() || snap.Occluded {
			guardStaleTotal.WithLabelValues(u.owner).Inc()

			return
		}

		guardFiredTotal.WithLabelValues(u.owner).Inc()
		u.request(ctx, keyguard.Lockscreen)
	})
}
