package interactor

import (
	"context"

	"github.com/amp-labs/lockstate/config"
	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/transition"
)

// FromAOD decides where waking from the always-on display lands.
type FromAOD struct {
	base
}

// NewFromAOD creates the policy unit bound to AOD.
func NewFromAOD(repo *transition.Repository, signals Signals, cfg *config.Config) *FromAOD {
	u := &FromAOD{}
	u.init("FromAOD", keyguard.AOD, repo, signals, cfg)

	return u
}

// Activate implements Interactor.
func (u *FromAOD) Activate(ctx context.Context) {
	u.activate(ctx, u.react,
		watchWakefulness,
		watchBiometric,
		watchOccluded,
	)
}

func (u *FromAOD) react(ctx context.Context, snap Snapshot) {
	if !snap.Wake.IsAwake() {
		return
	}

	switch {
	case snap.Authenticated():
		// Wake-and-unlock: the fingerprint read that woke the device also
		// confirmed the user.
		u.request(ctx, keyguard.Gone)
	case snap.Occluded:
		u.request(ctx, keyguard.Occluded)
	default:
		u.request(ctx, keyguard.Lockscreen)
	}
}
