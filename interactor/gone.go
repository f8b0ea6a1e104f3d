package interactor

import (
	"context"

	"github.com/amp-labs/lockstate/config"
	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/transition"
)

// FromGone decides when the unlocked device locks again. Occlusion is
// irrelevant here: an app over an unlocked surface is just an app.
type FromGone struct {
	base
}

// NewFromGone creates the policy unit bound to Gone.
func NewFromGone(repo *transition.Repository, signals Signals, cfg *config.Config) *FromGone {
	u := &FromGone{}
	u.init("FromGone", keyguard.Gone, repo, signals, cfg)

	return u
}

// Activate implements Interactor.
func (u *FromGone) Activate(ctx context.Context) {
	u.activate(ctx, u.react,
		watchWakefulness,
		watchDreaming,
	)
}

func (u *FromGone) react(ctx context.Context, snap Snapshot) {
	switch {
	case !snap.Wake.IsAwake():
		// Going to sleep relocks.
		u.request(ctx, keyguard.AOD)
	case snap.Dreaming:
		u.request(ctx, keyguard.Dreaming)
	}
}
