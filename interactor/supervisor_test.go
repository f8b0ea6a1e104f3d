package interactor

import (
	"context"
	"testing"
	"time"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/optional"
	"github.com/amp-labs/lockstate/signal"
)

func TestSupervisorRejectsDuplicateSources(t *testing.T) {
	t.Parallel()

	f := newFixture(t, keyguard.Lockscreen)

	_, err := NewSupervisor(f.repo,
		NewFromLockscreen(f.repo, f.signals(), f.cfg),
		NewFromLockscreen(f.repo, f.signals(), f.cfg),
	)
	require.ErrorIs(t, err, ErrDuplicateSource)
}

func TestSupervisorSwapsUnitsAcrossStates(t *testing.T) {
	t.Parallel()

	f := newFixture(t, keyguard.Lockscreen)
	log := slogt.New(t)

	fromLockscreen := NewFromLockscreen(f.repo, f.signals(), f.cfg)
	fromLockscreen.SetLogger(log)

	fromBouncer := NewFromBouncer(f.repo, f.signals(), f.cfg)
	fromBouncer.SetLogger(log)

	sup, err := NewSupervisor(f.repo, fromLockscreen, fromBouncer)
	require.NoError(t, err)
	sup.SetLogger(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	steps := f.repo.Steps(ctx)

	sup.Start(ctx)
	defer sup.Stop()

	// The lockscreen unit is active; raising the credential prompt moves us.
	f.primary.Set(true)
	awaitFinished(t, steps, keyguard.Bouncer)

	// Now the bouncer unit must be the one reacting: a successful credential
	// entry dismisses.
	f.primary.Set(false)
	f.biometric.Set(optional.Some(true))
	awaitFinished(t, steps, keyguard.Gone)
	assert.Equal(t, keyguard.Gone, f.repo.CurrentState())

	// No unit is bound to Gone in this arrangement, so nothing else fires.
	f.biometric.Set(optional.None[bool]())
	assertNoSteps(t, steps, 80*time.Millisecond)
}

func TestSupervisorStopQuiescesEverything(t *testing.T) {
	t.Parallel()

	f := newFixture(t, keyguard.Lockscreen)

	fromLockscreen := NewFromLockscreen(f.repo, f.signals(), f.cfg)
	fromLockscreen.SetLogger(slogt.New(t))

	sup, err := NewSupervisor(f.repo, fromLockscreen)
	require.NoError(t, err)
	sup.SetLogger(slogt.New(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sup.Start(ctx)
	sup.Stop()

	steps := f.repo.Steps(ctx)

	f.wake.Set(signal.AsleepFor(signal.ReasonTimeout))

	assertNoSteps(t, steps, 80*time.Millisecond)
	assert.Equal(t, keyguard.Lockscreen, f.repo.CurrentState())
}
