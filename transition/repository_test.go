package transition

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amp-labs/lockstate/keyguard"
)

// testContext stands in for testing.T.Context, which needs Go 1.24+: it
// returns a context canceled when the test finishes.
func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return ctx
}

const (
	testDuration = 40 * time.Millisecond
	testFrame    = 4 * time.Millisecond
	longDuration = 2 * time.Second
)

func info(owner string, from, to keyguard.State, duration time.Duration) keyguard.TransitionInfo {
	return keyguard.TransitionInfo{
		Owner: owner,
		From:  from,
		To:    to,
		Mode:  keyguard.ProgressMode{Duration: duration, FrameInterval: testFrame},
	}
}

func nextStep(t *testing.T, ch <-chan keyguard.TransitionStep) keyguard.TransitionStep {
	t.Helper()

	select {
	case step, ok := <-ch:
		require.True(t, ok, "step stream closed unexpectedly")

		return step
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for step")

		panic("unreachable")
	}
}

// collectInstance reads steps until the given instance reaches a terminal
// phase, returning all of its steps in order.
func collectInstance(t *testing.T, ch <-chan keyguard.TransitionStep) []keyguard.TransitionStep {
	t.Helper()

	var steps []keyguard.TransitionStep

	first := nextStep(t, ch)
	steps = append(steps, first)

	for !steps[len(steps)-1].State.Terminal() {
		step := nextStep(t, ch)
		if step.ID == first.ID {
			steps = append(steps, step)
		}
	}

	return steps
}

// assertWellFormed checks the per-instance step invariants: Started first,
// monotone Running values below 1, exactly one terminal step, Finished at
// exactly 1.
func assertWellFormed(t *testing.T, steps []keyguard.TransitionStep) {
	t.Helper()

	require.NotEmpty(t, steps)
	assert.Equal(t, keyguard.Started, steps[0].State)
	assert.Zero(t, steps[0].Value)

	last := steps[len(steps)-1]
	require.True(t, last.State.Terminal(), "sequence must end in a terminal step")

	prev := 0.0

	for _, step := range steps[1 : len(steps)-1] {
		require.Equal(t, keyguard.Running, step.State)
		assert.GreaterOrEqual(t, step.Value, prev, "running values must be monotone")
		assert.Less(t, step.Value, 1.0)
		prev = step.Value
	}

	if last.State == keyguard.Finished {
		assert.InDelta(t, 1.0, last.Value, 0)
	}
}

func TestTransitionRunsToCompletion(t *testing.T) {
	t.Parallel()

	repo, err := New(keyguard.Lockscreen)
	require.NoError(t, err)

	steps := repo.Steps(testContext(t))

	id, err := repo.Start(testContext(t), info("test", keyguard.Lockscreen, keyguard.Bouncer, testDuration))
	require.NoError(t, err)

	seq := collectInstance(t, steps)
	assertWellFormed(t, seq)

	assert.Equal(t, id, seq[0].ID)
	assert.Equal(t, keyguard.Finished, seq[len(seq)-1].State)
	assert.Greater(t, len(seq), 2, "expected Running frames between Started and Finished")
	assert.Equal(t, keyguard.Bouncer, repo.CurrentState())
	assert.True(t, repo.InFlight().Empty())
}

func TestJumpCutSkipsRunning(t *testing.T) {
	t.Parallel()

	repo, err := New(keyguard.Lockscreen)
	require.NoError(t, err)

	steps := repo.Steps(testContext(t))

	_, err = repo.Start(testContext(t), info("test", keyguard.Lockscreen, keyguard.AOD, 0))
	require.NoError(t, err)

	seq := collectInstance(t, steps)
	assertWellFormed(t, seq)

	require.Len(t, seq, 2)
	assert.Equal(t, keyguard.Started, seq[0].State)
	assert.Equal(t, keyguard.Finished, seq[1].State)
	assert.Equal(t, keyguard.AOD, repo.CurrentState())
}

// A request whose origin matches neither the confirmed state nor an
// in-flight destination fails with StaleOriginError and emits no step.
func TestStaleOriginWhileIdle(t *testing.T) {
	t.Parallel()

	repo, err := New(keyguard.Lockscreen)
	require.NoError(t, err)

	steps := repo.Steps(testContext(t))

	_, err = repo.Start(testContext(t), info("test", keyguard.Gone, keyguard.AOD, testDuration))
	require.ErrorIs(t, err, ErrStaleOrigin)

	var staleErr *StaleOriginError

	require.ErrorAs(t, err, &staleErr)
	assert.Equal(t, keyguard.Gone, staleErr.Requested)
	assert.Equal(t, keyguard.Lockscreen, staleErr.Confirmed)
	assert.True(t, staleErr.InFlight.Empty())

	select {
	case step := <-steps:
		t.Fatalf("unexpected step emitted: %v", step)
	case <-time.After(5 * testFrame):
	}

	assert.Equal(t, keyguard.Lockscreen, repo.CurrentState())
}

// A continuation request from the in-flight destination cancels
// the old instance (rolling back to its origin) and starts fresh, with no
// StaleOriginError.
func TestSupersedeContinuation(t *testing.T) {
	t.Parallel()

	repo, err := New(keyguard.Lockscreen)
	require.NoError(t, err)

	steps := repo.Steps(testContext(t))

	firstID, err := repo.Start(testContext(t), info("a", keyguard.Lockscreen, keyguard.Bouncer, longDuration))
	require.NoError(t, err)

	// Let the first instance get past Started.
	first := nextStep(t, steps)
	require.Equal(t, keyguard.Started, first.State)

	secondID, err := repo.Start(testContext(t), info("b", keyguard.Bouncer, keyguard.Lockscreen, testDuration))
	require.NoError(t, err)

	var (
		sawCanceled bool
		terminal    keyguard.TransitionStep
	)

	for {
		step := nextStep(t, steps)

		if step.ID == firstID {
			require.NotEqual(t, keyguard.Finished, step.State, "superseded instance must never finish")

			if step.State == keyguard.Canceled {
				assert.False(t, sawCanceled, "exactly one Canceled step")
				assert.Equal(t, keyguard.Lockscreen, step.From, "cancel rolls back to the origin")

				sawCanceled = true
			}

			continue
		}

		require.Equal(t, secondID, step.ID)
		require.True(t, sawCanceled, "old instance must be canceled before the new one starts")

		if step.State.Terminal() {
			terminal = step

			break
		}
	}

	assert.Equal(t, keyguard.Finished, terminal.State)
	assert.Equal(t, keyguard.Lockscreen, repo.CurrentState())
}

func TestSupersedeFromConfirmedState(t *testing.T) {
	t.Parallel()

	repo, err := New(keyguard.Lockscreen)
	require.NoError(t, err)

	_, err = repo.Start(testContext(t), info("a", keyguard.Lockscreen, keyguard.Gone, longDuration))
	require.NoError(t, err)

	// A fresh request from the confirmed state wins over the unlock in
	// progress: recency beats in-flight.
	_, err = repo.Start(testContext(t), info("b", keyguard.Lockscreen, keyguard.AOD, testDuration))
	require.NoError(t, err)

	inFlight, ok := repo.InFlight().Get()
	require.True(t, ok)
	assert.Equal(t, keyguard.AOD, inFlight.To)

	require.Eventually(t, func() bool {
		return repo.CurrentState() == keyguard.AOD
	}, 2*time.Second, testFrame)
}

func TestStaleOriginMidFlight(t *testing.T) {
	t.Parallel()

	repo, err := New(keyguard.Lockscreen)
	require.NoError(t, err)

	_, err = repo.Start(testContext(t), info("a", keyguard.Lockscreen, keyguard.Bouncer, longDuration))
	require.NoError(t, err)

	_, err = repo.Start(testContext(t), info("b", keyguard.Gone, keyguard.AOD, testDuration))
	require.ErrorIs(t, err, ErrStaleOrigin)

	var staleErr *StaleOriginError

	require.ErrorAs(t, err, &staleErr)

	inFlightTo, ok := staleErr.InFlight.Get()
	require.True(t, ok)
	assert.Equal(t, keyguard.Bouncer, inFlightTo)

	// The in-flight transition is unaffected.
	current, ok := repo.InFlight().Get()
	require.True(t, ok)
	assert.Equal(t, keyguard.Bouncer, current.To)
}

func TestCancelInFlightIsImmediate(t *testing.T) {
	t.Parallel()

	repo, err := New(keyguard.Lockscreen)
	require.NoError(t, err)

	steps := repo.Steps(testContext(t))

	id, err := repo.Start(testContext(t), info("test", keyguard.Lockscreen, keyguard.Bouncer, longDuration))
	require.NoError(t, err)

	require.Equal(t, keyguard.Started, nextStep(t, steps).State)

	repo.CancelInFlight(testContext(t))

	// Drain everything already emitted; the last step of the instance must
	// be Canceled and nothing may follow it.
	var last keyguard.TransitionStep

	for {
		step := nextStep(t, steps)
		if step.State.Terminal() {
			last = step

			break
		}
	}

	require.Equal(t, keyguard.Canceled, last.State)
	assert.Equal(t, id, last.ID)
	assert.Equal(t, keyguard.Lockscreen, repo.CurrentState())

	select {
	case step := <-steps:
		t.Fatalf("step emitted after cancel returned: %v", step)
	case <-time.After(10 * testFrame):
	}

	// Cancel with nothing in flight is a no-op.
	repo.CancelInFlight(testContext(t))
}

func TestStepsReplaysLatest(t *testing.T) {
	t.Parallel()

	repo, err := New(keyguard.Lockscreen)
	require.NoError(t, err)

	// Fresh repository, no steps yet: nothing to replay.
	early := repo.Steps(testContext(t))

	_, err = repo.Start(testContext(t), info("test", keyguard.Lockscreen, keyguard.AOD, 0))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return repo.CurrentState() == keyguard.AOD
	}, 2*time.Second, testFrame)

	late := repo.Steps(testContext(t))

	replayed := nextStep(t, late)
	assert.Equal(t, keyguard.Finished, replayed.State)
	assert.Equal(t, keyguard.AOD, replayed.To)

	// The earlier subscriber observed the same steps, in order.
	assert.Equal(t, keyguard.Started, nextStep(t, early).State)
	assert.Equal(t, keyguard.Finished, nextStep(t, early).State)
}

func TestStartValidatesInfo(t *testing.T) {
	t.Parallel()

	repo, err := New(keyguard.Lockscreen)
	require.NoError(t, err)

	_, err = repo.Start(testContext(t), keyguard.TransitionInfo{
		From: keyguard.Lockscreen,
		To:   keyguard.Bouncer,
	})
	require.ErrorIs(t, err, keyguard.ErrOwnerRequired)
}

func TestNewRejectsInvalidInitialState(t *testing.T) {
	t.Parallel()

	_, err := New(keyguard.State("BOGUS"))
	require.ErrorIs(t, err, ErrInitialStateInvalid)
}

func TestHintFlags(t *testing.T) {
	t.Parallel()

	repo, err := New(keyguard.Lockscreen)
	require.NoError(t, err)

	assert.False(t, repo.HintShown(HintFingerprintAffordance))

	repo.SetHintShown(HintFingerprintAffordance, true)
	repo.SetHintShown(HintSwipeToUnlock, true)

	assert.True(t, repo.HintShown(HintFingerprintAffordance))
	assert.True(t, repo.HintShown(HintSwipeToUnlock))
	assert.False(t, repo.HintShown(HintFaceScanning))

	repo.SetHintShown(HintFingerprintAffordance, false)
	assert.False(t, repo.HintShown(HintFingerprintAffordance))

	assert.False(t, repo.HintShown(HintKind("UNKNOWN")))
}
