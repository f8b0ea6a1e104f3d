package keyguard

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors for TransitionInfo.
var (
	// ErrOwnerRequired indicates that a transition owner name is required.
	ErrOwnerRequired = errors.New("transition owner is required")
	// ErrInvalidState indicates that a from/to state is not a member of the closed set.
	ErrInvalidState = errors.New("invalid keyguard state")
	// ErrSelfTransition indicates that from and to name the same state.
	ErrSelfTransition = errors.New("transition from and to must differ")
	// ErrNegativeDuration indicates a negative progress duration.
	ErrNegativeDuration = errors.New("transition duration must not be negative")
)

// DefaultFrameInterval is the progress tick used when a ProgressMode does not
// set one. It approximates a 60Hz frame cadence.
const DefaultFrameInterval = 16 * time.Millisecond

// ProgressMode describes how a transition's progress fraction advances over
// time. A zero Duration means a jump-cut: Started is followed immediately by
// the terminal step with no Running frames.
type ProgressMode struct {
	// Duration is the total wall-clock time the transition takes.
	Duration time.Duration
	// FrameInterval is the spacing of Running steps. Zero selects
	// DefaultFrameInterval.
	FrameInterval time.Duration
}

// Interval returns the effective frame interval.
func (m ProgressMode) Interval() time.Duration {
	if m.FrameInterval <= 0 {
		return DefaultFrameInterval
	}

	return m.FrameInterval
}

// TransitionInfo is the request record a policy unit submits to open a new
// transition. It is consumed exactly once by the repository.
type TransitionInfo struct {
	// Owner names the requesting policy unit, for steps, logs and metrics.
	Owner string
	// From is the state the requester believes is current.
	From State
	// To is the destination state.
	To State
	// Mode controls progress pacing.
	Mode ProgressMode
}

// Validate checks the request record before it is admitted.
func (i TransitionInfo) Validate() error {
	if i.Owner == "" {
		return ErrOwnerRequired
	}

	if !i.From.Valid() {
		return fmt.Errorf("%w: from %q", ErrInvalidState, i.From)
	}

	if !i.To.Valid() {
		return fmt.Errorf("%w: to %q", ErrInvalidState, i.To)
	}

	if i.From == i.To {
		return fmt.Errorf("%w: %q", ErrSelfTransition, i.From)
	}

	if i.Mode.Duration < 0 {
		return ErrNegativeDuration
	}

	return nil
}

func (i TransitionInfo) String() string {
	return fmt.Sprintf("%s -> %s (owner %s, %s)", i.From, i.To, i.Owner, i.Mode.Duration)
}
