package transition

import (
	"errors"
	"fmt"

	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/optional"
)

// Sentinel errors.
var (
	// ErrStaleOrigin indicates a transition request whose declared origin
	// matches neither the confirmed state nor the in-flight destination. It
	// means two policy units raced on contradictory beliefs about the current
	// state; it is surfaced to the caller, never auto-corrected.
	ErrStaleOrigin = errors.New("stale transition origin")
	// ErrInitialStateInvalid indicates a repository constructed with a state
	// outside the closed set.
	ErrInitialStateInvalid = errors.New("initial state is invalid")
	// ErrSchedulerStopped indicates the frame scheduler refused the
	// progression task, usually because the process is shutting down.
	ErrSchedulerStopped = errors.New("frame scheduler stopped")
)

// StaleOriginError carries the disagreement behind an ErrStaleOrigin.
type StaleOriginError struct {
	// Owner is the requesting policy unit.
	Owner string
	// Requested is the origin the request declared.
	Requested keyguard.State
	// Confirmed is the repository's last confirmed state.
	Confirmed keyguard.State
	// InFlight is the destination of the in-flight transition, when one
	// existed at request time.
	InFlight optional.Value[keyguard.State]
}

func (e *StaleOriginError) Error() string {
	if to, ok := e.InFlight.Get(); ok {
		return fmt.Sprintf(
			"stale transition origin: %s requested from %s, but confirmed state is %s with %s in flight",
			e.Owner, e.Requested, e.Confirmed, to)
	}

	return fmt.Sprintf(
		"stale transition origin: %s requested from %s, but confirmed state is %s",
		e.Owner, e.Requested, e.Confirmed)
}

func (e *StaleOriginError) Unwrap() error {
	return ErrStaleOrigin
}
