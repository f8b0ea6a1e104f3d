package keyguard

import (
	"fmt"

	"github.com/google/uuid"
)

// TransitionState is the lifecycle phase of a single transition instance.
// Steps for one instance are emitted in the order Started, zero or more
// Running, then exactly one of Finished or Canceled.
type TransitionState string

const (
	Started  = TransitionState("STARTED")
	Running  = TransitionState("RUNNING")
	Finished = TransitionState("FINISHED")
	Canceled = TransitionState("CANCELED")
)

func (t TransitionState) String() string {
	return string(t)
}

// Terminal returns true for the phases that close a transition instance.
func (t TransitionState) Terminal() bool {
	return t == Finished || t == Canceled
}

// TransitionStep is an immutable progress record. Steps are produced only by
// the transition repository and form the single source of truth for "where is
// the lock surface now". A step is never mutated after emission, only
// superseded by later steps.
type TransitionStep struct {
	// ID identifies the transition instance this step belongs to.
	ID uuid.UUID
	// From is the state the transition departs.
	From State
	// To is the state the transition targets.
	To State
	// Value is the progress fraction in [0,1]. It is 0 on Started, monotone
	// non-decreasing across Running steps, exactly 1 on Finished, and holds
	// the last reached fraction on Canceled.
	Value float64
	// State is the lifecycle phase of this step.
	State TransitionState
	// Owner names the policy unit that requested the transition.
	Owner string
}

func (s TransitionStep) String() string {
	return fmt.Sprintf("%s -> %s %s(%.2f) by %s", s.From, s.To, s.State, s.Value, s.Owner)
}
