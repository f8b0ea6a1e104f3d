// Package keyguard defines the model types for the lock-surface transition
// machine: the closed set of lock states, the immutable progress steps a
// transition emits, and the request record used to open a new transition.
package keyguard

// State is one of the closed set of mutually exclusive lock-surface states.
// Exactly one State is current at any instant.
type State string

const (
	// Lockscreen is the locked, idle state.
	Lockscreen = State("LOCKSCREEN")
	// Bouncer is the primary credential prompt (PIN/pattern/password).
	Bouncer = State("BOUNCER")
	// AlternateBouncer is the lightweight biometric prompt overlay.
	AlternateBouncer = State("ALTERNATE_BOUNCER")
	// Occluded means an activity is drawing over the lock surface.
	Occluded = State("OCCLUDED")
	// Dreaming means a screensaver/dream owns the display.
	Dreaming = State("DREAMING")
	// Gone means the device is unlocked and the lock surface is dismissed.
	Gone = State("GONE")
	// AOD is the always-on/dozing display state while asleep.
	AOD = State("AOD")
)

// States lists every valid State. The set is closed: policy units are
// selected by state tag, never by open-ended subtyping.
func States() []State {
	return []State{
		Lockscreen,
		Bouncer,
		AlternateBouncer,
		Occluded,
		Dreaming,
		Gone,
		AOD,
	}
}

// Valid returns true if s is a member of the closed state set.
func (s State) Valid() bool {
	switch s {
	case Lockscreen, Bouncer, AlternateBouncer, Occluded, Dreaming, Gone, AOD:
		return true
	default:
		return false
	}
}

func (s State) String() string {
	return string(s)
}
