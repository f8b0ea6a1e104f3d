package signal

// WakeState is the coarse power state of the display.
type WakeState string

const (
	Awake  = WakeState("AWAKE")
	Asleep = WakeState("ASLEEP")
)

// WakeReason reports what caused the latest wake or sleep edge. Policy units
// use it to distinguish wake-and-unlock from an ordinary wake.
type WakeReason string

const (
	ReasonUnknown     = WakeReason("UNKNOWN")
	ReasonPowerButton = WakeReason("POWER_BUTTON")
	ReasonBiometric   = WakeReason("BIOMETRIC")
	ReasonLift        = WakeReason("LIFT")
	ReasonTimeout     = WakeReason("TIMEOUT")
)

// Wakefulness is the value carried by the power signal.
type Wakefulness struct {
	State  WakeState
	Reason WakeReason
}

// IsAwake returns true while the display is awake.
func (w Wakefulness) IsAwake() bool {
	return w.State == Awake
}

// AwakeFor builds an awake value with the given reason.
func AwakeFor(reason WakeReason) Wakefulness {
	return Wakefulness{State: Awake, Reason: reason}
}

// AsleepFor builds an asleep value with the given reason.
func AsleepFor(reason WakeReason) Wakefulness {
	return Wakefulness{State: Asleep, Reason: reason}
}
