package transition

// HintKind names a UI hint whose shown/hidden flag the repository owns.
// Renderers read the flags; policy units set them. Keeping them here, behind
// repository operations, avoids the flags being passed around as a shared
// mutable bag.
type HintKind string

const (
	// HintFingerprintAffordance is the fingerprint icon nudge on the lockscreen.
	HintFingerprintAffordance = HintKind("FINGERPRINT_AFFORDANCE")
	// HintFaceScanning is the face-auth scanning indicator.
	HintFaceScanning = HintKind("FACE_SCANNING")
	// HintSwipeToUnlock is the swipe-up affordance shown after auth succeeds.
	HintSwipeToUnlock = HintKind("SWIPE_TO_UNLOCK")
)

// HintKinds lists every known hint.
func HintKinds() []HintKind {
	return []HintKind{HintFingerprintAffordance, HintFaceScanning, HintSwipeToUnlock}
}

// hintFlags is the repository-owned hint state. One explicit field per hint.
type hintFlags struct {
	fingerprintAffordance bool
	faceScanning          bool
	swipeToUnlock         bool
}

// HintShown reports whether the given hint is currently shown. Unknown kinds
// read as hidden.
func (r *Repository) HintShown(kind HintKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch kind {
	case HintFingerprintAffordance:
		return r.hints.fingerprintAffordance
	case HintFaceScanning:
		return r.hints.faceScanning
	case HintSwipeToUnlock:
		return r.hints.swipeToUnlock
	default:
		return false
	}
}

// SetHintShown records a hint's shown/hidden flag. Unknown kinds are ignored.
func (r *Repository) SetHintShown(kind HintKind, shown bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch kind {
	case HintFingerprintAffordance:
		r.hints.fingerprintAffordance = shown
	case HintFaceScanning:
		r.hints.faceScanning = shown
	case HintSwipeToUnlock:
		r.hints.swipeToUnlock = shown
	}
}
