package interactor

import (
	"sync"
	"time"
)

// slot is the single-slot pending guard action a unit owns. Arming replaces
// (and cancels) whatever was pending before, so timers never accumulate.
// Disarming prevents the action from firing at all; the action itself is
// expected to re-sample its trigger condition at fire time so a fire that
// races a disarm still cannot act on stale facts.
type slot struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending sync.WaitGroup
}

// Arm schedules fire after delay, replacing any pending action.
func (s *slot) Arm(delay time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	s.pending.Add(1)
	s.timer = time.AfterFunc(delay, func() {
		defer s.pending.Done()
		fire()
	})
}

// Disarm cancels the pending action, if any.
func (s *slot) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

// Wait blocks until no fire callback is running. A timer that was stopped
// before firing does not count.
func (s *slot) Wait() {
	s.pending.Wait()
}

func (s *slot) stopLocked() {
	if s.timer == nil {
		return
	}

	if s.timer.Stop() {
		// Stopped before firing; the callback will never run.
		s.pending.Done()
	}

	s.timer = nil
}
