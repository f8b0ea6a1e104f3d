package interactor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/logger"
	"github.com/amp-labs/lockstate/transition"
)

// ErrDuplicateSource indicates two policy units bound to the same state.
var ErrDuplicateSource = errors.New("duplicate interactor source state")

// Supervisor keeps exactly one policy unit active: the one bound to the
// repository's confirmed current state. It watches the terminal steps of the
// step stream and swaps activations as the confirmed state moves.
type Supervisor struct {
	repo  *transition.Repository
	units map[keyguard.State]Interactor
	log   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSupervisor wires units to a repository. Each unit must be bound to a
// distinct source state; states without a unit simply have no transition-out
// policy.
func NewSupervisor(repo *transition.Repository, units ...Interactor) (*Supervisor, error) {
	byState := make(map[keyguard.State]Interactor, len(units))

	for _, u := range units {
		if _, dup := byState[u.Source()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSource, u.Source())
		}

		byState[u.Source()] = u
	}

	return &Supervisor{
		repo:  repo,
		units: byState,
		log:   logger.Get(),
	}, nil
}

// SetLogger overrides the supervisor's logger. Meant for tests.
func (s *Supervisor) SetLogger(log *slog.Logger) {
	s.log = log
}

// Start activates the unit for the current state and begins following the
// step stream. Call Stop to tear down.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()

	if s.cancel != nil {
		s.mu.Unlock()

		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.mu.Unlock()

	steps := s.repo.Steps(runCtx)

	current := s.repo.CurrentState()
	s.setActive(runCtx, current)

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		for step := range steps {
			if !step.State.Terminal() {
				continue
			}

			confirmed := step.To
			if step.State == keyguard.Canceled {
				confirmed = step.From
			}

			if confirmed == current {
				continue
			}

			s.log.Debug("confirmed state moved", "from", current, "to", confirmed)

			current = confirmed
			s.setActive(runCtx, current)
		}
	}()
}

// Stop deactivates everything and waits for the supervisor to wind down.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	s.wg.Wait()

	for _, u := range s.units {
		u.Deactivate()
	}
}

// setActive deactivates every unit except the one bound to state, then
// activates that one. Deactivation first: the old unit must be unable to
// request transitions by the time the new one can.
func (s *Supervisor) setActive(ctx context.Context, state keyguard.State) {
	for source, u := range s.units {
		if source != state {
			u.Deactivate()
		}
	}

	if u, ok := s.units[state]; ok {
		u.Activate(ctx)
	} else {
		s.log.Warn("no policy unit bound to state", "state", state)
	}
}
