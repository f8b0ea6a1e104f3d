// Command lockstate-sim drives the lock-surface transition machine from an
// interactive menu. Each menu item flips one raw signal; the policy units
// react and the step stream is printed as transitions progress.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/amp-labs/lockstate/cli"
	"github.com/amp-labs/lockstate/config"
	"github.com/amp-labs/lockstate/interactor"
	"github.com/amp-labs/lockstate/keyguard"
	"github.com/amp-labs/lockstate/logger"
	"github.com/amp-labs/lockstate/optional"
	"github.com/amp-labs/lockstate/sched"
	"github.com/amp-labs/lockstate/shutdown"
	"github.com/amp-labs/lockstate/signal"
	"github.com/amp-labs/lockstate/telemetry"
	"github.com/amp-labs/lockstate/transition"
)

const (
	menuWakeSleep        = "Toggle wake / sleep"
	menuOccluded         = "Toggle occluding activity"
	menuBiometricOK      = "Biometric: confirmed read"
	menuBiometricReset   = "Biometric: reset"
	menuPrimaryBouncer   = "Toggle primary bouncer"
	menuAlternateBouncer = "Toggle alternate bouncer"
	menuDreaming         = "Toggle dreaming"
	menuCancel           = "Cancel in-flight transition"
	menuStatus           = "Show status"
	menuQuit             = "Quit"
)

// sim bundles the writable signals with the machine they feed.
type sim struct {
	repo *transition.Repository

	wake      *signal.Var[signal.Wakefulness]
	occluded  *signal.Var[bool]
	biometric *signal.Var[optional.Value[bool]]
	primary   *signal.Var[bool]
	alternate *signal.Var[bool]
	dreaming  *signal.Var[bool]
}

func main() {
	log := logger.ConfigureLogging("lockstate-sim")
	ctx := shutdown.SetupHandler()

	if err := run(ctx); err != nil && !errors.Is(err, cli.ErrAborted) {
		log.Error("simulator failed", "error", err)
		shutdown.Shutdown()
		os.Exit(1)
	}

	shutdown.Shutdown()
}

func run(ctx context.Context) error {
	log := logger.Get(ctx)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("loading pacing config: %w", err)
	}

	if err := telemetry.Initialize(ctx, telemetry.LoadConfigFromEnv(os.Getenv("LOCKSTATE_ENV"))); err != nil {
		log.Warn("tracing disabled", "error", err)
	}

	shutdown.BeforeShutdown(func() {
		if err := telemetry.ShutdownTracing(context.Background()); err != nil {
			log.Warn("failed to flush traces", "error", err)
		}
	})

	repo, err := transition.New(keyguard.Lockscreen)
	if err != nil {
		return err
	}

	s := &sim{
		repo:      repo,
		wake:      signal.NewVar(signal.AwakeFor(signal.ReasonPowerButton)),
		occluded:  signal.NewVar(false),
		biometric: signal.NewVar(optional.None[bool]()),
		primary:   signal.NewVar(false),
		alternate: signal.NewVar(false),
		dreaming:  signal.NewVar(false),
	}

	signals := interactor.Signals{
		Wakefulness:      s.wake,
		Occluded:         s.occluded,
		Biometric:        s.biometric,
		PrimaryBouncer:   s.primary,
		AlternateBouncer: s.alternate,
		Dreaming:         s.dreaming,
	}

	sup, err := interactor.NewSupervisor(repo,
		interactor.NewFromLockscreen(repo, signals, cfg),
		interactor.NewFromBouncer(repo, signals, cfg),
		interactor.NewFromAlternateBouncer(repo, signals, cfg),
		interactor.NewFromOccluded(repo, signals, cfg),
		interactor.NewFromDreaming(repo, signals, cfg),
		interactor.NewFromGone(repo, signals, cfg),
		interactor.NewFromAOD(repo, signals, cfg),
	)
	if err != nil {
		return err
	}

	sup.Start(ctx)
	shutdown.BeforeShutdown(sup.Stop)

	if err := sched.Go(func() { printSteps(ctx, repo) }); err != nil {
		return err
	}

	fmt.Print(cli.Banner("lockstate simulator | state: " + string(repo.CurrentState())))

	return menuLoop(ctx, s)
}

// printSteps mirrors the step stream to stdout. Running steps are elided;
// they arrive every frame and would drown the menu.
func printSteps(ctx context.Context, repo *transition.Repository) {
	for step := range repo.Steps(ctx) {
		if step.State == keyguard.Running {
			continue
		}

		fmt.Printf("  [%s] %s -> %s (%s, value=%.2f)\n",
			step.State, step.From, step.To, step.Owner, step.Value)
	}
}

func menuLoop(ctx context.Context, s *sim) error {
	items := []string{
		menuWakeSleep,
		menuOccluded,
		menuBiometricOK,
		menuBiometricReset,
		menuPrimaryBouncer,
		menuAlternateBouncer,
		menuDreaming,
		menuCancel,
		menuStatus,
		menuQuit,
	}

	for ctx.Err() == nil {
		choice, err := cli.Select("Signal", items)
		if err != nil {
			return err
		}

		switch choice {
		case menuWakeSleep:
			if s.wake.Value().IsAwake() {
				s.wake.Set(signal.AsleepFor(signal.ReasonPowerButton))
			} else {
				s.wake.Set(signal.AwakeFor(signal.ReasonPowerButton))
			}
		case menuOccluded:
			s.occluded.Set(!s.occluded.Value())
		case menuBiometricOK:
			s.biometric.Set(optional.Some(true))
		case menuBiometricReset:
			s.biometric.Set(optional.None[bool]())
		case menuPrimaryBouncer:
			s.primary.Set(!s.primary.Value())
		case menuAlternateBouncer:
			s.alternate.Set(!s.alternate.Value())
		case menuDreaming:
			s.dreaming.Set(!s.dreaming.Value())
		case menuCancel:
			s.repo.CancelInFlight(ctx)
		case menuStatus:
			printStatus(s)
		case menuQuit:
			return nil
		}
	}

	return nil
}

func printStatus(s *sim) {
	fmt.Printf("  state: %s\n", s.repo.CurrentState())

	if fl, ok := s.repo.InFlight().Get(); ok {
		fmt.Printf("  in flight: %s -> %s (%s)\n", fl.From, fl.To, fl.Owner)
	} else {
		fmt.Println("  in flight: none")
	}

	fmt.Printf("  wake=%v occluded=%v biometric=%v primary=%v alternate=%v dreaming=%v\n",
		s.wake.Value().State,
		s.occluded.Value(),
		s.biometric.Value().GetOrElse(false),
		s.primary.Value(),
		s.alternate.Value(),
		s.dreaming.Value(),
	)

	for _, kind := range transition.HintKinds() {
		fmt.Printf("  hint %s shown=%v\n", kind, s.repo.HintShown(kind))
	}
}
