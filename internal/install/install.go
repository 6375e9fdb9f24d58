// Package install sequences a full provisioning run. Stages execute strictly
// in order and the first failure aborts the run; re-running from the start is
// the only recovery path, so every stage must tolerate repetition.
package install

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"dfrsetup/internal/configlayer"
	"dfrsetup/internal/deploy"
	"dfrsetup/internal/journal"
	"dfrsetup/internal/logging"
	"dfrsetup/internal/pkgmgr"
	"dfrsetup/internal/plan"
	"dfrsetup/internal/preflight"
	"dfrsetup/internal/runner"
	"dfrsetup/internal/services/cargo"
	"dfrsetup/internal/systemd"
	"dfrsetup/internal/userenv"
)

// ErrLocked indicates another dfrsetup install holds the instance lock.
var ErrLocked = errors.New("another install is already running")

// ErrHardwareDeclined indicates the hardware allow-list did not match and the
// operator did not confirm.
var ErrHardwareDeclined = errors.New("hardware not confirmed")

// State names the progress points of a run.
type State string

const (
	StateNotStarted         State = "not_started"
	StatePreflightPassed    State = "preflight_passed"
	StateDependenciesReady  State = "dependencies_ready"
	StateBuilt              State = "built"
	StateArtifactsDeployed  State = "artifacts_deployed"
	StateEnvironmentProbed  State = "environment_probed"
	StateConfigsLayered     State = "configs_layered"
	StateEnvConfigWritten   State = "env_config_written"
	StateConfigPatched      State = "config_patched"
	StateServicesRestarted  State = "services_restarted"
	StateAborted            State = "aborted"
)

// Options carries the operator-facing switches of the install command.
type Options struct {
	// SkipDeps bypasses package-manager detection and installation.
	SkipDeps bool
	// AssumeYes supplies consent for the hardware-mismatch prompt.
	AssumeYes bool
	// Confirm asks the operator whether to proceed on a hardware mismatch.
	// Nil means no interactive channel is available, which aborts on
	// mismatch unless AssumeYes is set.
	Confirm func(model string) (bool, error)
}

// Config wires the orchestrator's collaborators.
type Config struct {
	Plan     plan.Plan
	Priv     runner.Runner
	Builder  cargo.Builder
	Deployer *deploy.Deployer
	Layers   *configlayer.Manager
	Systemd  *systemd.Controller
	// Journal records run history; nil disables recording.
	Journal *journal.Journal
	// LockDir holds the single-instance lock file; empty disables locking.
	LockDir string
	Logger  *slog.Logger
	Options Options
}

// Orchestrator drives the provisioning state machine.
type Orchestrator struct {
	cfg    Config
	logger *slog.Logger
	state  State

	// test seams
	checkPrivilege func() preflight.Result
	checkHardware  func(plan.Plan) preflight.Result
	detectManager  func() pkgmgr.Manager
	probe          func(root string) (userenv.UserEnvironment, error)
}

// New constructs an Orchestrator from cfg.
func New(cfg Config) *Orchestrator {
	return &Orchestrator{
		cfg:            cfg,
		logger:         logging.NewComponentLogger(cfg.Logger, "install"),
		state:          StateNotStarted,
		checkPrivilege: preflight.CheckPrivilege,
		checkHardware:  preflight.CheckHardware,
		detectManager:  pkgmgr.Detect,
		probe:          userenv.Probe,
	}
}

// State returns the current progress point.
func (o *Orchestrator) State() State {
	return o.state
}

type stage struct {
	name  string
	state State
	run   func(ctx context.Context) error
}

// Run executes the full stage sequence. The returned error is the first stage
// failure; the run state is StateAborted afterwards.
func (o *Orchestrator) Run(ctx context.Context) error {
	unlock, err := o.acquireLock()
	if err != nil {
		return err
	}
	defer unlock()

	runID := o.startRun(ctx)

	var env userenv.UserEnvironment
	stages := []stage{
		{"preflight", StatePreflightPassed, o.runPreflight},
		{"dependencies", StateDependenciesReady, o.runDependencies},
		{"build", StateBuilt, func(ctx context.Context) error {
			return o.cfg.Builder.Build(ctx, o.cfg.Plan.SourceDir)
		}},
		{"deploy", StateArtifactsDeployed, o.cfg.Deployer.Deploy},
		{"probe_environment", StateEnvironmentProbed, func(context.Context) error {
			probed, probeErr := o.probe(o.cfg.Plan.Root)
			if probeErr != nil {
				return probeErr
			}
			env = probed
			return nil
		}},
		{"layer_configs", StateConfigsLayered, func(ctx context.Context) error {
			return o.cfg.Layers.LayerAll(ctx, env)
		}},
		{"write_env_config", StateEnvConfigWritten, func(ctx context.Context) error {
			return o.cfg.Layers.WriteEnvFile(ctx, env)
		}},
		{"patch_config", StateConfigPatched, o.cfg.Layers.PatchMediaLayerDefault},
		{"restart_services", StateServicesRestarted, o.runRestart},
	}

	for _, s := range stages {
		o.logger.Info("stage starting", logging.String("stage", s.name))
		o.recordStageStart(ctx, runID, s.name)
		err := s.run(ctx)
		o.recordStageFinish(ctx, runID, s.name, err)
		if err != nil {
			o.state = StateAborted
			o.logger.Error("stage failed",
				logging.String("stage", s.name),
				logging.Error(err))
			o.finishRun(ctx, runID, err)
			return fmt.Errorf("%s: %w", s.name, err)
		}
		o.state = s.state
	}

	o.finishRun(ctx, runID, nil)
	o.logger.Info("provisioning complete")
	return nil
}

func (o *Orchestrator) runPreflight(_ context.Context) error {
	if res := o.checkPrivilege(); !res.Passed {
		return preflight.ErrRootUser
	}

	res := o.checkHardware(o.cfg.Plan)
	if res.Passed {
		o.logger.Info("hardware supported", logging.String("model", res.Detail))
		return nil
	}

	o.logger.Warn("hardware check did not pass", logging.String("detail", res.Detail))
	if o.cfg.Options.AssumeYes {
		o.logger.Warn("proceeding on operator consent (--yes)")
		return nil
	}
	if o.cfg.Options.Confirm == nil {
		return fmt.Errorf("%w: %s", ErrHardwareDeclined, res.Detail)
	}
	ok, err := o.cfg.Options.Confirm(res.Detail)
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrHardwareDeclined, res.Detail)
	}
	return nil
}

func (o *Orchestrator) runDependencies(ctx context.Context) error {
	if o.cfg.Options.SkipDeps {
		o.logger.Info("skipping dependency installation (--skip-deps)")
		return nil
	}
	mgr := o.detectManager()
	if mgr == pkgmgr.Unsupported {
		return pkgmgr.ErrUnsupported
	}
	o.logger.Info("installing build dependencies", logging.String("manager", mgr.String()))
	return pkgmgr.Install(ctx, o.cfg.Priv, mgr)
}

// runRestart enables both units, then restarts the main one. The restart is
// the last mutation of the run.
func (o *Orchestrator) runRestart(ctx context.Context) error {
	if err := o.cfg.Systemd.Enable(ctx, plan.UnitMain, plan.UnitResume); err != nil {
		return err
	}
	return o.cfg.Systemd.Restart(ctx, plan.UnitMain)
}

// acquireLock takes the single-instance lock. A held lock means another
// install is mutating the host concurrently.
func (o *Orchestrator) acquireLock() (func(), error) {
	if o.cfg.LockDir == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(o.cfg.LockDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure state directory: %w", err)
	}
	lock := flock.New(filepath.Join(o.cfg.LockDir, "install.lock"))
	got, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}
	if !got {
		return nil, ErrLocked
	}
	return func() { _ = lock.Unlock() }, nil
}

// Journal recording is best-effort; a broken journal must not block
// provisioning.

func (o *Orchestrator) startRun(ctx context.Context) string {
	if o.cfg.Journal == nil {
		return ""
	}
	id, err := o.cfg.Journal.StartRun(ctx)
	if err != nil {
		o.logger.Warn("journal unavailable", logging.Error(err))
		return ""
	}
	return id
}

func (o *Orchestrator) recordStageStart(ctx context.Context, runID, name string) {
	if o.cfg.Journal == nil || runID == "" {
		return
	}
	if err := o.cfg.Journal.StageStarted(ctx, runID, name); err != nil {
		o.logger.Warn("journal write failed", logging.Error(err))
	}
}

func (o *Orchestrator) recordStageFinish(ctx context.Context, runID, name string, stageErr error) {
	if o.cfg.Journal == nil || runID == "" {
		return
	}
	if err := o.cfg.Journal.StageFinished(ctx, runID, name, stageErr); err != nil {
		o.logger.Warn("journal write failed", logging.Error(err))
	}
}

func (o *Orchestrator) finishRun(ctx context.Context, runID string, runErr error) {
	if o.cfg.Journal == nil || runID == "" {
		return
	}
	state := string(StateServicesRestarted)
	if runErr != nil {
		state = string(StateAborted)
	}
	if err := o.cfg.Journal.FinishRun(ctx, runID, state, runErr); err != nil {
		o.logger.Warn("journal write failed", logging.Error(err))
	}
}
