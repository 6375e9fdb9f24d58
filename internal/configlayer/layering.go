package configlayer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dfrsetup/internal/fileutil"
	"dfrsetup/internal/logging"
	"dfrsetup/internal/plan"
	"dfrsetup/internal/runner"
	"dfrsetup/internal/userenv"
)

// Manager copies tracked configuration files from the default tier into the
// system and user tiers. System-tier mutations go through the privileged
// runner; user-tier mutations are direct filesystem operations.
type Manager struct {
	plan   plan.Plan
	priv   runner.Runner
	logger *slog.Logger

	// now feeds backup timestamps; overridable in tests.
	now func() time.Time
}

// New constructs a Manager. logger may be nil.
func New(p plan.Plan, priv runner.Runner, logger *slog.Logger) *Manager {
	return &Manager{
		plan:   p,
		priv:   priv,
		logger: logging.NewComponentLogger(logger, "configlayer"),
		now:    time.Now,
	}
}

// LayerAll processes every tracked filename through both tiers, then hands
// the user configuration directory to the invoking account. One timestamp
// covers the whole run, so all backups from a single invocation share it.
func (m *Manager) LayerAll(ctx context.Context, env userenv.UserEnvironment) error {
	stamp := m.now()

	if err := m.priv.Run(ctx, "mkdir", "-p", m.plan.SystemTierDir()); err != nil {
		return fmt.Errorf("ensure system tier: %w", err)
	}
	userDir := m.plan.UserTierDir(env.HomeDir)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return fmt.Errorf("ensure user tier: %w", err)
	}

	for _, name := range plan.TrackedConfigFiles {
		if err := m.layerSystem(ctx, name, stamp); err != nil {
			return err
		}
		if err := m.layerUser(name, env.HomeDir, stamp); err != nil {
			return err
		}
	}

	if err := m.priv.Run(ctx, "chown", "-R", env.Username+":", userDir); err != nil {
		return fmt.Errorf("chown user config dir: %w", err)
	}
	return nil
}

// layerSystem backs up and overwrites one file at the system tier.
func (m *Manager) layerSystem(ctx context.Context, name string, stamp time.Time) error {
	defaultPath := filepath.Join(m.plan.DefaultTierDir(), name)
	systemPath := filepath.Join(m.plan.SystemTierDir(), name)

	if _, err := os.Stat(systemPath); err == nil {
		backup := fileutil.BackupPath(systemPath, stamp)
		if err := m.priv.Run(ctx, "cp", "-p", systemPath, backup); err != nil {
			return fmt.Errorf("back up %s: %w", systemPath, err)
		}
		m.logger.Info("backed up system config",
			logging.String("file", name),
			logging.String("backup", backup))
	}

	if err := m.priv.Run(ctx, "cp", defaultPath, systemPath); err != nil {
		return fmt.Errorf("copy %s to system tier: %w", name, err)
	}
	return nil
}

// layerUser backs up and overwrites one file at the user tier.
func (m *Manager) layerUser(name, home string, stamp time.Time) error {
	defaultPath := filepath.Join(m.plan.DefaultTierDir(), name)
	userPath := filepath.Join(m.plan.UserTierDir(home), name)

	if _, err := os.Stat(userPath); err == nil {
		backup := fileutil.BackupPath(userPath, stamp)
		if err := fileutil.CopyFile(userPath, backup); err != nil {
			return fmt.Errorf("back up %s: %w", userPath, err)
		}
		m.logger.Info("backed up user config",
			logging.String("file", name),
			logging.String("backup", backup))
	}

	if err := fileutil.CopyFile(defaultPath, userPath); err != nil {
		return fmt.Errorf("copy %s to user tier: %w", name, err)
	}
	return nil
}
