// Package deploy installs the built daemon binary and its auxiliary
// artifacts into their system locations.
package deploy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dfrsetup/internal/logging"
	"dfrsetup/internal/plan"
	"dfrsetup/internal/runner"
	"dfrsetup/internal/systemd"
	"dfrsetup/internal/udevctl"
)

// Deployer copies artifacts from the source checkout into the host. Every
// copy goes through the privileged runner and any failure is fatal; there is
// no partial-success continuation.
type Deployer struct {
	plan   plan.Plan
	priv   runner.Runner
	sysd   *systemd.Controller
	udev   *udevctl.Reloader
	logger *slog.Logger
}

// New constructs a Deployer. logger may be nil.
func New(p plan.Plan, priv runner.Runner, sysd *systemd.Controller, udev *udevctl.Reloader, logger *slog.Logger) *Deployer {
	return &Deployer{
		plan:   p,
		priv:   priv,
		sysd:   sysd,
		udev:   udev,
		logger: logging.NewComponentLogger(logger, "deploy"),
	}
}

// Deploy stops any running daemon instance, installs the binary, the default
// configuration bundle, both service units, the discovery helper, and the
// udev rules, then reloads and re-triggers udev.
//
// The stop comes first so the binary overwrite cannot hit a file that is
// mapped into a running process; a unit that is absent or already stopped is
// not an error.
func (d *Deployer) Deploy(ctx context.Context) error {
	if err := d.sysd.Stop(ctx, plan.UnitMain); err != nil {
		return err
	}

	built := d.plan.BuiltBinaryPath()
	if _, err := os.Stat(built); err != nil {
		return fmt.Errorf("build artifact missing at %s: %w", built, err)
	}
	if err := d.priv.Run(ctx, "install", "-D", "-m", "755", built, d.plan.BinaryPath()); err != nil {
		return fmt.Errorf("install binary: %w", err)
	}
	d.logger.Info("installed binary", logging.String("dst", d.plan.BinaryPath()))

	if err := d.priv.Run(ctx, "mkdir", "-p", d.plan.DefaultTierDir()); err != nil {
		return fmt.Errorf("ensure default tier: %w", err)
	}
	for _, name := range plan.TrackedConfigFiles {
		src := filepath.Join(d.plan.SourceShareDir(), name)
		dst := filepath.Join(d.plan.DefaultTierDir(), name)
		if err := d.priv.Run(ctx, "cp", src, dst); err != nil {
			return fmt.Errorf("install default config %s: %w", name, err)
		}
	}
	d.logger.Info("installed default configuration bundle",
		logging.Int("files", len(plan.TrackedConfigFiles)))

	for _, unit := range []string{plan.UnitMain, plan.UnitResume} {
		src := d.plan.SourceUnitPath(unit)
		dst := filepath.Join(d.plan.UnitDir(), unit)
		if err := d.priv.Run(ctx, "cp", src, dst); err != nil {
			return fmt.Errorf("install unit %s: %w", unit, err)
		}
	}
	if err := d.sysd.DaemonReload(ctx); err != nil {
		return err
	}
	d.logger.Info("installed service units")

	if err := d.priv.Run(ctx, "install", "-D", "-m", "755",
		d.plan.SourceHelperScriptPath(), d.plan.HelperScriptPath()); err != nil {
		return fmt.Errorf("install helper script: %w", err)
	}

	for _, rule := range plan.UdevRuleFiles {
		src := d.plan.SourceUdevRulePath(rule)
		dst := filepath.Join(d.plan.UdevRulesDir(), rule)
		if err := d.priv.Run(ctx, "cp", src, dst); err != nil {
			return fmt.Errorf("install udev rule %s: %w", rule, err)
		}
	}

	return d.udev.Apply(ctx)
}
