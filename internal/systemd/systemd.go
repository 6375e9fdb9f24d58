// Package systemd drives the service manager for the daemon's units. Units
// only ever move toward enabled and active; nothing here disables them.
package systemd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"dfrsetup/internal/logging"
	"dfrsetup/internal/runner"
)

// Controller wraps systemctl through the privileged runner.
type Controller struct {
	priv   runner.Runner
	logger *slog.Logger
}

// New constructs a Controller. logger may be nil.
func New(priv runner.Runner, logger *slog.Logger) *Controller {
	return &Controller{
		priv:   priv,
		logger: logging.NewComponentLogger(logger, "systemd"),
	}
}

// Stop stops unit if it is running. A unit that does not exist or is not
// loaded is treated as already stopped: the point of the stop is only to
// release the binary before overwrite.
func (c *Controller) Stop(ctx context.Context, unit string) error {
	out, err := c.priv.Output(ctx, "systemctl", "stop", unit)
	if err == nil {
		c.logger.Info("stopped unit", logging.String("unit", unit))
		return nil
	}
	if unitAbsent(out) {
		c.logger.Info("unit not present, nothing to stop", logging.String("unit", unit))
		return nil
	}
	return fmt.Errorf("stop %s: %w", unit, err)
}

// Enable marks units for start-on-boot. Re-enabling an enabled unit is a
// no-op for systemctl and must not error.
func (c *Controller) Enable(ctx context.Context, units ...string) error {
	args := append([]string{"enable"}, units...)
	if err := c.priv.Run(ctx, "systemctl", args...); err != nil {
		return fmt.Errorf("enable %s: %w", strings.Join(units, ", "), err)
	}
	c.logger.Info("enabled units", logging.String("units", strings.Join(units, ", ")))
	return nil
}

// Restart (re)starts unit so a replaced binary and configuration take effect.
func (c *Controller) Restart(ctx context.Context, unit string) error {
	if err := c.priv.Run(ctx, "systemctl", "restart", unit); err != nil {
		return fmt.Errorf("restart %s: %w", unit, err)
	}
	c.logger.Info("restarted unit", logging.String("unit", unit))
	return nil
}

// DaemonReload reindexes unit files after new units are copied in.
func (c *Controller) DaemonReload(ctx context.Context) error {
	if err := c.priv.Run(ctx, "systemctl", "daemon-reload"); err != nil {
		return fmt.Errorf("daemon-reload: %w", err)
	}
	return nil
}

func unitAbsent(output string) bool {
	out := strings.ToLower(output)
	return strings.Contains(out, "not loaded") ||
		strings.Contains(out, "could not be found") ||
		strings.Contains(out, "no such file")
}
