// Package udevctl reloads the udev rule database and re-triggers device
// events after new rule files are installed.
package udevctl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"dfrsetup/internal/logging"
	"dfrsetup/internal/runner"
)

// Reloader applies installed rule files to the live udev database.
type Reloader struct {
	priv   runner.Runner
	logger *slog.Logger

	// confirmWindow bounds the post-trigger netlink listen.
	confirmWindow time.Duration
}

// Option configures a Reloader.
type Option func(*Reloader)

// WithConfirmWindow overrides how long Apply listens for re-fired events.
func WithConfirmWindow(d time.Duration) Option {
	return func(r *Reloader) {
		if d > 0 {
			r.confirmWindow = d
		}
	}
}

// New constructs a Reloader. logger may be nil.
func New(priv runner.Runner, logger *slog.Logger, opts ...Option) *Reloader {
	r := &Reloader{
		priv:          priv,
		logger:        logging.NewComponentLogger(logger, "udev"),
		confirmWindow: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply reloads rules and re-triggers device events. Both commands are
// privileged and any failure is fatal. Afterwards it listens briefly on the
// udev netlink socket to confirm events re-fired; confirmation is
// best-effort and never fails the run (the unprivileged socket may be
// inaccessible on hardened hosts).
func (r *Reloader) Apply(ctx context.Context) error {
	if err := r.priv.Run(ctx, "udevadm", "control", "--reload-rules"); err != nil {
		return fmt.Errorf("reload udev rules: %w", err)
	}

	confirmed := make(chan bool, 1)
	go func() { confirmed <- r.listenForEvents(ctx) }()

	if err := r.priv.Run(ctx, "udevadm", "trigger"); err != nil {
		return fmt.Errorf("trigger udev events: %w", err)
	}

	if <-confirmed {
		r.logger.Info("udev events re-triggered")
	} else {
		r.logger.Warn("could not observe udev events after trigger; continuing")
	}
	return nil
}

// listenForEvents watches the udev netlink socket for any uevent inside the
// confirmation window.
func (r *Reloader) listenForEvents(ctx context.Context) bool {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		r.logger.Debug("netlink socket unavailable", logging.Error(err))
		return false
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := conn.Monitor(queue, errs, nil)
	defer close(quit)

	timer := time.NewTimer(r.confirmWindow)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return false
	case <-queue:
		return true
	case err := <-errs:
		r.logger.Debug("netlink monitor error", logging.Error(err))
		return false
	}
}
