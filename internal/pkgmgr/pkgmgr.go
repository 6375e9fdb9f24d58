// Package pkgmgr detects the host package manager and installs the fixed
// build-dependency set for the daemon.
package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"dfrsetup/internal/runner"
)

var lookPath = exec.LookPath

// ErrUnsupported indicates no known package manager was found on the host.
var ErrUnsupported = errors.New("no supported package manager found (pacman, apt-get, dnf)")

// Manager identifies the host package manager.
type Manager int

const (
	Unsupported Manager = iota
	Pacman
	Apt
	Dnf
)

func (m Manager) String() string {
	switch m {
	case Pacman:
		return "pacman"
	case Apt:
		return "apt"
	case Dnf:
		return "dnf"
	default:
		return "unsupported"
	}
}

// Binary is the tool probed for during detection.
func (m Manager) Binary() string {
	switch m {
	case Pacman:
		return "pacman"
	case Apt:
		return "apt-get"
	case Dnf:
		return "dnf"
	default:
		return ""
	}
}

// detectionOrder is the fixed preference probe; the first tool found wins.
var detectionOrder = []Manager{Pacman, Apt, Dnf}

// Detect resolves the host package manager once from an ordered probe.
func Detect() Manager {
	for _, m := range detectionOrder {
		if _, err := lookPath(m.Binary()); err == nil {
			return m
		}
	}
	return Unsupported
}

// InstallCommand returns the non-interactive install invocation for m
// including its dependency package list.
func InstallCommand(m Manager) (string, []string, error) {
	pkgs, ok := packages[m]
	if !ok {
		return "", nil, ErrUnsupported
	}
	switch m {
	case Pacman:
		return "pacman", append([]string{"-S", "--needed", "--noconfirm"}, pkgs...), nil
	case Apt:
		return "apt-get", append([]string{"install", "-y"}, pkgs...), nil
	case Dnf:
		return "dnf", append([]string{"install", "-y"}, pkgs...), nil
	default:
		return "", nil, ErrUnsupported
	}
}

// Install runs the manager's install command through the privileged runner.
// A non-zero exit is propagated without retry.
func Install(ctx context.Context, priv runner.Runner, m Manager) error {
	name, args, err := InstallCommand(m)
	if err != nil {
		return err
	}
	if err := priv.Run(ctx, name, args...); err != nil {
		return fmt.Errorf("install dependencies via %s: %w", m, err)
	}
	return nil
}
