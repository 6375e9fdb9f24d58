// Package runner abstracts external command execution so privileged
// operations can be exercised in tests without real privileges.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Runner executes external commands. Implementations must propagate the exit
// status as a non-nil error on failure.
type Runner interface {
	// Run executes the command, streaming output to the process stdio.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes the command and returns its combined output.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// Exec runs commands directly on the host.
type Exec struct{}

// NewExec returns a Runner that executes commands as the current user.
func NewExec() *Exec {
	return &Exec{}
}

func (e *Exec) Run(ctx context.Context, name string, args ...string) error {
	cmd := commandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", commandLine(name, args), err)
	}
	return nil
}

func (e *Exec) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := commandContext(ctx, name, args...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return buf.String(), fmt.Errorf("%s: %w", commandLine(name, args), err)
	}
	return buf.String(), nil
}

// Sudo wraps a Runner so every command is executed through sudo. dfrsetup
// refuses to run as root, so all system-tier mutations escalate through here.
type Sudo struct {
	base Runner
}

// NewSudo returns a Runner that prefixes commands with sudo.
func NewSudo(base Runner) *Sudo {
	if base == nil {
		base = NewExec()
	}
	return &Sudo{base: base}
}

func (s *Sudo) Run(ctx context.Context, name string, args ...string) error {
	return s.base.Run(ctx, "sudo", append([]string{name}, args...)...)
}

func (s *Sudo) Output(ctx context.Context, name string, args ...string) (string, error) {
	return s.base.Output(ctx, "sudo", append([]string{name}, args...)...)
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

var (
	_ Runner = (*Exec)(nil)
	_ Runner = (*Sudo)(nil)
)
