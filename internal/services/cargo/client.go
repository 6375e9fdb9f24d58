// Package cargo wraps the cargo command-line build of the daemon.
package cargo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Builder defines daemon build behaviour.
type Builder interface {
	Build(ctx context.Context, sourceDir string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI invokes the cargo build.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "cargo"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Build runs a release build in sourceDir. Build output streams to the
// process stdio; a non-zero exit is fatal and propagated without retry.
func (c *CLI) Build(ctx context.Context, sourceDir string) error {
	dir := strings.TrimSpace(sourceDir)
	if dir == "" {
		return errors.New("source directory required")
	}

	cmd := commandContext(ctx, c.binary, "build", "--release") //nolint:gosec
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("cargo build failed: %w", err)
	}
	return nil
}

var _ Builder = (*CLI)(nil)
