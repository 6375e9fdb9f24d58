package configlayer

import (
	"context"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"dfrsetup/internal/logging"
	"dfrsetup/internal/plan"
	"dfrsetup/internal/userenv"
)

// envFileDoc is the on-disk schema of the generated environment fragment.
type envFileDoc struct {
	UserEnvironment userenv.UserEnvironment `toml:"user_environment"`
}

// RenderEnvFile serializes the probed environment into the fragment the
// daemon reads at startup.
func RenderEnvFile(env userenv.UserEnvironment) ([]byte, error) {
	data, err := toml.Marshal(envFileDoc{UserEnvironment: env})
	if err != nil {
		return nil, fmt.Errorf("render environment fragment: %w", err)
	}
	return data, nil
}

// WriteEnvFile renders the fragment and installs it at the system tier,
// unconditionally overwriting prior content. No backup is taken: the file is
// wholly derived from probing, never user-authored.
func (m *Manager) WriteEnvFile(ctx context.Context, env userenv.UserEnvironment) error {
	data, err := RenderEnvFile(env)
	if err != nil {
		return err
	}
	if err := m.installSystemFile(ctx, data, m.plan.EnvFilePath()); err != nil {
		return err
	}
	m.logger.Info("wrote environment fragment",
		logging.String("path", m.plan.EnvFilePath()),
		logging.String("wayland_display", env.WaylandDisplay))
	return nil
}

// installSystemFile stages content in a temp file and copies it into place
// through the privileged runner.
func (m *Manager) installSystemFile(ctx context.Context, data []byte, dst string) error {
	tmp, err := os.CreateTemp("", plan.Product+"-*")
	if err != nil {
		return fmt.Errorf("stage system file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("stage system file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("stage system file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("stage system file: %w", err)
	}

	if err := m.priv.Run(ctx, "cp", tmp.Name(), dst); err != nil {
		return fmt.Errorf("install %s: %w", dst, err)
	}
	return nil
}
