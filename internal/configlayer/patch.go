package configlayer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"dfrsetup/internal/logging"
)

// mediaLayerKey is the one option the post-deployment patch touches. The
// daemon's TOML keys are PascalCase.
const mediaLayerKey = "MediaLayerDefault"

// PatchMediaLayerDefault flips MediaLayerDefault from false to true in the
// system-tier primary configuration file.
//
// The mutation is a structured parse-mutate-serialize cycle, and it is
// intentionally narrow: when the key is absent, not a boolean, or already
// true, the file is left byte-for-byte untouched. Values an administrator
// has customized are never overridden here.
func (m *Manager) PatchMediaLayerDefault(ctx context.Context) error {
	path := m.plan.SystemConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("system config missing, skipping patch", logging.String("path", path))
			return nil
		}
		return fmt.Errorf("read system config: %w", err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse system config: %w", err)
	}

	value, present := doc[mediaLayerKey]
	current, isBool := value.(bool)
	if !present || !isBool || current {
		m.logger.Info("media layer option unchanged", logging.String("path", path))
		return nil
	}

	doc[mediaLayerKey] = true
	out, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serialize system config: %w", err)
	}

	if err := m.installSystemFile(ctx, out, path); err != nil {
		return err
	}
	m.logger.Info("enabled media layer by default", logging.String("path", path))
	return nil
}
