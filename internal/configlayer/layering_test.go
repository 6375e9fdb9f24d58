package configlayer

import (
	"context"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dfrsetup/internal/plan"
	"dfrsetup/internal/runner"
	"dfrsetup/internal/userenv"
)

// newTestManager roots a Plan in a scratch tree and uses a plain exec runner
// so cp/mkdir/chown operate on unprivileged temp paths.
func newTestManager(t *testing.T) (*Manager, plan.Plan, userenv.UserEnvironment) {
	t.Helper()

	root := t.TempDir()
	p := plan.Plan{Root: root, SourceDir: root}

	if err := os.MkdirAll(p.DefaultTierDir(), 0o755); err != nil {
		t.Fatalf("mkdir default tier: %v", err)
	}
	for _, name := range plan.TrackedConfigFiles {
		content := "# default " + name + "\n"
		if name == "config.toml" {
			content = "MediaLayerDefault = false\nShowButtonOutlines = false\n"
		}
		if err := os.WriteFile(filepath.Join(p.DefaultTierDir(), name), []byte(content), 0o644); err != nil {
			t.Fatalf("seed default %s: %v", name, err)
		}
	}

	u, err := user.Current()
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	home := t.TempDir()
	env := userenv.UserEnvironment{
		Username:       u.Username,
		UID:            os.Getuid(),
		HomeDir:        home,
		RuntimeDir:     filepath.Join(root, "run", "user", "1000"),
		WaylandDisplay: "wayland-0",
		UserPaths:      "",
	}

	m := New(p, runner.NewExec(), nil)
	return m, p, env
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func globBackups(t *testing.T, dir, name string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, name+".bak.*"))
	if err != nil {
		t.Fatalf("glob backups: %v", err)
	}
	return matches
}

func TestLayerAllFreshInstall(t *testing.T) {
	m, p, env := newTestManager(t)

	if err := m.LayerAll(context.Background(), env); err != nil {
		t.Fatalf("LayerAll: %v", err)
	}

	for _, name := range plan.TrackedConfigFiles {
		systemPath := filepath.Join(p.SystemTierDir(), name)
		userPath := filepath.Join(p.UserTierDir(env.HomeDir), name)
		defaultContent := readFile(t, filepath.Join(p.DefaultTierDir(), name))
		if readFile(t, systemPath) != defaultContent {
			t.Errorf("system tier %s does not match default", name)
		}
		if readFile(t, userPath) != defaultContent {
			t.Errorf("user tier %s does not match default", name)
		}
		if backups := globBackups(t, p.SystemTierDir(), name); len(backups) != 0 {
			t.Errorf("fresh install must not create backups, found %v", backups)
		}
	}
}

func TestLayerAllBacksUpExistingFiles(t *testing.T) {
	m, p, env := newTestManager(t)

	if err := os.MkdirAll(p.SystemTierDir(), 0o755); err != nil {
		t.Fatalf("mkdir system tier: %v", err)
	}
	systemPath := filepath.Join(p.SystemTierDir(), "config.toml")
	if err := os.WriteFile(systemPath, []byte("MediaLayerDefault = true\n"), 0o644); err != nil {
		t.Fatalf("seed system config: %v", err)
	}

	userDir := p.UserTierDir(env.HomeDir)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatalf("mkdir user tier: %v", err)
	}
	userPath := filepath.Join(userDir, "commands.toml")
	if err := os.WriteFile(userPath, []byte("Command_1 = \"custom\"\n"), 0o644); err != nil {
		t.Fatalf("seed user config: %v", err)
	}

	m.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }

	if err := m.LayerAll(context.Background(), env); err != nil {
		t.Fatalf("LayerAll: %v", err)
	}

	sysBackups := globBackups(t, p.SystemTierDir(), "config.toml")
	if len(sysBackups) != 1 {
		t.Fatalf("expected 1 system backup, got %v", sysBackups)
	}
	if got := readFile(t, sysBackups[0]); got != "MediaLayerDefault = true\n" {
		t.Fatalf("system backup content = %q", got)
	}
	if !strings.Contains(readFile(t, systemPath), "MediaLayerDefault = false") {
		t.Fatalf("system tier not reset from default: %q", readFile(t, systemPath))
	}

	userBackups := globBackups(t, userDir, "commands.toml")
	if len(userBackups) != 1 {
		t.Fatalf("expected 1 user backup, got %v", userBackups)
	}
	if got := readFile(t, userBackups[0]); got != "Command_1 = \"custom\"\n" {
		t.Fatalf("user backup content = %q", got)
	}
}

func TestRepeatedRunsAccumulateDistinctBackups(t *testing.T) {
	m, p, env := newTestManager(t)

	if err := os.MkdirAll(p.SystemTierDir(), 0o755); err != nil {
		t.Fatalf("mkdir system tier: %v", err)
	}
	systemPath := filepath.Join(p.SystemTierDir(), "config.toml")
	original := "MediaLayerDefault = true\n"
	if err := os.WriteFile(systemPath, []byte(original), 0o644); err != nil {
		t.Fatalf("seed system config: %v", err)
	}

	base := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	m.now = func() time.Time { return base }
	if err := m.LayerAll(context.Background(), env); err != nil {
		t.Fatalf("first LayerAll: %v", err)
	}
	preSecondRun := readFile(t, systemPath)

	m.now = func() time.Time { return base.Add(time.Second) }
	if err := m.LayerAll(context.Background(), env); err != nil {
		t.Fatalf("second LayerAll: %v", err)
	}

	backups := globBackups(t, p.SystemTierDir(), "config.toml")
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups after 2 runs, got %v", backups)
	}
	// Glob returns sorted paths; timestamps sort lexicographically.
	if !(backups[0] < backups[1]) {
		t.Fatalf("backup timestamps not increasing: %v", backups)
	}
	if got := readFile(t, backups[0]); got != original {
		t.Fatalf("first backup = %q, want pre-first-run content", got)
	}
	if got := readFile(t, backups[1]); got != preSecondRun {
		t.Fatalf("second backup = %q, want pre-second-run content", got)
	}
}

func TestLayerAllFailsWhenDefaultTierIncomplete(t *testing.T) {
	m, p, env := newTestManager(t)
	if err := os.Remove(filepath.Join(p.DefaultTierDir(), "hyprland.toml")); err != nil {
		t.Fatalf("remove default: %v", err)
	}

	if err := m.LayerAll(context.Background(), env); err == nil {
		t.Fatal("expected failure for missing default-tier file")
	}
}
