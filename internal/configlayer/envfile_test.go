package configlayer

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"dfrsetup/internal/userenv"
)

func testEnvironment() userenv.UserEnvironment {
	return userenv.UserEnvironment{
		Username:       "kim",
		UID:            1000,
		HomeDir:        "/home/kim",
		RuntimeDir:     "/run/user/1000",
		WaylandDisplay: "wayland-0",
		UserPaths:      ":/home/kim/.local/bin:/home/kim/.cargo/bin",
	}
}

func TestRenderEnvFileSchema(t *testing.T) {
	data, err := RenderEnvFile(testEnvironment())
	if err != nil {
		t.Fatalf("RenderEnvFile: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "[user_environment]") {
		t.Fatalf("missing section header: %s", text)
	}
	for _, key := range []string{"username", "uid", "home_dir", "runtime_dir", "wayland_display", "user_paths"} {
		if !strings.Contains(text, key+" = ") {
			t.Errorf("missing key %q in fragment:\n%s", key, text)
		}
	}
	if !strings.Contains(text, "uid = 1000") {
		t.Errorf("uid must serialize as an integer:\n%s", text)
	}
	if !strings.Contains(text, `':/home/kim/.local/bin:/home/kim/.cargo/bin'`) &&
		!strings.Contains(text, `":/home/kim/.local/bin:/home/kim/.cargo/bin"`) {
		t.Errorf("user_paths must preserve the leading colon:\n%s", text)
	}
}

func TestRenderEnvFileRoundTrips(t *testing.T) {
	env := testEnvironment()
	data, err := RenderEnvFile(env)
	if err != nil {
		t.Fatalf("RenderEnvFile: %v", err)
	}

	var doc struct {
		UserEnvironment userenv.UserEnvironment `toml:"user_environment"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if doc.UserEnvironment != env {
		t.Fatalf("round trip mismatch: %#v != %#v", doc.UserEnvironment, env)
	}
}

func TestWriteEnvFileOverwritesWithoutBackup(t *testing.T) {
	m, p, _ := newTestManager(t)
	if err := os.MkdirAll(p.SystemTierDir(), 0o755); err != nil {
		t.Fatalf("mkdir system tier: %v", err)
	}
	if err := os.WriteFile(p.EnvFilePath(), []byte("stale = true\n"), 0o644); err != nil {
		t.Fatalf("seed stale fragment: %v", err)
	}

	if err := m.WriteEnvFile(context.Background(), testEnvironment()); err != nil {
		t.Fatalf("WriteEnvFile: %v", err)
	}

	content := readFile(t, p.EnvFilePath())
	if strings.Contains(content, "stale") {
		t.Fatalf("fragment not overwritten: %s", content)
	}
	if !strings.Contains(content, "[user_environment]") {
		t.Fatalf("fragment missing section: %s", content)
	}
	if backups := globBackups(t, p.SystemTierDir(), "user-env.toml"); len(backups) != 0 {
		t.Fatalf("derived file must not be backed up, found %v", backups)
	}
}
