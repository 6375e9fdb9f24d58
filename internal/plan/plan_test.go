package plan

import "testing"

func TestDefaultLayout(t *testing.T) {
	p := Default()

	cases := map[string]string{
		p.DefaultTierDir():    "/usr/share/tiny-dfr",
		p.SystemTierDir():     "/etc/tiny-dfr",
		p.BinaryPath():        "/usr/local/bin/tiny-dfr",
		p.HelperScriptPath():  "/usr/local/bin/tiny-dfr-user-paths",
		p.UnitDir():           "/etc/systemd/system",
		p.UdevRulesDir():      "/etc/udev/rules.d",
		p.EnvFilePath():       "/etc/tiny-dfr/user-env.toml",
		p.SystemConfigPath():  "/etc/tiny-dfr/config.toml",
		p.DMIProductNamePath(): "/sys/class/dmi/id/product_name",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	}
}

func TestRelocatedRoot(t *testing.T) {
	p := Plan{Root: "/tmp/fake", SourceDir: "/src"}
	if p.SystemTierDir() != "/tmp/fake/etc/tiny-dfr" {
		t.Fatalf("system tier = %q", p.SystemTierDir())
	}
	if p.BuiltBinaryPath() != "/src/target/release/tiny-dfr" {
		t.Fatalf("built binary = %q", p.BuiltBinaryPath())
	}
}

func TestUserTierDir(t *testing.T) {
	p := Default()
	if got := p.UserTierDir("/home/kim"); got != "/home/kim/.config/tiny-dfr" {
		t.Fatalf("user tier = %q", got)
	}
}

func TestTrackedFilesAreStable(t *testing.T) {
	want := []string{"config.toml", "commands.toml", "expandables.toml", "hyprland.toml"}
	if len(TrackedConfigFiles) != len(want) {
		t.Fatalf("tracked files = %v", TrackedConfigFiles)
	}
	for i, name := range want {
		if TrackedConfigFiles[i] != name {
			t.Fatalf("tracked files out of order: %v", TrackedConfigFiles)
		}
	}
}
