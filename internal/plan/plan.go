// Package plan fixes the filesystem contract between dfrsetup and the
// tiny-dfr daemon: where artifacts come from in the source tree and where
// they land on the host.
package plan

import "path/filepath"

// Product is the daemon's install name; it fixes the tier directory names.
const Product = "tiny-dfr"

// UnitMain is the primary daemon unit.
const UnitMain = "tiny-dfr.service"

// UnitResume is the post-resume companion unit.
const UnitResume = "tiny-dfr-resume.service"

// TrackedConfigFiles are the configuration files propagated through the
// default, system, and user tiers. The daemon loads them in that precedence
// order; dfrsetup only copies and backs them up.
var TrackedConfigFiles = []string{
	"config.toml",
	"commands.toml",
	"expandables.toml",
	"hyprland.toml",
}

// UdevRuleFiles are installed into the udev rules directory.
var UdevRuleFiles = []string{
	"99-tiny-dfr.rules",
	"99-tiny-dfr-backlight.rules",
}

// EnvFileName is the generated environment fragment consumed by the daemon.
const EnvFileName = "user-env.toml"

// HelperScriptName is the executable-discovery helper shipped alongside the
// daemon binary.
const HelperScriptName = "tiny-dfr-user-paths"

// Plan roots every install path so tests can run against a scratch tree.
type Plan struct {
	// Root is the host filesystem root, "/" in production.
	Root string
	// SourceDir is the tiny-dfr source checkout the build runs in.
	SourceDir string
}

// Default returns the production layout.
func Default() Plan {
	return Plan{Root: "/", SourceDir: "."}
}

// DefaultTierDir is the read-only template tier.
func (p Plan) DefaultTierDir() string {
	return filepath.Join(p.Root, "usr", "share", Product)
}

// SystemTierDir is the mutable shared tier.
func (p Plan) SystemTierDir() string {
	return filepath.Join(p.Root, "etc", Product)
}

// UserTierDir is the per-account tier under the given home directory.
func (p Plan) UserTierDir(home string) string {
	return filepath.Join(home, ".config", Product)
}

// BinaryPath is where the daemon binary is installed.
func (p Plan) BinaryPath() string {
	return filepath.Join(p.Root, "usr", "local", "bin", Product)
}

// HelperScriptPath is where the discovery helper is installed.
func (p Plan) HelperScriptPath() string {
	return filepath.Join(p.Root, "usr", "local", "bin", HelperScriptName)
}

// UnitDir is the systemd unit install directory.
func (p Plan) UnitDir() string {
	return filepath.Join(p.Root, "etc", "systemd", "system")
}

// UdevRulesDir is the udev rules install directory.
func (p Plan) UdevRulesDir() string {
	return filepath.Join(p.Root, "etc", "udev", "rules.d")
}

// EnvFilePath is the generated environment fragment location (system tier).
func (p Plan) EnvFilePath() string {
	return filepath.Join(p.SystemTierDir(), EnvFileName)
}

// SystemConfigPath is the system-tier primary configuration file, the target
// of the post-deployment patch.
func (p Plan) SystemConfigPath() string {
	return filepath.Join(p.SystemTierDir(), "config.toml")
}

// BuiltBinaryPath is where cargo leaves the release binary.
func (p Plan) BuiltBinaryPath() string {
	return filepath.Join(p.SourceDir, "target", "release", Product)
}

// SourceShareDir holds the default-tier configuration bundle in the checkout.
func (p Plan) SourceShareDir() string {
	return filepath.Join(p.SourceDir, "share", Product)
}

// SourceUnitPath locates a unit file in the checkout.
func (p Plan) SourceUnitPath(unit string) string {
	return filepath.Join(p.SourceDir, "systemd", unit)
}

// SourceUdevRulePath locates a udev rule file in the checkout.
func (p Plan) SourceUdevRulePath(rule string) string {
	return filepath.Join(p.SourceDir, "udev", rule)
}

// SourceHelperScriptPath locates the discovery helper in the checkout.
func (p Plan) SourceHelperScriptPath() string {
	return filepath.Join(p.SourceDir, "scripts", HelperScriptName)
}

// StateDir holds dfrsetup's own journal and lock under the invoking
// account's home.
func (p Plan) StateDir(home string) string {
	return filepath.Join(home, ".local", "share", "dfrsetup")
}

// DMIProductNamePath is the hardware identity probe location.
func (p Plan) DMIProductNamePath() string {
	return filepath.Join(p.Root, "sys", "class", "dmi", "id", "product_name")
}
