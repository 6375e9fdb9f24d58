package pkgmgr

// packages maps each manager to the daemon's build-dependency package names.
// The set is fixed: rust toolchain, libinput, libdrm, cairo, freetype,
// fontconfig, libxml2 headers, plus pkg-config and make for the build.
var packages = map[Manager][]string{
	Pacman: {
		"rust",
		"libinput",
		"libdrm",
		"cairo",
		"freetype2",
		"fontconfig",
		"libxml2",
		"pkgconf",
		"make",
	},
	Apt: {
		"cargo",
		"libinput-dev",
		"libdrm-dev",
		"libcairo2-dev",
		"libfreetype-dev",
		"libfontconfig-dev",
		"libxml2-dev",
		"pkg-config",
		"make",
	},
	Dnf: {
		"cargo",
		"libinput-devel",
		"libdrm-devel",
		"cairo-devel",
		"freetype-devel",
		"fontconfig-devel",
		"libxml2-devel",
		"pkgconf-pkg-config",
		"make",
	},
}

// Packages returns the dependency list for m, nil when unsupported.
func Packages(m Manager) []string {
	pkgs := packages[m]
	out := make([]string, len(pkgs))
	copy(out, pkgs)
	return out
}
