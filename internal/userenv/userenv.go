// Package userenv probes the invoking account's session environment. Probing
// is read-only and performed fresh on every run; the result is threaded as a
// value into the stages that need it.
package userenv

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
)

var currentUser = user.Current

// DefaultWaylandDisplay is used when no display socket is found in the
// runtime directory.
const DefaultWaylandDisplay = "wayland-0"

// pathCandidates are the per-user tool install locations considered for the
// daemon's supplemental executable search path, relative to the home
// directory and in fixed order.
var pathCandidates = []string{
	".local/bin",
	".cargo/bin",
	"bin",
	"go/bin",
}

// UserEnvironment captures the probed session facts the daemon needs at
// startup. Field names match the generated user-env.toml schema.
type UserEnvironment struct {
	Username       string `toml:"username"`
	UID            int    `toml:"uid"`
	HomeDir        string `toml:"home_dir"`
	RuntimeDir     string `toml:"runtime_dir"`
	WaylandDisplay string `toml:"wayland_display"`
	UserPaths      string `toml:"user_paths"`
}

// Probe discovers the invoking account's environment. root is the host
// filesystem root ("/" in production) used to locate the per-user runtime
// directory.
func Probe(root string) (UserEnvironment, error) {
	u, err := currentUser()
	if err != nil {
		return UserEnvironment{}, fmt.Errorf("resolve current user: %w", err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return UserEnvironment{}, fmt.Errorf("parse uid %q: %w", u.Uid, err)
	}

	runtimeDir := filepath.Join(root, "run", "user", strconv.Itoa(uid))

	return UserEnvironment{
		Username:       u.Username,
		UID:            uid,
		HomeDir:        u.HomeDir,
		RuntimeDir:     runtimeDir,
		WaylandDisplay: DiscoverWaylandDisplay(runtimeDir),
		UserPaths:      CollectUserPaths(u.HomeDir),
	}, nil
}

// DiscoverWaylandDisplay returns the first wayland socket name found in
// runtimeDir, skipping lock-file artifacts, or DefaultWaylandDisplay when
// none is found. With multiple active sessions the selection follows
// directory-listing order; there is no tie-break guarantee.
func DiscoverWaylandDisplay(runtimeDir string) string {
	entries, err := os.ReadDir(runtimeDir)
	if err != nil {
		return DefaultWaylandDisplay
	}
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "wayland-") && !strings.HasSuffix(name, ".lock") {
			return name
		}
	}
	return DefaultWaylandDisplay
}

// CollectUserPaths filters the fixed candidate directories under home to
// those that exist, preserving candidate order, and concatenates them with a
// leading colon per entry. The daemon appends the result to its PATH as-is.
func CollectUserPaths(home string) string {
	var b strings.Builder
	seen := make(map[string]struct{}, len(pathCandidates))
	for _, rel := range pathCandidates {
		dir := filepath.Join(home, rel)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		b.WriteString(":")
		b.WriteString(dir)
	}
	return b.String()
}
