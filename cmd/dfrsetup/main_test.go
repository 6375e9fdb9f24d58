package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"dfrsetup/internal/journal"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIEnvCommandRendersFragment(t *testing.T) {
	out, _, err := runCLI(t, "env")
	if err != nil {
		t.Fatalf("env: %v", err)
	}
	for _, want := range []string{"[user_environment]", "username = ", "runtime_dir = ", "wayland_display = "} {
		if !strings.Contains(out, want) {
			t.Fatalf("env output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIStatusRendersTables(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, _, err := runCLI(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Check", "Privilege", "Hardware", "Package manager", "Artifact", "Daemon binary"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIHistoryEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, _, err := runCLI(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No recorded runs.") {
		t.Fatalf("unexpected history output: %q", out)
	}
}

func TestCLIHistoryListsRecordedRuns(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	ctx := newCommandContext(nil, nil, nil)
	stateDir, err := ctx.stateDir()
	if err != nil {
		t.Fatalf("stateDir: %v", err)
	}
	j, err := journal.Open(stateDir)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	id, err := j.StartRun(context.Background())
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := j.FinishRun(context.Background(), id, "services_restarted", nil); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	out, _, err := runCLI(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "services_restarted") {
		t.Fatalf("history missing recorded run:\n%s", out)
	}
	if !strings.Contains(out, id[:8]) {
		t.Fatalf("history missing run id %s:\n%s", id[:8], out)
	}
}

func TestPromptConfirm(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"\n", false},
		{"yes\n", false},
		{"n\n", false},
		{"", false},
	}
	for _, tc := range cases {
		cmd := &cobra.Command{}
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetIn(strings.NewReader(tc.input))
		got, err := promptConfirm(cmd, "QEMU Standard PC is not a known Touch Bar model")
		if err != nil {
			t.Fatalf("promptConfirm(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("promptConfirm(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}
