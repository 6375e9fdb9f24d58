package cargo

import (
	"context"
	"os/exec"
	"testing"
)

func stubCommand(t *testing.T, fn func(ctx context.Context, name string, args ...string) *exec.Cmd) {
	t.Helper()
	prev := commandContext
	commandContext = fn
	t.Cleanup(func() { commandContext = prev })
}

func TestBuildInvokesReleaseBuildInSourceDir(t *testing.T) {
	var gotName string
	var gotArgs []string
	var cmd *exec.Cmd

	stubCommand(t, func(ctx context.Context, name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		cmd = exec.CommandContext(ctx, "true")
		return cmd
	})

	srcDir := t.TempDir()
	cli := NewCLI()
	if err := cli.Build(context.Background(), srcDir); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if gotName != "cargo" {
		t.Fatalf("binary = %q, want cargo", gotName)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "build" || gotArgs[1] != "--release" {
		t.Fatalf("args = %v", gotArgs)
	}
	if cmd.Dir != srcDir {
		t.Fatalf("build dir = %q, want %q", cmd.Dir, srcDir)
	}
}

func TestBuildPropagatesNonZeroExit(t *testing.T) {
	stubCommand(t, func(ctx context.Context, name string, args ...string) *exec.Cmd {
		return exec.CommandContext(ctx, "false")
	})

	cli := NewCLI()
	if err := cli.Build(context.Background(), t.TempDir()); err == nil {
		t.Fatal("expected build failure to propagate")
	}
}

func TestBuildRequiresSourceDir(t *testing.T) {
	cli := NewCLI()
	if err := cli.Build(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty source dir")
	}
}

func TestWithBinaryOverride(t *testing.T) {
	cli := NewCLI(WithBinary("cargo-nightly"))
	if cli.binary != "cargo-nightly" {
		t.Fatalf("binary = %q", cli.binary)
	}
}
