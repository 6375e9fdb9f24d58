package journal

import (
	"context"
	"errors"
	"testing"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRunLifecycle(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	id, err := j.StartRun(ctx)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if id == "" {
		t.Fatal("empty run id")
	}

	if err := j.StageStarted(ctx, id, "preflight"); err != nil {
		t.Fatalf("StageStarted: %v", err)
	}
	if err := j.StageFinished(ctx, id, "preflight", nil); err != nil {
		t.Fatalf("StageFinished: %v", err)
	}
	if err := j.FinishRun(ctx, id, "services_restarted", nil); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := j.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].State != "services_restarted" || runs[0].Failure != "" {
		t.Fatalf("unexpected run record: %#v", runs[0])
	}
	if runs[0].FinishedAt.IsZero() {
		t.Fatal("finished_at not recorded")
	}

	stages, err := j.Stages(ctx, id)
	if err != nil {
		t.Fatalf("Stages: %v", err)
	}
	if len(stages) != 1 || stages[0].Stage != "preflight" || stages[0].Status != "ok" {
		t.Fatalf("unexpected stages: %#v", stages)
	}
}

func TestFailedRunRecordsReason(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	id, err := j.StartRun(ctx)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	if err := j.StageStarted(ctx, id, "dependencies"); err != nil {
		t.Fatalf("StageStarted: %v", err)
	}
	cause := errors.New("pacman: exit status 1")
	if err := j.StageFinished(ctx, id, "dependencies", cause); err != nil {
		t.Fatalf("StageFinished: %v", err)
	}
	if err := j.FinishRun(ctx, id, "aborted", cause); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := j.Runs(ctx, 1)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if runs[0].State != "aborted" {
		t.Fatalf("state = %q, want aborted", runs[0].State)
	}
	if runs[0].Failure != cause.Error() {
		t.Fatalf("failure = %q", runs[0].Failure)
	}

	stages, err := j.Stages(ctx, id)
	if err != nil {
		t.Fatalf("Stages: %v", err)
	}
	if stages[0].Status != "failed" {
		t.Fatalf("stage status = %q, want failed", stages[0].Status)
	}
}

func TestRunsNewestFirst(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	first, err := j.StartRun(ctx)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}
	second, err := j.StartRun(ctx)
	if err != nil {
		t.Fatalf("StartRun: %v", err)
	}

	runs, err := j.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Fatalf("runs not newest-first: %#v", runs)
	}
}
