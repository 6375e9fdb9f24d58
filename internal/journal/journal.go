// Package journal records provisioning runs in a local SQLite database.
// Recording is best-effort observability: journal errors never abort an
// install.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    started_at  TEXT NOT NULL,
    finished_at TEXT,
    state       TEXT NOT NULL,
    failure     TEXT
);
CREATE TABLE IF NOT EXISTS run_stages (
    run_id      TEXT NOT NULL REFERENCES runs(id),
    stage       TEXT NOT NULL,
    started_at  TEXT NOT NULL,
    finished_at TEXT,
    status      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_stages_run ON run_stages(run_id);
`

// Run is one recorded provisioning run.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	State      string
	Failure    string
}

// StageRecord is one stage transition within a run.
type StageRecord struct {
	Stage      string
	Status     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Journal manages run persistence backed by SQLite.
type Journal struct {
	db *sql.DB
}

// Open initializes or connects to the journal database in dir.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "journal.db"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// StartRun inserts a new run and returns its identifier.
func (j *Journal) StartRun(ctx context.Context) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, state) VALUES (?, ?, ?)`,
		id, now, "running")
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// StageStarted records the beginning of a stage.
func (j *Journal) StageStarted(ctx context.Context, runID, stage string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO run_stages (run_id, stage, started_at, status) VALUES (?, ?, ?, ?)`,
		runID, stage, now, "running")
	if err != nil {
		return fmt.Errorf("insert stage: %w", err)
	}
	return nil
}

// StageFinished records a stage outcome.
func (j *Journal) StageFinished(ctx context.Context, runID, stage string, failure error) error {
	status := "ok"
	if failure != nil {
		status = "failed"
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := j.db.ExecContext(ctx,
		`UPDATE run_stages SET finished_at = ?, status = ? WHERE run_id = ? AND stage = ?`,
		now, status, runID, stage)
	if err != nil {
		return fmt.Errorf("update stage: %w", err)
	}
	return nil
}

// FinishRun records the terminal state of a run.
func (j *Journal) FinishRun(ctx context.Context, runID, state string, failure error) error {
	var failureText sql.NullString
	if failure != nil {
		failureText = sql.NullString{String: failure.Error(), Valid: true}
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, state = ?, failure = ? WHERE id = ?`,
		now, state, failureText, runID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (j *Journal) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, state, failure
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		var finishedAt, failure sql.NullString
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.State, &failure); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		if finishedAt.Valid {
			run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt.String)
		}
		run.Failure = failure.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Stages returns the recorded stage transitions for a run in insertion order.
func (j *Journal) Stages(ctx context.Context, runID string) ([]StageRecord, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT stage, status, started_at, finished_at
         FROM run_stages WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("query stages: %w", err)
	}
	defer rows.Close()

	var stages []StageRecord
	for rows.Next() {
		var rec StageRecord
		var startedAt string
		var finishedAt sql.NullString
		if err := rows.Scan(&rec.Stage, &rec.Status, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan stage: %w", err)
		}
		rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		if finishedAt.Valid {
			rec.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt.String)
		}
		stages = append(stages, rec)
	}
	return stages, rows.Err()
}
