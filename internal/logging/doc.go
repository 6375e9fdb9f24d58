// Package logging assembles the structured slog loggers used across dfrsetup.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attr helpers so stage code tags log lines uniformly.
// Progress messages and failure reports share this single output path. A
// no-op logger is provided for tests and wiring code that cannot fail.
package logging
