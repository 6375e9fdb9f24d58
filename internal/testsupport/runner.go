// Package testsupport provides shared fixtures for package tests.
package testsupport

import (
	"context"
	"strings"
	"sync"
)

// RecordingRunner implements runner.Runner for tests. It records every
// invocation and replays scripted errors and outputs keyed by substring
// match against the joined command line.
type RecordingRunner struct {
	mu      sync.Mutex
	calls   []string
	errors  map[string]error
	outputs map[string]string
}

func NewRecordingRunner() *RecordingRunner {
	return &RecordingRunner{
		errors:  map[string]error{},
		outputs: map[string]string{},
	}
}

// FailOn makes any command line containing match return err.
func (r *RecordingRunner) FailOn(match string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors[match] = err
}

// OutputFor makes any command line containing match return out.
func (r *RecordingRunner) OutputFor(match, out string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs[match] = out
}

// Calls returns the recorded command lines in invocation order.
func (r *RecordingRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallIndex returns the position of the first recorded command line
// containing match, or -1.
func (r *RecordingRunner) CallIndex(match string) int {
	for i, call := range r.Calls() {
		if strings.Contains(call, match) {
			return i
		}
	}
	return -1
}

func (r *RecordingRunner) Run(_ context.Context, name string, args ...string) error {
	line := r.record(name, args)
	return r.errorFor(line)
}

func (r *RecordingRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	line := r.record(name, args)
	r.mu.Lock()
	defer r.mu.Unlock()
	var out string
	for match, scripted := range r.outputs {
		if strings.Contains(line, match) {
			out = scripted
			break
		}
	}
	for match, err := range r.errors {
		if strings.Contains(line, match) {
			return out, err
		}
	}
	return out, nil
}

func (r *RecordingRunner) record(name string, args []string) string {
	line := name
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, line)
	return line
}

func (r *RecordingRunner) errorFor(line string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for match, err := range r.errors {
		if strings.Contains(line, match) {
			return err
		}
	}
	return nil
}
