// Package runner implements the Namespace Runner (C7): it resolves a
// namespace's file set, runs the namespace's scenarios against every
// file in topological order, merges each file's results into the
// Graph Store inside one transaction, and reports a result summary.
package runner

import "fmt"

// FileError records one file's processing failure. It is always
// non-fatal to the run as a whole; the file is skipped and the run
// continues.
type FileError struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// runError wraps a per-file failure with enough context for logging,
// distinct from FileError (the summary-facing, JSON-serializable
// shape) so callers never have to reach into zap fields to recover it.
type runError struct {
	scenarioID string
	file       string
	err        error
}

func (e *runError) Error() string {
	return fmt.Sprintf("runner: scenario %s: file %s: %v", e.scenarioID, e.file, e.err)
}

func (e *runError) Unwrap() error { return e.err }
