package analysis

import "errors"

// Sentinel errors returned by the orchestrator's control surface.
var (
	// ErrNoFiles means the requested batch contains no analyzable files
	// after extension filtering.
	ErrNoFiles = errors.New("analysis: no analyzable files")

	// ErrRunActive means a run is already in progress; only one run may
	// execute at a time.
	ErrRunActive = errors.New("analysis: a run is already active")

	// ErrNotRunning means a control operation needs an active run.
	ErrNotRunning = errors.New("analysis: no run is active")

	// ErrNotPaused means resume or force-retry was requested without a
	// matching pause.
	ErrNotPaused = errors.New("analysis: run is not paused")

	// ErrStillUnavailable means a forced retry probed the server and it
	// has not recovered; the pause stays active.
	ErrStillUnavailable = errors.New("analysis: server still unavailable")

	// ErrRetriesExhausted means the auto-pause controller gave up after
	// its retry budget and stopped the run.
	ErrRetriesExhausted = errors.New("analysis: connection retries exhausted")
)
