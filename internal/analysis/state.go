package analysis

import (
	"sync"
	"time"
)

// RunStatus is a point-in-time snapshot of an orchestrator, safe to read
// while a run executes.
type RunStatus struct {
	Running     bool
	Paused      bool
	ManualPause bool
	CurrentFile string
	Progress    float64
	Processed   int

	// ElapsedSeconds is active analysis time; time spent paused is
	// accounted separately in PausedSeconds.
	ElapsedSeconds float64
	PausedSeconds  float64

	Pause PauseStatus
}

// runState is the mutex-guarded mutable state of a run. All mutation goes
// through its methods; the worker goroutine and control callers never touch
// fields directly.
type runState struct {
	mu          sync.Mutex
	running     bool
	manualPause bool
	stop        bool
	currentFile string
	progress    float64
	processed   int
	startedAt   time.Time
	pausedTotal time.Duration
}

// tryStart transitions to running, resetting per-run counters. It reports
// false when a run is already active.
func (s *runState) tryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return false
	}
	s.running = true
	s.manualPause = false
	s.stop = false
	s.currentFile = ""
	s.progress = 0
	s.processed = 0
	s.startedAt = time.Now()
	s.pausedTotal = 0
	return true
}

// requestStop marks the run for cooperative shutdown. It reports true only
// on the first effective request, so stop stays idempotent.
func (s *runState) requestStop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.stop {
		return false
	}
	s.stop = true
	return true
}

func (s *runState) stopWanted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop
}

func (s *runState) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.manualPause = false
	s.currentFile = ""
}

func (s *runState) isRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *runState) setCurrent(file string, progress float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentFile = file
	s.progress = progress
}

func (s *runState) markProcessed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed++
}

func (s *runState) setManualPause(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manualPause = v
}

func (s *runState) manuallyPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manualPause
}

func (s *runState) addPaused(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pausedTotal += d
}

func (s *runState) progressNow() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *runState) snapshot() RunStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := RunStatus{
		Running:       s.running,
		ManualPause:   s.manualPause,
		Paused:        s.manualPause,
		CurrentFile:   s.currentFile,
		Progress:      s.progress,
		Processed:     s.processed,
		PausedSeconds: s.pausedTotal.Seconds(),
	}
	if s.running {
		st.ElapsedSeconds = (time.Since(s.startedAt) - s.pausedTotal).Seconds()
	}
	return st
}
