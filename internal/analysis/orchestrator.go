// Package analysis runs LLM call-graph analysis over batches of source
// files. The Orchestrator owns a single worker goroutine per run and
// exposes a thread-safe control surface (pause, resume, stop, force-retry)
// plus snapshot-based status. Rate-limit failures suspend the run through
// an auto-pause controller and the same file is retried once the server
// recovers; all other failures are persisted so the next run can pick the
// file up again.
package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/grafolab/grafo/internal/checkpoint"
	"github.com/grafolab/grafo/internal/config"
	"github.com/grafolab/grafo/internal/telemetry"
)

// Polling cadence while the run is suspended. Auto-pause recovery takes
// minutes, so it polls coarsely; a manual pause should release quickly.
const (
	autoPausePoll   = 5 * time.Second
	manualPausePoll = 500 * time.Millisecond

	// One status line per this many auto-pause polls.
	pauseReportEvery = 12
)

// Client is the LLM surface the orchestrator depends on. *ollama.Client
// implements it.
type Client interface {
	Generate(ctx context.Context, model, prompt string, contextSize int, temperature float64) (string, float64, error)
	CheckConnection(ctx context.Context) bool
}

// Notifier receives human-facing run output. *ui.Printer implements it.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Warning(msg string)
	Error(msg string)
	FileDone(progress float64, file, status string, seconds float64)
}

type nopNotifier struct{}

func (nopNotifier) Info(string)                               {}
func (nopNotifier) Success(string)                            {}
func (nopNotifier) Warning(string)                            {}
func (nopNotifier) Error(string)                              {}
func (nopNotifier) FileDone(float64, string, string, float64) {}

// ProgressFunc is called after every processed file.
type ProgressFunc func(FileResult)

// DoneFunc is called exactly once when the run ends, with every result
// collected and a terminal error if the run did not end normally.
type DoneFunc func(results []FileResult, err error)

// Orchestrator coordinates one analysis run at a time.
type Orchestrator struct {
	client Client
	store  *checkpoint.Store
	notify Notifier
	emit   *telemetry.Emitter

	state    *runState
	pauseCtl *pauseController

	// Poll intervals, shrunk by tests.
	autoPoll   time.Duration
	manualPoll time.Duration

	ctl struct {
		mu         sync.Mutex
		runID      string
		onProgress ProgressFunc
		onDone     DoneFunc
		termErr    error
	}
}

// New creates an orchestrator. notify and emit may be nil.
func New(client Client, store *checkpoint.Store, notify Notifier, emit *telemetry.Emitter) *Orchestrator {
	if notify == nil {
		notify = nopNotifier{}
	}
	o := &Orchestrator{
		client:     client,
		store:      store,
		notify:     notify,
		emit:       emit,
		state:      &runState{},
		autoPoll:   autoPausePoll,
		manualPoll: manualPausePoll,
	}
	o.pauseCtl = newPauseController(client.CheckConnection)
	o.pauseCtl.onRetry = func(count int) {
		o.notify.Info(fmt.Sprintf("connection retry %d/%d", count, o.pauseCtl.MaxRetries))
		o.event(telemetry.KindRetryAttempt, "", map[string]any{"attempt": count})
	}
	o.pauseCtl.onResume = func(forced bool) {
		o.notify.Success("server recovered, resuming analysis")
		o.event(telemetry.KindResume, "", map[string]any{"forced": forced})
	}
	o.pauseCtl.onExhausted = func() {
		o.setTermErr(ErrRetriesExhausted)
		o.notify.Error("server did not recover, stopping run")
		o.event(telemetry.KindRetryExhausted, "", nil)
		o.state.requestStop()
	}
	return o
}

// SetRetryPolicy adjusts the auto-pause cadence. It affects pauses
// activated after the call.
func (o *Orchestrator) SetRetryPolicy(interval time.Duration, maxRetries int) {
	o.pauseCtl.RetryInterval = interval
	o.pauseCtl.MaxRetries = maxRetries
}

// Start begins a run over files under cfg. Files whose extension does not
// match cfg's language are skipped with a warning; files with a reusable
// checkpoint are filtered out. When nothing is left to analyze the
// completion sink fires synchronously and no worker starts. Only one run
// may be active at a time.
func (o *Orchestrator) Start(files []string, cfg config.Analysis, onProgress ProgressFunc, onDone DoneFunc) error {
	valid, skipped := config.SplitByExtension(files, cfg.Language)
	if len(skipped) > 0 {
		o.notify.Warning(fmt.Sprintf("skipping %d file(s) without a %s extension", len(skipped), cfg.Language))
	}
	if len(valid) == 0 {
		return ErrNoFiles
	}

	pending := o.store.FilterPending(valid, cfg)

	if !o.state.tryStart() {
		return ErrRunActive
	}

	o.ctl.mu.Lock()
	o.ctl.runID = uuid.NewString()
	o.ctl.onProgress = onProgress
	o.ctl.onDone = onDone
	o.ctl.termErr = nil
	o.ctl.mu.Unlock()

	o.event(telemetry.KindRunStart, "", map[string]any{
		"files":        len(pending),
		"checkpointed": len(valid) - len(pending),
		"model":        cfg.Model,
	})

	if len(pending) == 0 {
		o.notify.Success("all files already analyzed with a compatible configuration")
		o.finish(nil)
		return nil
	}

	o.notify.Info(fmt.Sprintf("analyzing %d of %d file(s), %d reused from checkpoints",
		len(pending), len(valid), len(valid)-len(pending)))
	go o.worker(pending, cfg)
	return nil
}

// RunID returns the identifier of the current (or most recent) run.
func (o *Orchestrator) RunID() string {
	o.ctl.mu.Lock()
	defer o.ctl.mu.Unlock()
	return o.ctl.runID
}

// Pause suspends the run manually. The worker holds before the next file.
func (o *Orchestrator) Pause() error {
	if !o.state.isRunning() {
		return ErrNotRunning
	}
	o.state.setManualPause(true)
	o.notify.Info("analysis paused")
	return nil
}

// Resume releases a manual pause.
func (o *Orchestrator) Resume() error {
	if !o.state.manuallyPaused() {
		return ErrNotPaused
	}
	o.state.setManualPause(false)
	o.event(telemetry.KindResume, "", map[string]any{"forced": false, "manual": true})
	o.notify.Info("analysis resumed")
	return nil
}

// ForceRetry probes the server immediately during an auto-pause.
func (o *Orchestrator) ForceRetry(ctx context.Context) error {
	return o.pauseCtl.ForceRetry(ctx)
}

// CancelPause abandons an active auto-pause and stops the whole run.
func (o *Orchestrator) CancelPause() {
	if o.pauseCtl.Cancel() {
		o.notify.Warning("auto-pause cancelled, stopping run")
		o.Stop()
	}
}

// Stop requests cooperative shutdown. Safe to call at any time, from any
// goroutine, repeatedly. Results for files already processed are still
// delivered to the completion sink.
func (o *Orchestrator) Stop() {
	if o.state.requestStop() {
		o.pauseCtl.Cancel()
		o.notify.Warning("stop requested")
	}
}

// Status returns a point-in-time snapshot of the run.
func (o *Orchestrator) Status() RunStatus {
	st := o.state.snapshot()
	st.Pause = o.pauseCtl.Status()
	if st.Pause.Active {
		st.Paused = true
	}
	return st
}
