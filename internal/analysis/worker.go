package analysis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grafolab/grafo/internal/checkpoint"
	"github.com/grafolab/grafo/internal/config"
	"github.com/grafolab/grafo/internal/extract"
	"github.com/grafolab/grafo/internal/ollama"
	"github.com/grafolab/grafo/internal/telemetry"
)

// worker is the single per-run goroutine. After a rate-limit failure the
// same index is retried, so no file is silently skipped by a pause.
func (o *Orchestrator) worker(files []string, cfg config.Analysis) {
	total := len(files)
	results := make([]FileResult, 0, total)

	for i := 0; i < total; i++ {
		if !o.waitWhilePaused() {
			break
		}

		file := files[i]
		o.state.setCurrent(file, float64(i+1)/float64(total)*100)

		res := o.processFile(file, cfg)
		if res.Status == StatusError && res.ErrorType.RateLimited() {
			o.notify.Warning(fmt.Sprintf("rate limited on %s, pausing", filepath.Base(file)))
			o.event(telemetry.KindAutoPause, file, map[string]any{"error_type": string(res.ErrorType)})
			o.pauseCtl.Activate(res.Err.Error())
			i--
			continue
		}

		results = append(results, res)
		o.state.markProcessed()
		o.notify.FileDone(o.state.progressNow(), filepath.Base(file), res.Status.String(), res.LLMSeconds)
		o.event(telemetry.KindFileDone, file, map[string]any{
			"status":  res.Status.String(),
			"seconds": res.LLMSeconds,
		})
		o.deliverProgress(res)
	}

	o.finish(results)
}

// processFile runs the full pipeline for one file: checkpoint re-check,
// read, prompt, generate, extract, persist. Rate-limit failures are the one
// outcome that is never persisted; the file stays pending for the retry.
func (o *Orchestrator) processFile(file string, cfg config.Analysis) FileResult {
	if rec, ok := o.store.Valid(file, cfg); ok {
		return FileResult{File: file, Status: StatusCheckpoint, Text: rec.Text, Graph: rec.Graph}
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return o.persistError(file, cfg, 0, err)
	}
	code := string(data)
	if strings.TrimSpace(code) == "" {
		res := FileResult{File: file, Status: StatusEmpty, Text: "file is empty"}
		o.persist(res, cfg)
		return res
	}

	prompt := buildPrompt(cfg, file, code)

	raw, seconds, err := o.client.Generate(context.Background(), cfg.Model, prompt, cfg.ContextSize, cfg.Temperature)
	if err != nil {
		errType := ollama.Classify(err.Error())
		if errType.RateLimited() {
			return FileResult{File: file, Status: StatusError, ErrorType: errType, Err: err, LLMSeconds: seconds}
		}
		return o.persistError(file, cfg, seconds, err)
	}

	res := FileResult{
		File:       file,
		Status:     StatusSuccess,
		Text:       raw,
		Graph:      extract.Extract(raw),
		LLMSeconds: seconds,
	}
	o.persist(res, cfg)
	return res
}

func (o *Orchestrator) persistError(file string, cfg config.Analysis, seconds float64, err error) FileResult {
	res := FileResult{
		File:       file,
		Status:     StatusError,
		ErrorType:  ollama.Classify(err.Error()),
		Err:        err,
		LLMSeconds: seconds,
	}
	o.persist(res, cfg)
	return res
}

func (o *Orchestrator) persist(res FileResult, cfg config.Analysis) {
	rec := &checkpoint.Record{
		File:       res.File,
		Status:     res.Status.wire(),
		Text:       res.Text,
		Graph:      res.Graph,
		Config:     cfg,
		LLMSeconds: res.LLMSeconds,
		ErrorType:  string(res.ErrorType),
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	if _, err := o.store.Save(rec); err != nil {
		o.notify.Error(fmt.Sprintf("saving record for %s: %v", res.File, err))
	}
}

// waitWhilePaused blocks while the run is suspended, either by auto-pause
// or manually. It returns false when the run should stop instead of
// continuing. Time spent waiting accrues to the paused total, not the
// analysis elapsed time.
func (o *Orchestrator) waitWhilePaused() bool {
	start := time.Now()
	waited := false
	polls := 0

	defer func() {
		if waited {
			o.state.addPaused(time.Since(start))
		}
	}()

	for {
		if o.state.stopWanted() {
			return false
		}
		pauseSt := o.pauseCtl.Status()
		if !pauseSt.Active && !o.state.manuallyPaused() {
			return true
		}
		waited = true
		if pauseSt.Active {
			polls++
			if polls%pauseReportEvery == 0 {
				o.notify.Info(fmt.Sprintf("paused (%s), retry %d/%d, next attempt in %.0fs",
					pauseSt.Reason, pauseSt.RetryCount, pauseSt.MaxRetries, pauseSt.NextAttemptSeconds))
			}
			time.Sleep(o.autoPoll)
		} else {
			time.Sleep(o.manualPoll)
		}
	}
}

// deliverProgress invokes the progress sink, isolating the worker from sink
// panics.
func (o *Orchestrator) deliverProgress(res FileResult) {
	o.ctl.mu.Lock()
	sink := o.ctl.onProgress
	o.ctl.mu.Unlock()
	if sink == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			o.notify.Error(fmt.Sprintf("progress callback panicked: %v", r))
		}
	}()
	sink(res)
}

// finish ends the run and fires the completion sink exactly once.
func (o *Orchestrator) finish(results []FileResult) {
	stopped := o.state.stopWanted()
	snap := o.state.snapshot()
	o.state.finish()

	o.ctl.mu.Lock()
	done := o.ctl.onDone
	o.ctl.onDone = nil
	err := o.ctl.termErr
	o.ctl.mu.Unlock()

	kind := telemetry.KindRunDone
	if stopped {
		kind = telemetry.KindRunStopped
	}
	o.event(kind, "", map[string]any{
		"processed": len(results),
		"elapsed":   snap.ElapsedSeconds,
		"paused":    snap.PausedSeconds,
	})

	if done == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			o.notify.Error(fmt.Sprintf("completion callback panicked: %v", r))
		}
	}()
	done(results, err)
}

func (o *Orchestrator) setTermErr(err error) {
	o.ctl.mu.Lock()
	if o.ctl.termErr == nil {
		o.ctl.termErr = err
	}
	o.ctl.mu.Unlock()
}

func (o *Orchestrator) event(kind, file string, data any) {
	if o.emit == nil {
		return
	}
	_ = o.emit.Emit(telemetry.Event{
		Timestamp: time.Now(),
		Kind:      kind,
		RunID:     o.RunID(),
		File:      file,
		Data:      data,
	})
}

// buildPrompt fills the analysis template. Source content is capped at ten
// characters per allowed line so oversized files cannot blow past the model
// context.
func buildPrompt(cfg config.Analysis, file, code string) string {
	if limit := cfg.LineLimit * 10; limit > 0 && len(code) > limit {
		code = code[:limit] + "\n... (truncated)"
	}
	tmpl := cfg.PromptTemplate
	if tmpl == "" {
		tmpl = config.DefaultPromptTemplate
	}
	return strings.NewReplacer(
		"{filename}", filepath.Base(file),
		"{lang}", cfg.Language,
		"{code}", code,
	).Replace(tmpl)
}
