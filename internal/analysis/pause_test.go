package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/grafolab/grafo/internal/checkpoint"
)

func TestRateLimitPausesWithoutPersistingAndRetriesSameFile(t *testing.T) {
	t.Parallel()
	var failed bool
	var mu sync.Mutex
	client := &fakeClient{}
	client.generate = func(string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if !failed {
			failed = true
			return "", errors.New("generation failed: 429 - too many requests")
		}
		return goodResponse, nil
	}

	o, store, root := newTestOrchestrator(t, client)
	// Keep the scheduled retry far away; this test drives recovery through
	// ForceRetry.
	o.SetRetryPolicy(time.Minute, 10)
	cfg := testAnalysisConfig()
	file := writeSource(t, root, "main.c", "int main() { helper(); }")

	done := make(chan error, 1)
	var results []FileResult
	err := o.Start([]string{file}, cfg, nil, func(res []FileResult, err error) {
		results = res
		done <- err
	})
	if err != nil {
		t.Fatal(err)
	}

	waitFor(t, "auto-pause", func() bool { return o.Status().Pause.Active })

	// The rate-limited attempt must leave no record behind.
	if _, err := store.Load(file); err == nil {
		t.Error("rate-limited failure was persisted")
	}

	// Server still down: the pause survives a forced retry.
	if err := o.ForceRetry(context.Background()); !errors.Is(err, ErrStillUnavailable) {
		t.Errorf("ForceRetry (down) = %v, want ErrStillUnavailable", err)
	}
	if !o.Status().Pause.Active {
		t.Error("pause ended although the server is still down")
	}

	client.setConnected(true)
	if err := o.ForceRetry(context.Background()); err != nil {
		t.Errorf("ForceRetry (up) = %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("run ended with error: %v", err)
	}
	if len(results) != 1 || results[0].Status != StatusSuccess {
		t.Fatalf("results = %+v, want one success", results)
	}
	if client.calls() != 2 {
		t.Errorf("Generate called %d times, want 2 (retry of the same file)", client.calls())
	}
	if rec, err := store.Load(file); err != nil || rec.Status != checkpoint.StatusSuccess {
		t.Errorf("final record = %+v, %v", rec, err)
	}
}

func TestRetryExhaustionStopsRun(t *testing.T) {
	t.Parallel()
	client := &fakeClient{generate: func(string) (string, error) {
		return "", errors.New("generation failed: 429 - too many requests")
	}}
	o, store, root := newTestOrchestrator(t, client)
	o.SetRetryPolicy(2*time.Millisecond, 2)
	cfg := testAnalysisConfig()
	file := writeSource(t, root, "main.c", "int main() {}")

	done := make(chan error, 1)
	var results []FileResult
	err := o.Start([]string{file}, cfg, nil, func(res []FileResult, err error) {
		results = res
		done <- err
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := <-done; !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("done err = %v, want ErrRetriesExhausted", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want none", results)
	}
	if _, err := store.Load(file); err == nil {
		t.Error("exhausted rate-limit run persisted a record")
	}
	if o.Status().Running {
		t.Error("orchestrator still reports running")
	}
}

func TestManualPauseAndResume(t *testing.T) {
	t.Parallel()
	client := &fakeClient{generate: func(string) (string, error) {
		return goodResponse, nil
	}}
	o, _, root := newTestOrchestrator(t, client)
	cfg := testAnalysisConfig()

	a := writeSource(t, root, "a.c", "void a() {}")
	b := writeSource(t, root, "b.c", "void b() {}")

	done := make(chan error, 1)
	var results []FileResult
	err := o.Start([]string{a, b}, cfg,
		func(res FileResult) {
			// Pausing from the progress sink lands before the worker
			// reaches the next file.
			if res.File == a {
				if err := o.Pause(); err != nil {
					t.Errorf("Pause: %v", err)
				}
			}
		},
		func(res []FileResult, err error) {
			results = res
			done <- err
		})
	if err != nil {
		t.Fatal(err)
	}

	waitFor(t, "manual pause", func() bool { return o.Status().ManualPause })
	time.Sleep(20 * time.Millisecond)
	if calls := client.calls(); calls != 1 {
		t.Errorf("Generate called %d times while paused, want 1", calls)
	}

	if err := o.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("run ended with error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if st := o.Status(); st.PausedSeconds <= 0 {
		t.Errorf("PausedSeconds = %v, want > 0", st.PausedSeconds)
	}
}

func TestResumeWithoutPause(t *testing.T) {
	t.Parallel()
	o, _, _ := newTestOrchestrator(t, &fakeClient{})
	if err := o.Resume(); !errors.Is(err, ErrNotPaused) {
		t.Errorf("Resume = %v, want ErrNotPaused", err)
	}
	if err := o.Pause(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Pause = %v, want ErrNotRunning", err)
	}
}
