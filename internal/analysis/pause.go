package analysis

import (
	"context"
	"sync"
	"time"
)

// Default retry cadence when the server rate-limits or drops off.
const (
	defaultRetryInterval = 30 * time.Minute
	defaultMaxRetries    = 10
	probeTimeout         = 30 * time.Second
)

// PauseStatus is a snapshot of the auto-pause controller for display.
type PauseStatus struct {
	Active             bool
	Reason             string
	ElapsedSeconds     float64
	NextAttemptSeconds float64
	RetryCount         int
	MaxRetries         int
}

// pauseController suspends a run after a rate-limit class failure and
// periodically probes the server until it recovers or the retry budget is
// spent. Activation is idempotent; a second rate limit during an active
// pause does not start a second retry loop.
type pauseController struct {
	RetryInterval time.Duration
	MaxRetries    int

	check       func(ctx context.Context) bool
	onRetry     func(count int)
	onResume    func(forced bool)
	onExhausted func()

	mu      sync.Mutex
	active  bool
	reason  string
	since   time.Time
	next    time.Time
	retries int
	cancel  chan struct{}
}

func newPauseController(check func(ctx context.Context) bool) *pauseController {
	return &pauseController{
		RetryInterval: defaultRetryInterval,
		MaxRetries:    defaultMaxRetries,
		check:         check,
	}
}

// Activate starts a pause and its background retry loop. A no-op when a
// pause is already active.
func (p *pauseController) Activate(reason string) {
	p.mu.Lock()
	if p.active {
		p.mu.Unlock()
		return
	}
	p.active = true
	p.reason = reason
	p.since = time.Now()
	p.retries = 0
	p.next = time.Now().Add(p.RetryInterval)
	p.cancel = make(chan struct{})
	owner := p.cancel
	p.mu.Unlock()

	go p.retryLoop(owner)
}

// retryLoop probes the server once per interval. It exits when the pause is
// deactivated, the server recovers, or the retry budget is exhausted. The
// owner channel ties the loop to the activation that spawned it so a stale
// loop from a previous pause can never act on a new one.
func (p *pauseController) retryLoop(owner chan struct{}) {
	for {
		timer := time.NewTimer(p.RetryInterval)
		select {
		case <-owner:
			timer.Stop()
			return
		case <-timer.C:
		}

		p.mu.Lock()
		if !p.active || p.cancel != owner {
			p.mu.Unlock()
			return
		}
		p.retries++
		count := p.retries
		p.next = time.Now().Add(p.RetryInterval)
		p.mu.Unlock()

		if p.onRetry != nil {
			p.onRetry(count)
		}

		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		ok := p.check(ctx)
		cancel()

		if ok {
			if p.deactivate(owner) && p.onResume != nil {
				p.onResume(false)
			}
			return
		}
		if count >= p.MaxRetries {
			if p.deactivate(owner) && p.onExhausted != nil {
				p.onExhausted()
			}
			return
		}
	}
}

// ForceRetry probes the server immediately instead of waiting for the next
// scheduled attempt. On success the pause ends; on failure it stays active
// and ErrStillUnavailable is returned.
func (p *pauseController) ForceRetry(ctx context.Context) error {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return ErrNotPaused
	}
	p.retries++
	count := p.retries
	p.mu.Unlock()

	if p.onRetry != nil {
		p.onRetry(count)
	}
	if !p.check(ctx) {
		p.mu.Lock()
		p.next = time.Now().Add(p.RetryInterval)
		p.mu.Unlock()
		return ErrStillUnavailable
	}
	if p.deactivate(nil) && p.onResume != nil {
		p.onResume(true)
	}
	return nil
}

// Cancel ends an active pause without probing. It reports whether a pause
// was actually cancelled.
func (p *pauseController) Cancel() bool {
	return p.deactivate(nil)
}

// deactivate ends the pause and stops its retry loop. When owner is non-nil
// the call only takes effect if that activation is still the current one.
func (p *pauseController) deactivate(owner chan struct{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.active {
		return false
	}
	if owner != nil && p.cancel != owner {
		return false
	}
	p.active = false
	if p.cancel != nil {
		close(p.cancel)
		p.cancel = nil
	}
	return true
}

func (p *pauseController) Status() PauseStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := PauseStatus{
		Active:     p.active,
		Reason:     p.reason,
		RetryCount: p.retries,
		MaxRetries: p.MaxRetries,
	}
	if p.active {
		st.ElapsedSeconds = time.Since(p.since).Seconds()
		if until := time.Until(p.next).Seconds(); until > 0 {
			st.NextAttemptSeconds = until
		}
	}
	return st
}
