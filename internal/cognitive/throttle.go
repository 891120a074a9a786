package cognitive

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// defaultRateLimitBackoff applies when the provider answers 429 without
// a usable Retry-After.
const defaultRateLimitBackoff = 10 * time.Second

// throttle spaces LLM calls with a token bucket and pauses every caller after
// the provider reports rate limiting.
type throttle struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// newThrottle builds a limiter for rps requests per second. Zero or negative
// means unlimited; the 429 backoff still applies.
func newThrottle(rps float64) *throttle {
	limit := rate.Inf
	burst := 1
	if rps > 0 {
		limit = rate.Limit(rps)
		if rps > 1 {
			burst = int(rps)
		}
	}
	return &throttle{limiter: rate.NewLimiter(limit, burst)}
}

// Wait blocks until a call may be issued or ctx is done.
func (t *throttle) Wait(ctx context.Context) error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	retryAt := t.retryAt
	t.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return t.limiter.Wait(ctx)
}

// RecordRateLimit pushes the next allowed call out by d.
func (t *throttle) RecordRateLimit(d time.Duration) {
	if t == nil {
		return
	}
	if d <= 0 {
		d = defaultRateLimitBackoff
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if next := time.Now().Add(d); next.After(t.retryAt) {
		t.retryAt = next
	}
}
