package cognitive

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestThrottleUnlimitedDoesNotBlock(t *testing.T) {
	th := newThrottle(0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for range 50 {
		if err := th.Wait(ctx); err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	}
	var nilThrottle *throttle
	if err := nilThrottle.Wait(ctx); err != nil {
		t.Fatalf("nil throttle should not block: %v", err)
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	th := newThrottle(20)
	ctx := context.Background()
	start := time.Now()
	for range 3 {
		if err := th.Wait(ctx); err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
	}
	// burst of 20 covers the first calls; exhaust it and measure the next one
	for range 20 {
		_ = th.Wait(ctx)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("expected limiter to delay calls beyond the burst, took %v", elapsed)
	}
}

func TestThrottleRateLimitBackoffHonoursContext(t *testing.T) {
	th := newThrottle(0)
	th.RecordRateLimit(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := th.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded during backoff, got %v", err)
	}
}
