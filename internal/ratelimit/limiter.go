package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with a name for logging/debugging.
//
// It enforces a minimum delay between consecutive events with a burst of
// one, so the delay is a moving floor: bursts are flattened and idle
// periods never bank more than a single immediate request.
type Limiter struct {
	limiter *rate.Limiter
	name    string
}

// New creates a rate limiter enforcing the given minimum delay between
// events. Concurrent callers are serialized; the limiter is the single
// owner of "time of last request".
func New(name string, minDelay time.Duration) *Limiter {
	return &Limiter{
		limiter: rate.NewLimiter(rate.Every(minDelay), 1),
		name:    name,
	}
}

// Wait blocks until the rate limiter allows a request to proceed.
// Returns an error if the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", l.name, err)
	}
	return nil
}

// Allow reports whether a request can proceed without blocking.
// Use this for non-blocking checks; prefer Wait for most cases.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Name returns the name of this rate limiter.
func (l *Limiter) Name() string {
	return l.name
}
