// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter spaces outbound calls to an external API. It owns its own state;
// each API client holds one rather than sharing a package-level timestamp.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewLimiter allows one call per interval with no burst. An interval <= 0
// disables limiting.
func NewLimiter(interval time.Duration) *Limiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Limiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call may proceed, honouring any backoff set
// by Defer. It returns ctx.Err() if ctx ends first.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	retryAt := l.retryAt
	l.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return l.limiter.Wait(ctx)
}

// Defer pushes the next allowed call at least d into the future, e.g. after
// a 429 with Retry-After.
func (l *Limiter) Defer(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if at := time.Now().Add(d); at.After(l.retryAt) {
		l.retryAt = at
	}
}
