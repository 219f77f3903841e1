package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rexlunae/employment-barage/internal/model"
)

// SourceRateLimiter enforces a minimum delay between requests to the same
// upstream source. Concurrent callers are queued in arrival order.
type SourceRateLimiter struct {
	mu        sync.Mutex
	next      map[string]time.Time // earliest start of the next call, per source
	minDelay  time.Duration
	overrides map[string]time.Duration
}

// NewSourceRateLimiter creates a limiter with minDelay between calls to one
// source. overrides replaces minDelay for the named sources.
func NewSourceRateLimiter(minDelay time.Duration, overrides map[string]time.Duration) *SourceRateLimiter {
	return &SourceRateLimiter{
		next:      make(map[string]time.Time),
		minDelay:  minDelay,
		overrides: overrides,
	}
}

func (r *SourceRateLimiter) delayFor(source string) time.Duration {
	if d, ok := r.overrides[source]; ok {
		return d
	}
	return r.minDelay
}

// Wait blocks until the source may be called again.
// Returns an error if the context is cancelled while waiting.
func (r *SourceRateLimiter) Wait(ctx context.Context, source string) error {
	r.mu.Lock()
	now := time.Now()
	start := now
	if next, ok := r.next[source]; ok && next.After(now) {
		start = next
	}
	r.next[source] = start.Add(r.delayFor(source))
	r.mu.Unlock()

	wait := start.Sub(now)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", source, ctx.Err())
	case <-timer.C:
		return nil
	}
}

// RateLimitedSource is a decorator that waits on a shared limiter before
// delegating to the wrapped Source.
type RateLimitedSource struct {
	inner   model.Source
	limiter *SourceRateLimiter
}

// NewRateLimitedSource wraps a Source with source-level rate limiting.
func NewRateLimitedSource(inner model.Source, limiter *SourceRateLimiter) *RateLimitedSource {
	return &RateLimitedSource{inner: inner, limiter: limiter}
}

func (s *RateLimitedSource) Name() string { return s.inner.Name() }

// FetchJobs waits for the rate limiter to allow a request, then delegates to
// the wrapped source.
func (s *RateLimitedSource) FetchJobs(ctx context.Context, q model.Query) ([]model.Job, error) {
	if err := s.limiter.Wait(ctx, s.inner.Name()); err != nil {
		return nil, err
	}
	return s.inner.FetchJobs(ctx, q)
}
