package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/rexlunae/employment-barage/internal/model"
)

// RetrySource is a decorator that retries transient fetch failures with
// exponential backoff and jitter before giving up on the wrapped Source.
type RetrySource struct {
	inner      model.Source
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetrySource wraps a Source with retry logic.
// maxRetries is the number of additional attempts after the first failure;
// zero disables retrying. baseDelay is doubled on each subsequent retry.
func NewRetrySource(inner model.Source, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetrySource {
	return &RetrySource{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

func (s *RetrySource) Name() string { return s.inner.Name() }

// FetchJobs attempts to fetch jobs, retrying on transient errors.
func (s *RetrySource) FetchJobs(ctx context.Context, q model.Query) ([]model.Job, error) {
	jobs, err := s.inner.FetchJobs(ctx, q)
	for attempt := 1; err != nil && isRetryable(err) && attempt <= s.maxRetries; attempt++ {
		delay := s.backoffDelay(attempt, err)

		s.logger.Warn("retrying after transient error",
			"source", s.inner.Name(),
			"attempt", attempt,
			"max_retries", s.maxRetries,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		jobs, err = s.inner.FetchJobs(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// A Retry-After from the upstream takes precedence.
func (s *RetrySource) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := s.baseDelay << (attempt - 1)
	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable returns true for network errors, 429 and 5xx responses.
// Cancellation and other 4xx responses are final.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Transient()
	}
	return true
}
