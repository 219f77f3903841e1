package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/rexlunae/employment-barage/internal/ingest"
	"github.com/rexlunae/employment-barage/internal/model"
)

// Runner executes one ingest cycle.
type Runner interface {
	Run(ctx context.Context, q model.Query) (ingest.Summary, error)
}

// Cleaner prunes jobs that have not been seen for longer than olderThan.
type Cleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Scheduler owns the watch loop: runs the pipeline on an interval and prunes
// stale jobs after each cycle.
type Scheduler struct {
	runner    Runner
	cleaner   Cleaner
	query     model.Query
	interval  time.Duration
	retention time.Duration
	logger    *slog.Logger
}

// NewScheduler creates a scheduler that runs q every interval. A zero
// retention or nil cleaner disables cleanup.
func NewScheduler(runner Runner, cleaner Cleaner, q model.Query, interval, retention time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:    runner,
		cleaner:   cleaner,
		query:     q,
		interval:  interval,
		retention: retention,
		logger:    logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then waits the configured
// interval between cycles. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"keywords", s.query.Keywords,
		"location", s.query.Location,
	)

	s.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	if _, err := s.runner.Run(ctx, s.query); err != nil {
		s.logger.Error("ingest cycle failed", "error", err)
	}

	if s.cleaner == nil || s.retention <= 0 {
		return
	}
	n, err := s.cleaner.Cleanup(ctx, s.retention)
	if err != nil {
		s.logger.Error("cleanup failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("removed stale jobs", "count", n)
	}
}
