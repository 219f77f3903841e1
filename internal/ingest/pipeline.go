package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rexlunae/employment-barage/internal/aggregator"
	"github.com/rexlunae/employment-barage/internal/model"
)

// Aggregator runs one fan-out over all configured sources.
type Aggregator interface {
	Run(ctx context.Context, q model.Query) aggregator.Result
}

// emptyChecker is implemented by stores that can tell whether they hold any
// jobs yet.
type emptyChecker interface {
	IsEmpty(ctx context.Context) (bool, error)
}

// Summary describes one pipeline run.
type Summary struct {
	Fetched       int            `json:"fetched"`
	Created       int            `json:"created"`
	Updated       int            `json:"updated"`
	FailedSources []string       `json:"failed_sources"`
	Counts        map[string]int `json:"counts"`
	New           []model.Job    `json:"-"`
}

// Pipeline owns one ingest cycle: aggregate → upsert by source URL → notify
// about newly created jobs.
type Pipeline struct {
	agg      Aggregator
	store    model.JobStore
	notifier model.Notifier
	logger   *slog.Logger
}

// NewPipeline creates a pipeline wired with all its dependencies.
func NewPipeline(agg Aggregator, store model.JobStore, notifier model.Notifier, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		agg:      agg,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Run executes one cycle for q. Source failures are reported in the summary;
// store and notifier failures are returned as errors. When the store starts
// out empty the run only seeds it and sends no notifications.
func (p *Pipeline) Run(ctx context.Context, q model.Query) (Summary, error) {
	seeding := false
	if ec, ok := p.store.(emptyChecker); ok {
		empty, err := ec.IsEmpty(ctx)
		if err != nil {
			return Summary{}, fmt.Errorf("ingest: %w", err)
		}
		seeding = empty
	}

	res := p.agg.Run(ctx, q)

	sum := Summary{
		Fetched: len(res.Jobs),
		Counts:  make(map[string]int, len(res.Counts)),
	}
	for _, c := range res.Counts {
		sum.Counts[c.Source] = c.Jobs
	}
	for _, f := range res.Failures {
		sum.FailedSources = append(sum.FailedSources, f.Source)
	}

	for _, job := range res.Jobs {
		stored, created, err := p.store.UpsertBySourceURL(ctx, job)
		if err != nil {
			return sum, fmt.Errorf("ingest: storing %s: %w", job.SourceURL, err)
		}
		if created {
			sum.Created++
			sum.New = append(sum.New, stored)
		} else {
			sum.Updated++
		}
	}

	if seeding && sum.Created > 0 {
		p.logger.Info("seeded empty store, notifications skipped", "created", sum.Created)
	} else if len(sum.New) > 0 {
		if err := p.notifier.Notify(sum.New); err != nil {
			return sum, fmt.Errorf("ingest: notifying: %w", err)
		}
	}

	p.logger.Info("ingest complete",
		"fetched", sum.Fetched,
		"created", sum.Created,
		"updated", sum.Updated,
		"failed_sources", len(sum.FailedSources),
	)
	return sum, nil
}
