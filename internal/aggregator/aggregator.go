package aggregator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rexlunae/employment-barage/internal/model"
)

// SourceCount is the number of jobs one source contributed to a run.
type SourceCount struct {
	Source string
	Jobs   int
}

// SourceFailure records a source whose fetch failed during a run.
type SourceFailure struct {
	Source string
	Err    error
}

// Result is the outcome of one aggregation run. Jobs are grouped by source in
// registration order; Counts lists successful sources in the same order.
type Result struct {
	Jobs     []model.Job
	Counts   []SourceCount
	Failures []SourceFailure
}

// Aggregator fans a query out to a fixed set of sources and merges their
// results. A failing source is logged and skipped, never returned as an error.
type Aggregator struct {
	sources []model.Source
	logger  *slog.Logger
}

// New creates an aggregator over sources. The list is copied and fixed for
// the lifetime of the aggregator.
func New(sources []model.Source, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		sources: append([]model.Source(nil), sources...),
		logger:  logger,
	}
}

// Sources returns the display names of the registered sources.
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.sources))
	for i, s := range a.sources {
		names[i] = s.Name()
	}
	return names
}

type sourceResult struct {
	jobs []model.Job
	err  error
}

// Run queries every source concurrently with q and waits for all of them.
func (a *Aggregator) Run(ctx context.Context, q model.Query) Result {
	results := make([]sourceResult, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			jobs, err := src.FetchJobs(ctx, q)
			results[i] = sourceResult{jobs: jobs, err: err}
		}()
	}
	wg.Wait()

	var res Result
	for i, r := range results {
		name := a.sources[i].Name()
		if r.err != nil {
			a.logger.Warn("source fetch failed", "source", name, "error", r.err)
			res.Failures = append(res.Failures, SourceFailure{Source: name, Err: r.err})
			continue
		}
		a.logger.Debug("source fetched", "source", name, "fetched", len(r.jobs))
		res.Jobs = append(res.Jobs, r.jobs...)
		res.Counts = append(res.Counts, SourceCount{Source: name, Jobs: len(r.jobs)})
	}
	if res.Jobs == nil {
		res.Jobs = []model.Job{}
	}
	return res
}

// FetchAll returns the jobs of every source that succeeded, in registration
// order. It never fails; a total outage yields an empty slice.
func (a *Aggregator) FetchAll(ctx context.Context, keywords, location string, limitPerSource int) []model.Job {
	return a.Run(ctx, model.Query{Keywords: keywords, Location: location, Limit: limitPerSource}).Jobs
}
