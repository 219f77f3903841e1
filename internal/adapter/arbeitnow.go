package adapter

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/rexlunae/employment-barage/internal/filter"
	"github.com/rexlunae/employment-barage/internal/model"
	"github.com/rexlunae/employment-barage/internal/textclean"
)

const (
	arbeitnowURL          = "https://www.arbeitnow.com/api/job-board-api"
	arbeitnowDefaultLimit = 50
)

type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
}

type arbeitnowJob struct {
	Slug        string   `json:"slug"`
	CompanyName string   `json:"company_name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Remote      bool     `json:"remote"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags"`
	JobTypes    []string `json:"job_types"`
	Location    string   `json:"location"`
	CreatedAt   int64    `json:"created_at"`
}

// ArbeitnowAdapter fetches jobs from the Arbeitnow job board API. The API has
// no query parameters, so keyword and location filters run client-side.
type ArbeitnowAdapter struct {
	client *http.Client
}

// NewArbeitnowAdapter creates an Arbeitnow adapter using client for all requests.
func NewArbeitnowAdapter(client *http.Client) *ArbeitnowAdapter {
	return &ArbeitnowAdapter{client: client}
}

func (a *ArbeitnowAdapter) Name() string { return "Arbeitnow" }

// FetchJobs retrieves the current board page, filters it and truncates the
// result to q.Limit (50 when unset).
func (a *ArbeitnowAdapter) FetchJobs(ctx context.Context, q model.Query) ([]model.Job, error) {
	var resp arbeitnowResponse
	if err := getJSON(ctx, a.client, arbeitnowURL, "arbeitnow fetch", &resp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	limit := limitOr(q.Limit, arbeitnowDefaultLimit)
	f := filter.NewQueryFilter(q)
	jobs := make([]model.Job, 0, min(limit, len(resp.Data)))
	for _, aj := range resp.Data {
		if aj.URL == "" {
			continue
		}
		job := aj.toJob(now)
		if !f.Match(job) {
			continue
		}
		jobs = append(jobs, job)
		if len(jobs) == limit {
			break
		}
	}
	return jobs, nil
}

func (aj arbeitnowJob) toJob(now time.Time) model.Job {
	location := aj.Location
	switch {
	case aj.Remote && location == "":
		location = "Remote"
	case aj.Remote:
		location += " (Remote)"
	}

	requirements := make([]string, 0, len(aj.Tags)+len(aj.JobTypes))
	requirements = append(requirements, aj.Tags...)
	requirements = append(requirements, aj.JobTypes...)

	return model.Job{
		ID:           uuid.NewString(),
		Title:        aj.Title,
		Company:      aj.CompanyName,
		Location:     location,
		Description:  textclean.Clean(aj.Description),
		Requirements: requirements,
		Source:       model.SourceArbeitnow,
		SourceURL:    aj.URL,
		PostedAt:     unixOr(aj.CreatedAt, now),
		ScrapedAt:    now,
	}
}
