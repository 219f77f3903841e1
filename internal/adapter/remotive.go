package adapter

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rexlunae/employment-barage/internal/extract"
	"github.com/rexlunae/employment-barage/internal/filter"
	"github.com/rexlunae/employment-barage/internal/model"
	"github.com/rexlunae/employment-barage/internal/textclean"
)

const remotiveURL = "https://remotive.com/api/remote-jobs"

type remotiveResponse struct {
	JobCount int           `json:"job-count"`
	Jobs     []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	ID                        int64    `json:"id"`
	URL                       string   `json:"url"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	Category                  string   `json:"category"`
	Tags                      []string `json:"tags"`
	JobType                   string   `json:"job_type"`
	PublicationDate           string   `json:"publication_date"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	Salary                    string   `json:"salary"`
	Description               string   `json:"description"`
}

// RemotiveAdapter fetches remote jobs from the Remotive public API.
type RemotiveAdapter struct {
	client *http.Client
}

// NewRemotiveAdapter creates a Remotive adapter using client for all requests.
func NewRemotiveAdapter(client *http.Client) *RemotiveAdapter {
	return &RemotiveAdapter{client: client}
}

func (a *RemotiveAdapter) Name() string { return "Remotive" }

// FetchJobs queries Remotive with its native search and limit parameters.
// Location is filtered client-side.
func (a *RemotiveAdapter) FetchJobs(ctx context.Context, q model.Query) ([]model.Job, error) {
	params := url.Values{}
	if q.Keywords != "" {
		params.Set("search", q.Keywords)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	u := remotiveURL
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var resp remotiveResponse
	if err := getJSON(ctx, a.client, u, "remotive fetch", &resp); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	f := filter.NewQueryFilter(model.Query{Location: q.Location})
	jobs := make([]model.Job, 0, len(resp.Jobs))
	for _, rj := range resp.Jobs {
		if rj.URL == "" {
			continue
		}
		job := rj.toJob(now)
		if f.Match(job) {
			jobs = append(jobs, job)
		}
	}
	return filter.Limit(jobs, q.Limit), nil
}

func (rj remotiveJob) toJob(now time.Time) model.Job {
	location := "Remote"
	if rj.CandidateRequiredLocation != "" {
		location = "Remote - " + rj.CandidateRequiredLocation
	}

	var salary *model.SalaryRange
	if rj.Salary != "" {
		salary = extract.Salary(rj.Salary)
	}

	return model.Job{
		ID:           uuid.NewString(),
		Title:        rj.Title,
		Company:      rj.CompanyName,
		Location:     location,
		Description:  textclean.Clean(rj.Description),
		Requirements: rj.Tags,
		Salary:       salary,
		Source:       model.SourceRemotive,
		SourceURL:    rj.URL,
		PostedAt:     parsePostedAt(rj.PublicationDate, now),
		ScrapedAt:    now,
	}
}
