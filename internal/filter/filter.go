package filter

import (
	"strings"

	"github.com/rexlunae/employment-barage/internal/model"
)

// QueryFilter applies a query's keyword and location criteria to jobs, for
// sources whose upstream API cannot filter by itself.
// Matching is case-insensitive. Empty criteria are treated as "match all".
type QueryFilter struct {
	keywords string
	location string
}

// NewQueryFilter returns a filter for the keywords and location of q.
func NewQueryFilter(q model.Query) *QueryFilter {
	return &QueryFilter{
		keywords: strings.ToLower(strings.TrimSpace(q.Keywords)),
		location: strings.ToLower(strings.TrimSpace(q.Location)),
	}
}

// Match returns true if the keywords appear in the job's title, description,
// company or any requirement, and the location appears in the job's location.
// The location "remote" also matches any remote job.
func (f *QueryFilter) Match(job model.Job) bool {
	if f.keywords != "" && !f.matchKeywords(job) {
		return false
	}
	if f.location != "" && !f.matchLocation(job) {
		return false
	}
	return true
}

func (f *QueryFilter) matchKeywords(job model.Job) bool {
	if strings.Contains(strings.ToLower(job.Title), f.keywords) ||
		strings.Contains(strings.ToLower(job.Description), f.keywords) ||
		strings.Contains(strings.ToLower(job.Company), f.keywords) {
		return true
	}
	for _, req := range job.Requirements {
		if strings.Contains(strings.ToLower(req), f.keywords) {
			return true
		}
	}
	return false
}

func (f *QueryFilter) matchLocation(job model.Job) bool {
	if strings.Contains(strings.ToLower(job.Location), f.location) {
		return true
	}
	return f.location == "remote" && job.IsRemote()
}

// Limit truncates jobs to at most n entries. n <= 0 returns jobs unchanged.
func Limit(jobs []model.Job, n int) []model.Job {
	if n <= 0 || len(jobs) <= n {
		return jobs
	}
	return jobs[:n]
}
