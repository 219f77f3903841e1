package model

import (
	"context"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Normalized representation of a job posting from any upstream source.
type Job struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Company      string       `json:"company"`
	Location     string       `json:"location"`     // free text, may carry a "(Remote)" qualifier
	Description  string       `json:"description"`  // cleaned plain text
	Requirements []string     `json:"requirements"` // tags or inferred technologies, depending on source
	Salary       *SalaryRange `json:"salary,omitempty"`
	Source       JobSource    `json:"source"`
	SourceURL    string       `json:"source_url"` // natural key for upserts
	PostedAt     time.Time    `json:"posted_at"`  // falls back to ScrapedAt when upstream has no date
	ScrapedAt    time.Time    `json:"scraped_at"`
}

// IsRemote reports whether the location mentions remote work.
func (j Job) IsRemote() bool {
	return strings.Contains(strings.ToLower(j.Location), "remote")
}

// SalaryPeriod is the unit a salary figure is quoted in.
type SalaryPeriod string

const (
	SalaryHourly SalaryPeriod = "Hourly"
	SalaryAnnual SalaryPeriod = "Annual"
)

// SalaryRange is a parsed salary. Min <= Max; a single figure has Min == Max.
type SalaryRange struct {
	Min      int          `json:"min"`
	Max      int          `json:"max"`
	Currency string       `json:"currency"`
	Period   SalaryPeriod `json:"period"`
}

// String renders the range as e.g. "50,000-80,000 USD/year".
func (r SalaryRange) String() string {
	amount := humanize.Comma(int64(r.Min))
	if r.Max != r.Min {
		amount += "-" + humanize.Comma(int64(r.Max))
	}
	unit := "year"
	if r.Period == SalaryHourly {
		unit = "hour"
	}
	return amount + " " + r.Currency + "/" + unit
}

// JobSource names where a job came from. Values outside the constants below
// are free-text names of unrecognized sources.
type JobSource string

const (
	SourceLinkedIn      JobSource = "LinkedIn"
	SourceIndeed        JobSource = "Indeed"
	SourceGlassdoor     JobSource = "Glassdoor"
	SourceAngelList     JobSource = "AngelList"
	SourceRemotive      JobSource = "Remotive"
	SourceHNWhoIsHiring JobSource = "HNWhoIsHiring"
	SourceArbeitnow     JobSource = "Arbeitnow"
)

// DisplayName returns the human readable label for the source.
func (s JobSource) DisplayName() string {
	switch s {
	case SourceHNWhoIsHiring:
		return "HN Who's Hiring"
	case "":
		return "Unknown"
	default:
		return string(s)
	}
}

// Query carries the filter parameters shared by every source in one fetch.
// Empty strings mean "no filter"; Limit <= 0 lets the source pick its default.
type Query struct {
	Keywords string
	Location string
	Limit    int
}

// Source fetches and normalizes job postings from one upstream API.
type Source interface {
	Name() string
	FetchJobs(ctx context.Context, q Query) ([]Job, error)
}

// SearchQuery filters persisted jobs.
type SearchQuery struct {
	Keywords   string
	Location   string
	MinSalary  int
	Sources    []JobSource
	RemoteOnly bool
	Limit      int
	Offset     int
}

// JobStore persists jobs keyed by SourceURL.
type JobStore interface {
	// UpsertBySourceURL inserts the job when its SourceURL is unseen, otherwise
	// updates the stored record in place and keeps its ID. created reports which.
	UpsertBySourceURL(ctx context.Context, job Job) (stored Job, created bool, err error)
	Search(ctx context.Context, q SearchQuery) ([]Job, error)
	Get(ctx context.Context, id string) (Job, error)
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Notifier reports newly discovered jobs.
type Notifier interface {
	Notify(jobs []Job) error
}
