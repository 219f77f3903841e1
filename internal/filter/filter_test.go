package filter

import (
	"testing"

	"github.com/rexlunae/employment-barage/internal/model"
)

func job(title, company, location string, reqs ...string) model.Job {
	return model.Job{Title: title, Company: company, Location: location, Requirements: reqs}
}

func TestQueryFilter_Match(t *testing.T) {
	tests := []struct {
		name      string
		query     model.Query
		job       model.Job
		wantMatch bool
	}{
		{
			name:      "keyword in title",
			query:     model.Query{Keywords: "backend"},
			job:       job("Senior Backend Engineer", "Acme", "Berlin"),
			wantMatch: true,
		},
		{
			name:      "keyword in company",
			query:     model.Query{Keywords: "acme"},
			job:       job("Engineer", "ACME GmbH", "Berlin"),
			wantMatch: true,
		},
		{
			name:      "keyword in description",
			query:     model.Query{Keywords: "kafka"},
			job:       model.Job{Title: "Engineer", Description: "We run Kafka at scale"},
			wantMatch: true,
		},
		{
			name:      "keyword in requirement",
			query:     model.Query{Keywords: "golang"},
			job:       job("Engineer", "Acme", "Berlin", "Golang", "SQL"),
			wantMatch: true,
		},
		{
			name:      "keyword miss",
			query:     model.Query{Keywords: "devops"},
			job:       job("Frontend Engineer", "Acme", "New York, NY", "React"),
			wantMatch: false,
		},
		{
			name:      "location substring",
			query:     model.Query{Location: "berlin"},
			job:       job("Engineer", "Acme", "Berlin, Germany"),
			wantMatch: true,
		},
		{
			name:      "remote token matches remote job",
			query:     model.Query{Location: "Remote"},
			job:       job("Engineer", "Acme", "Berlin (Remote)"),
			wantMatch: true,
		},
		{
			name:      "location miss",
			query:     model.Query{Location: "remote"},
			job:       job("Engineer", "Acme", "London, UK"),
			wantMatch: false,
		},
		{
			name:      "both criteria required",
			query:     model.Query{Keywords: "engineer", Location: "paris"},
			job:       job("Engineer", "Acme", "London, UK"),
			wantMatch: false,
		},
		{
			name:      "empty query passes all",
			query:     model.Query{},
			job:       job("Any Role", "Any", "Anywhere"),
			wantMatch: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewQueryFilter(tt.query)
			got := f.Match(tt.job)
			if got != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestLimit(t *testing.T) {
	jobs := []model.Job{{Title: "a"}, {Title: "b"}, {Title: "c"}}

	if got := Limit(jobs, 2); len(got) != 2 || got[1].Title != "b" {
		t.Errorf("Limit(2) = %v", got)
	}
	if got := Limit(jobs, 5); len(got) != 3 {
		t.Errorf("Limit(5) returned %d jobs, want 3", len(got))
	}
	if got := Limit(jobs, 0); len(got) != 3 {
		t.Errorf("Limit(0) returned %d jobs, want 3", len(got))
	}
}
