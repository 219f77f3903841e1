package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/rexlunae/employment-barage/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleJob(url string) model.Job {
	return model.Job{
		Title:        "Backend Engineer",
		Company:      "Acme",
		Location:     "Berlin (Remote)",
		Description:  "Build APIs in Go",
		Requirements: []string{"Go", "PostgreSQL"},
		Salary:       &model.SalaryRange{Min: 60000, Max: 80000, Currency: "EUR", Period: model.SalaryAnnual},
		Source:       model.SourceArbeitnow,
		SourceURL:    url,
		PostedAt:     baseTime,
		ScrapedAt:    baseTime.Add(time.Hour),
	}
}

func TestCreateThenGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, sampleJob("https://example.com/1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected Create to assign an ID")
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, created) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, created)
	}
}

func TestGetUnknownReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateWithoutSalaryOrRequirements(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := sampleJob("https://example.com/bare")
	job.Salary = nil
	job.Requirements = nil

	created, err := s.Create(ctx, job)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Salary != nil {
		t.Errorf("expected nil salary, got %+v", got.Salary)
	}
	if len(got.Requirements) != 0 {
		t.Errorf("expected no requirements, got %v", got.Requirements)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, sampleJob("https://example.com/1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	created.Title = "Staff Engineer"
	if err := s.Update(ctx, created); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Staff Engineer" {
		t.Errorf("expected updated title, got %q", got.Title)
	}

	if err := s.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting twice, got %v", err)
	}
	if err := s.Update(ctx, created); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound updating a deleted job, got %v", err)
	}
}

func TestUpsertBySourceURL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleJob("https://example.com/1")
	first.ID = "fresh-id-1"
	stored, created, err := s.UpsertBySourceURL(ctx, first)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Error("expected first upsert to create")
	}
	if stored.ID != "fresh-id-1" {
		t.Errorf("expected the job's own ID on insert, got %q", stored.ID)
	}

	second := sampleJob("https://example.com/1")
	second.ID = "fresh-id-2"
	second.Title = "Senior Backend Engineer"
	second.ScrapedAt = baseTime.Add(48 * time.Hour)
	stored, created, err = s.UpsertBySourceURL(ctx, second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Error("expected second upsert to update")
	}
	if stored.ID != "fresh-id-1" {
		t.Errorf("expected stored ID to be preserved, got %q", stored.ID)
	}

	got, err := s.Get(ctx, "fresh-id-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Senior Backend Engineer" || !got.ScrapedAt.Equal(second.ScrapedAt) {
		t.Errorf("expected mutable fields to be updated, got %+v", got)
	}
	if _, err := s.Get(ctx, "fresh-id-2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected no record under the second ID, got %v", err)
	}

	all, err := s.Search(ctx, model.SearchQuery{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 stored job, got %d", len(all))
	}
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	jobs := []model.Job{
		{Title: "Go Developer", Company: "Acme", Location: "Berlin (Remote)", Description: "microservices",
			Salary: &model.SalaryRange{Min: 70000, Max: 90000, Currency: "EUR", Period: model.SalaryAnnual},
			Source: model.SourceArbeitnow, SourceURL: "https://a/1", PostedAt: baseTime.Add(3 * time.Hour)},
		{Title: "Frontend Engineer", Company: "Beta", Location: "Remote - USA", Description: "React and TypeScript",
			Salary: &model.SalaryRange{Min: 120000, Max: 150000, Currency: "USD", Period: model.SalaryAnnual},
			Source: model.SourceRemotive, SourceURL: "https://r/2", PostedAt: baseTime.Add(2 * time.Hour)},
		{Title: "Data Engineer", Company: "Gamma", Location: "London (Onsite)", Description: "Spark pipelines in Go",
			Source: model.SourceHNWhoIsHiring, SourceURL: "https://hn/3", PostedAt: baseTime.Add(1 * time.Hour)},
	}
	for _, j := range jobs {
		if _, err := s.Create(ctx, j); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	cases := []struct {
		name  string
		query model.SearchQuery
		want  []string
	}{
		{"all newest first", model.SearchQuery{}, []string{"Go Developer", "Frontend Engineer", "Data Engineer"}},
		{"keywords in title or description", model.SearchQuery{Keywords: "go"}, []string{"Go Developer", "Data Engineer"}},
		{"keywords in company", model.SearchQuery{Keywords: "beta"}, []string{"Frontend Engineer"}},
		{"location", model.SearchQuery{Location: "london"}, []string{"Data Engineer"}},
		{"min salary", model.SearchQuery{MinSalary: 100000}, []string{"Frontend Engineer"}},
		{"remote only", model.SearchQuery{RemoteOnly: true}, []string{"Go Developer", "Frontend Engineer"}},
		{"sources", model.SearchQuery{Sources: []model.JobSource{model.SourceRemotive, model.SourceHNWhoIsHiring}}, []string{"Frontend Engineer", "Data Engineer"}},
		{"limit", model.SearchQuery{Limit: 2}, []string{"Go Developer", "Frontend Engineer"}},
		{"offset", model.SearchQuery{Offset: 1}, []string{"Frontend Engineer", "Data Engineer"}},
		{"limit and offset", model.SearchQuery{Limit: 1, Offset: 2}, []string{"Data Engineer"}},
		{"combined", model.SearchQuery{Keywords: "engineer", RemoteOnly: true}, []string{"Frontend Engineer"}},
		{"no match", model.SearchQuery{Keywords: "astronaut"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Search(ctx, tc.query)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			var titles []string
			for _, j := range got {
				titles = append(titles, j.Title)
			}
			if !reflect.DeepEqual(titles, tc.want) {
				t.Errorf("got %v, want %v", titles, tc.want)
			}
		})
	}
}

func TestCleanupRemovesOldKeepsFresh(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := sampleJob("https://example.com/old")
	old.ScrapedAt = time.Now().Add(-48 * time.Hour)
	fresh := sampleJob("https://example.com/fresh")
	fresh.ScrapedAt = time.Now()

	oldJob, err := s.Create(ctx, old)
	if err != nil {
		t.Fatalf("Create old: %v", err)
	}
	freshJob, err := s.Create(ctx, fresh)
	if err != nil {
		t.Fatalf("Create fresh: %v", err)
	}

	n, err := s.Cleanup(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 job removed, got %d", n)
	}
	if _, err := s.Get(ctx, oldJob.ID); !errors.Is(err, ErrNotFound) {
		t.Error("expected old job to be cleaned up")
	}
	if _, err := s.Get(ctx, freshJob.ID); err != nil {
		t.Errorf("expected fresh job to survive cleanup: %v", err)
	}
}

func TestIsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("IsEmpty: %v", err)
	}
	if !empty {
		t.Error("expected a new store to be empty")
	}

	if _, err := s.Create(ctx, sampleJob("https://example.com/1")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if empty, _ := s.IsEmpty(ctx); empty {
		t.Error("expected store with a job to be non-empty")
	}
}

func TestNopStore(t *testing.T) {
	var s model.JobStore = NewNopStore()
	ctx := context.Background()

	job := sampleJob("https://example.com/1")
	for range 2 {
		_, created, err := s.UpsertBySourceURL(ctx, job)
		if err != nil || !created {
			t.Fatalf("expected every upsert to report created, got %v %v", created, err)
		}
	}
	if _, err := s.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
