package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rexlunae/employment-barage/internal/model"
)

// NopStore is a no-op store used in dry-run mode. It keeps nothing, so every
// job is reported as newly created on each run.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) UpsertBySourceURL(_ context.Context, job model.Job) (model.Job, bool, error) {
	return job, true, nil
}

func (s *NopStore) Search(context.Context, model.SearchQuery) ([]model.Job, error) { return nil, nil }

func (s *NopStore) Get(_ context.Context, id string) (model.Job, error) {
	return model.Job{}, fmt.Errorf("getting job %s: %w", id, ErrNotFound)
}

func (s *NopStore) Cleanup(context.Context, time.Duration) (int64, error) { return 0, nil }
func (s *NopStore) IsEmpty(context.Context) (bool, error)                 { return false, nil }
