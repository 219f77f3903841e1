package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rexlunae/employment-barage/internal/extract"
	"github.com/rexlunae/employment-barage/internal/filter"
	"github.com/rexlunae/employment-barage/internal/model"
	"github.com/rexlunae/employment-barage/internal/textclean"
)

const (
	hnAPIBase          = "https://hacker-news.firebaseio.com/v0"
	hnItemURL          = "https://news.ycombinator.com/item?id="
	hnSubmitter        = "whoishiring"
	hnThreadTitle      = "Who is hiring?"
	hnRootScan         = 10
	hnBatchSize        = 10
	hnDefaultLimit     = 100
	hnCandidatesFactor = 2
)

var errNoThreads = errors.New("no threads found")

type hnUser struct {
	ID        string  `json:"id"`
	Submitted []int64 `json:"submitted"`
}

type hnItem struct {
	ID      int64   `json:"id"`
	By      string  `json:"by"`
	Text    string  `json:"text"`
	Title   string  `json:"title"`
	Time    int64   `json:"time"`
	Type    string  `json:"type"`
	Kids    []int64 `json:"kids"`
	Deleted bool    `json:"deleted"`
	Dead    bool    `json:"dead"`
}

// HNHiringAdapter reads postings from the latest "Ask HN: Who is hiring?"
// thread. Each top-level comment is one posting.
type HNHiringAdapter struct {
	client *http.Client
}

// NewHNHiringAdapter creates an adapter using client for all requests.
func NewHNHiringAdapter(client *http.Client) *HNHiringAdapter {
	return &HNHiringAdapter{client: client}
}

func (a *HNHiringAdapter) Name() string { return "HN Who's Hiring" }

// FetchJobs resolves the current hiring thread, then fetches up to 2×limit
// comments in concurrent batches of 10 until limit postings match q.
// Failed, deleted and dead comments are skipped.
func (a *HNHiringAdapter) FetchJobs(ctx context.Context, q model.Query) ([]model.Job, error) {
	rootID, err := a.resolveRoot(ctx)
	if err != nil {
		return nil, err
	}

	root, err := a.item(ctx, rootID)
	if err != nil {
		return nil, err
	}

	limit := limitOr(q.Limit, hnDefaultLimit)
	kids := root.Kids
	if len(kids) > hnCandidatesFactor*limit {
		kids = kids[:hnCandidatesFactor*limit]
	}

	f := filter.NewQueryFilter(q)
	jobs := make([]model.Job, 0, min(limit, len(kids)))
	for start := 0; start < len(kids) && len(jobs) < limit; start += hnBatchSize {
		batch := kids[start:min(start+hnBatchSize, len(kids))]
		items := a.fetchBatch(ctx, batch)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		for _, it := range items {
			if it == nil || it.Deleted || it.Dead || it.Text == "" {
				continue
			}
			job := it.toJob(now)
			if !f.Match(job) {
				continue
			}
			jobs = append(jobs, job)
			if len(jobs) == limit {
				break
			}
		}
	}
	return jobs, nil
}

// resolveRoot returns the newest hiring thread among the submitter's latest
// submissions, or the first submission when none has a matching title.
func (a *HNHiringAdapter) resolveRoot(ctx context.Context) (int64, error) {
	var user hnUser
	u := fmt.Sprintf("%s/user/%s.json", hnAPIBase, hnSubmitter)
	if err := getJSON(ctx, a.client, u, "hn fetch user", &user); err != nil {
		return 0, err
	}
	if len(user.Submitted) == 0 {
		return 0, fmt.Errorf("hn fetch user %s: %w", hnSubmitter, errNoThreads)
	}

	for _, id := range user.Submitted[:min(hnRootScan, len(user.Submitted))] {
		it, err := a.item(ctx, id)
		if err != nil {
			continue
		}
		if strings.Contains(it.Title, hnThreadTitle) {
			return id, nil
		}
	}
	return user.Submitted[0], nil
}

func (a *HNHiringAdapter) item(ctx context.Context, id int64) (*hnItem, error) {
	var it hnItem
	u := fmt.Sprintf("%s/item/%d.json", hnAPIBase, id)
	if err := getJSON(ctx, a.client, u, fmt.Sprintf("hn fetch item %d", id), &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// fetchBatch fetches ids concurrently and returns the items in id order.
// A failed fetch leaves a nil entry.
func (a *HNHiringAdapter) fetchBatch(ctx context.Context, ids []int64) []*hnItem {
	items := make([]*hnItem, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			it, err := a.item(ctx, id)
			if err == nil {
				items[i] = it
			}
			return nil
		})
	}
	_ = g.Wait()
	return items
}

func (it hnItem) toJob(now time.Time) model.Job {
	text := textclean.Clean(it.Text)
	firstLine, _, _ := strings.Cut(text, "\n")
	h := extract.ParseHeader(firstLine)

	return model.Job{
		ID:           uuid.NewString(),
		Title:        h.Title,
		Company:      h.Company,
		Location:     h.Location,
		Description:  text,
		Requirements: extract.Technologies(text),
		Source:       model.SourceHNWhoIsHiring,
		SourceURL:    fmt.Sprintf("%s%d", hnItemURL, it.ID),
		PostedAt:     unixOr(it.Time, now),
		ScrapedAt:    now,
	}
}
