package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/rexlunae/employment-barage/internal/model"
)

// ErrNotFound is returned when no job has the requested ID.
var ErrNotFound = errors.New("job not found")

const schema = `CREATE TABLE IF NOT EXISTS jobs (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	company         TEXT NOT NULL,
	location        TEXT NOT NULL,
	description     TEXT NOT NULL,
	requirements    TEXT NOT NULL DEFAULT '[]',
	salary_min      INTEGER,
	salary_max      INTEGER,
	salary_currency TEXT,
	salary_period   TEXT,
	source          TEXT NOT NULL,
	source_url      TEXT NOT NULL UNIQUE,
	is_remote       INTEGER NOT NULL DEFAULT 0,
	posted_at       INTEGER NOT NULL,
	scraped_at      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_posted_at ON jobs (posted_at DESC);`

const jobColumns = `id, title, company, location, description, requirements,
	salary_min, salary_max, salary_currency, salary_period,
	source, source_url, is_remote, posted_at, scraped_at`

// SQLiteStore persists jobs in a SQLite database, keyed by ID with a unique
// source URL.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// jobs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// Single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Create inserts job, assigning an ID when it has none.
func (s *SQLiteStore) Create(ctx context.Context, job model.Job) (model.Job, error) {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if err := insertJob(ctx, s.db, job); err != nil {
		return model.Job{}, fmt.Errorf("creating job %s: %w", job.SourceURL, err)
	}
	return job, nil
}

// Get returns the job with the given ID, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, id string) (model.Job, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", id)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Job{}, fmt.Errorf("getting job %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Job{}, fmt.Errorf("getting job %s: %w", id, err)
	}
	return job, nil
}

// Update overwrites every field of the job with job.ID.
func (s *SQLiteStore) Update(ctx context.Context, job model.Job) error {
	res, err := updateJob(ctx, s.db, "id = ?", job.ID, job)
	if err != nil {
		return fmt.Errorf("updating job %s: %w", job.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("updating job %s: %w", job.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the job with the given ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting job %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting job %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpsertBySourceURL inserts job when its source URL is unseen; otherwise it
// updates the stored record and keeps the stored ID.
func (s *SQLiteStore) UpsertBySourceURL(ctx context.Context, job model.Job) (model.Job, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Job{}, false, fmt.Errorf("upserting job %s: %w", job.SourceURL, err)
	}
	defer tx.Rollback()

	var existingID string
	err = tx.QueryRowContext(ctx, "SELECT id FROM jobs WHERE source_url = ?", job.SourceURL).Scan(&existingID)
	created := errors.Is(err, sql.ErrNoRows)
	switch {
	case created:
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		err = insertJob(ctx, tx, job)
	case err == nil:
		job.ID = existingID
		_, err = updateJob(ctx, tx, "source_url = ?", job.SourceURL, job)
	}
	if err != nil {
		return model.Job{}, false, fmt.Errorf("upserting job %s: %w", job.SourceURL, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Job{}, false, fmt.Errorf("upserting job %s: %w", job.SourceURL, err)
	}
	return job, created, nil
}

// Search returns stored jobs matching q, newest first.
func (s *SQLiteStore) Search(ctx context.Context, q model.SearchQuery) ([]model.Job, error) {
	var (
		where []string
		args  []any
	)
	if q.Keywords != "" {
		pattern := "%" + q.Keywords + "%"
		where = append(where, "(title LIKE ? OR description LIKE ? OR company LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if q.Location != "" {
		where = append(where, "location LIKE ?")
		args = append(args, "%"+q.Location+"%")
	}
	if q.MinSalary > 0 {
		where = append(where, "salary_min >= ?")
		args = append(args, q.MinSalary)
	}
	if q.RemoteOnly {
		where = append(where, "is_remote = 1")
	}
	if len(q.Sources) > 0 {
		placeholders := make([]string, len(q.Sources))
		for i, src := range q.Sources {
			placeholders[i] = "?"
			args = append(args, string(src))
		}
		where = append(where, "source IN ("+strings.Join(placeholders, ", ")+")")
	}

	query := "SELECT " + jobColumns + " FROM jobs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY posted_at DESC, id"
	if q.Limit > 0 || q.Offset > 0 {
		limit := q.Limit
		if limit <= 0 {
			limit = -1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, max(q.Offset, 0))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("searching jobs: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching jobs: %w", err)
	}
	return jobs, nil
}

// Cleanup deletes jobs that have not been scraped within olderThan and
// returns how many were removed.
func (s *SQLiteStore) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UnixNano()
	res, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE scraped_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up jobs older than %v: %w", olderThan, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// IsEmpty returns true if no jobs are stored yet.
func (s *SQLiteStore) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		return false, fmt.Errorf("checking if store is empty: %w", err)
	}
	return count == 0, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertJob(ctx context.Context, db execer, job model.Job) error {
	values, err := jobValues(job)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO jobs ("+jobColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		append([]any{job.ID}, values...)...)
	return err
}

func updateJob(ctx context.Context, db execer, cond, key string, job model.Job) (sql.Result, error) {
	values, err := jobValues(job)
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, `UPDATE jobs SET
		title = ?, company = ?, location = ?, description = ?, requirements = ?,
		salary_min = ?, salary_max = ?, salary_currency = ?, salary_period = ?,
		source = ?, source_url = ?, is_remote = ?, posted_at = ?, scraped_at = ?
		WHERE `+cond, append(values, key)...)
}

// jobValues returns every column after id, in jobColumns order.
func jobValues(job model.Job) ([]any, error) {
	reqs := job.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	reqJSON, err := json.Marshal(reqs)
	if err != nil {
		return nil, fmt.Errorf("encoding requirements: %w", err)
	}

	var minSal, maxSal, currency, period any
	if job.Salary != nil {
		minSal, maxSal = job.Salary.Min, job.Salary.Max
		currency, period = job.Salary.Currency, string(job.Salary.Period)
	}

	remote := 0
	if job.IsRemote() {
		remote = 1
	}

	return []any{
		job.Title, job.Company, job.Location, job.Description, string(reqJSON),
		minSal, maxSal, currency, period,
		string(job.Source), job.SourceURL, remote,
		unixNano(job.PostedAt), unixNano(job.ScrapedAt),
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(sc scanner) (model.Job, error) {
	var (
		job               model.Job
		reqJSON           string
		minSal, maxSal    sql.NullInt64
		currency, period  sql.NullString
		source            string
		isRemote          bool
		postedAt, scraped int64
	)
	err := sc.Scan(&job.ID, &job.Title, &job.Company, &job.Location, &job.Description, &reqJSON,
		&minSal, &maxSal, &currency, &period,
		&source, &job.SourceURL, &isRemote, &postedAt, &scraped)
	if err != nil {
		return model.Job{}, err
	}

	if err := json.Unmarshal([]byte(reqJSON), &job.Requirements); err != nil {
		return model.Job{}, fmt.Errorf("decoding requirements of job %s: %w", job.ID, err)
	}
	if minSal.Valid && maxSal.Valid {
		job.Salary = &model.SalaryRange{
			Min:      int(minSal.Int64),
			Max:      int(maxSal.Int64),
			Currency: currency.String,
			Period:   model.SalaryPeriod(period.String),
		}
	}
	job.Source = model.JobSource(source)
	job.PostedAt = fromUnixNano(postedAt)
	job.ScrapedAt = fromUnixNano(scraped)
	return job, nil
}

// Times are stored as unix nanoseconds; 0 stands for the zero time.
func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
