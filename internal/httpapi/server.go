package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rexlunae/employment-barage/internal/ingest"
	"github.com/rexlunae/employment-barage/internal/model"
	"github.com/rexlunae/employment-barage/internal/store"
)

const maxBodyBytes = 1 << 16

// Refresher runs one ingest cycle on demand.
type Refresher interface {
	Run(ctx context.Context, q model.Query) (ingest.Summary, error)
}

// Server exposes stored jobs and on-demand refreshes over JSON.
type Server struct {
	store     model.JobStore
	refresher Refresher
	sources   []string
	defaults  model.Query
	logger    *slog.Logger
}

// NewServer creates the API. sources are the display names of the enabled
// sources; defaults fills refresh fields the caller leaves empty.
func NewServer(st model.JobStore, refresher Refresher, sources []string, defaults model.Query, logger *slog.Logger) *Server {
	return &Server{
		store:     st,
		refresher: refresher,
		sources:   sources,
		defaults:  defaults,
		logger:    logger,
	}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/sources", s.handleSources)
		r.Get("/jobs", s.handleSearchJobs)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Post("/refresh", s.handleRefresh)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/sources
func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	names := s.sources
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sources": names})
}

// GET /api/jobs
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobs, err := s.store.Search(r.Context(), q)
	if err != nil {
		s.logger.Error("search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(jobs), "jobs": jobs})
}

// GET /api/jobs/{id}
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "job not found")
		return
	}
	if err != nil {
		s.logger.Error("get job failed", "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, job)
}

type refreshRequest struct {
	Keywords       string `json:"keywords"`
	Location       string `json:"location"`
	LimitPerSource int    `json:"limit_per_source"`
}

// POST /api/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	q := s.defaults
	if req.Keywords != "" {
		q.Keywords = req.Keywords
	}
	if req.Location != "" {
		q.Location = req.Location
	}
	if req.LimitPerSource > 0 {
		q.Limit = req.LimitPerSource
	}

	sum, err := s.refresher.Run(r.Context(), q)
	if err != nil {
		s.logger.Error("refresh failed", "error", err)
		writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	if sum.FailedSources == nil {
		sum.FailedSources = []string{}
	}
	writeJSON(w, http.StatusOK, sum)
}

func parseSearchQuery(r *http.Request) (model.SearchQuery, error) {
	v := r.URL.Query()
	q := model.SearchQuery{
		Keywords: strings.TrimSpace(v.Get("keywords")),
		Location: strings.TrimSpace(v.Get("location")),
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"min_salary", &q.MinSalary},
		{"limit", &q.Limit},
		{"offset", &q.Offset},
	}
	for _, f := range ints {
		raw := v.Get(f.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return q, errors.New(f.key + " must be a non-negative integer")
		}
		*f.dst = n
	}

	if raw := v.Get("remote"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errors.New("remote must be a boolean")
		}
		q.RemoteOnly = b
	}

	for _, src := range v["source"] {
		if src = strings.TrimSpace(src); src != "" {
			q.Sources = append(q.Sources, model.JobSource(src))
		}
	}
	return q, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
