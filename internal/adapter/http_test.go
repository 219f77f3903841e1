package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rexlunae/employment-barage/internal/model"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// rewriteClient sends every request to srv regardless of the requested host.
func rewriteClient(srv *httptest.Server) *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			req.URL.Scheme = "http"
			req.URL.Host = srv.Listener.Addr().String()
			return http.DefaultTransport.RoundTrip(req)
		}),
	}
}

func TestGetJSON_SetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct{ OK bool }
	if err := getJSON(context.Background(), srv.Client(), srv.URL, "test fetch", &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.OK {
		t.Error("expected body to be decoded")
	}
	if gotUA != "employment-barage/1.0" {
		t.Errorf("expected user agent employment-barage/1.0, got %q", gotUA)
	}
}

func TestGetJSON_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	var out struct{}
	err := getJSON(context.Background(), srv.Client(), srv.URL, "test fetch", &out)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *model.HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", httpErr.StatusCode)
	}
	if httpErr.RetryAfter != 30*time.Second {
		t.Errorf("expected RetryAfter 30s, got %v", httpErr.RetryAfter)
	}
}

func TestGetJSON_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	var out struct{}
	err := getJSON(context.Background(), srv.Client(), srv.URL, "test fetch", &out)
	if err == nil {
		t.Fatal("expected decode error, got nil")
	}
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		t.Errorf("decode failure should not be an HTTPError: %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	cases := map[string]time.Duration{
		"":        0,
		"120":     120 * time.Second,
		"garbage": 0,
		"Wed, 21 Oct 2015 07:28:00 GMT": 0,
	}
	for in, want := range cases {
		if got := parseRetryAfter(in); got != want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParsePostedAt(t *testing.T) {
	fallback := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-02-10T09:00:00Z", time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)},
		{"2026-02-10T11:00:00+02:00", time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)},
		{"2026-02-10T09:00:00", time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)},
		{"2026-02-10", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)},
		{"", fallback},
		{"yesterday", fallback},
	}
	for _, tc := range cases {
		if got := parsePostedAt(tc.in, fallback); !got.Equal(tc.want) {
			t.Errorf("parsePostedAt(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
