package model

import (
	"fmt"
	"time"
)

// HTTPError is returned by sources when an upstream answers with a non-200
// status, so decorators can decide whether the failure is transient.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying the request may succeed (429 or 5xx).
func (e *HTTPError) Transient() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
