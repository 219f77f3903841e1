package adapter

import (
	"time"
)

var postedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parsePostedAt parses an upstream publication date, trying zone-less layouts
// as UTC. Falls back to fallback when value is empty or unparseable.
func parsePostedAt(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	for _, layout := range postedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

// unixOr converts unix seconds to a time, or returns fallback for zero.
func unixOr(sec int64, fallback time.Time) time.Time {
	if sec <= 0 {
		return fallback
	}
	return time.Unix(sec, 0).UTC()
}

func limitOr(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}
