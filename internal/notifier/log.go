package notifier

import (
	"log/slog"

	"github.com/rexlunae/employment-barage/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes newly discovered jobs to the given logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each job with its source, company, title, location and URL.
// Returns nil (stdout logging does not fail).
func (n *LogNotifier) Notify(jobs []model.Job) error {
	for _, j := range jobs {
		args := []any{
			"source", j.Source.DisplayName(),
			"company", j.Company,
			"title", j.Title,
			"location", j.Location,
			"url", j.SourceURL,
		}
		if j.Salary != nil {
			args = append(args, "salary", j.Salary.String())
		}
		if !j.PostedAt.IsZero() {
			args = append(args, "posted_at", j.PostedAt)
		}
		n.logger.Info("new job", args...)
	}
	return nil
}
