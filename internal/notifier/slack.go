package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rexlunae/employment-barage/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

const (
	slackMessageGap      = 500 * time.Millisecond
	slackMaxRequirements = 8
)

// SlackNotifier sends job alerts to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
	gap        time.Duration // pause between messages
}

// NewSlackNotifier returns a notifier that posts each job to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		logger:     logger,
		gap:        slackMessageGap,
	}
}

// Notify sends each job as a separate Slack message using Block Kit.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(jobs []model.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	failures := 0
	for i, j := range jobs {
		if i > 0 && s.gap > 0 {
			time.Sleep(s.gap)
		}

		if err := s.sendMessage(j); err != nil {
			s.logger.Error("slack notification failed", "company", j.Company, "title", j.Title, "error", err)
			failures++
		}
	}

	if failures == len(jobs) {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", len(jobs)-failures, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(j model.Job) error {
	body, err := json.Marshal(buildPayload(j))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	status, retryAfter, err := s.post(body)
	if err != nil {
		return err
	}

	retried := false
	if status == http.StatusTooManyRequests {
		s.logger.Warn("slack rate limited, retrying", "retry_after", retryAfter)
		time.Sleep(retryAfter)
		retried = true
		if status, _, err = s.post(body); err != nil {
			return fmt.Errorf("retry: %w", err)
		}
	}

	if status != http.StatusOK {
		return fmt.Errorf("slack returned %d", status)
	}
	s.logger.Debug("slack message sent", "company", j.Company, "title", j.Title, "retried", retried)
	return nil
}

// post sends one webhook request. On 429 it also returns the Retry-After
// delay, at least one second.
func (s *SlackNotifier) post(body []byte) (int, time.Duration, error) {
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	var retryAfter time.Duration
	if resp.StatusCode == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		retryAfter = time.Duration(max(secs, 1)) * time.Second
	}
	return resp.StatusCode, retryAfter, nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

// SendTestMessage sends a dummy job notification to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	now := time.Now().UTC()
	testJob := model.Job{
		ID:           "test-001",
		Company:      "Employment Barage",
		Title:        "Test Notification: Integration Verified",
		Location:     "Remote",
		Description:  "If you can read this, notifications are working.",
		Requirements: []string{"Go"},
		Salary:       &model.SalaryRange{Min: 1, Max: 1, Currency: "USD", Period: model.SalaryAnnual},
		Source:       model.JobSource("test"),
		SourceURL:    "https://news.ycombinator.com/jobs",
		PostedAt:     now,
		ScrapedAt:    now,
	}
	return n.Notify([]model.Job{testJob})
}

func buildPayload(j model.Job) slackPayload {
	posted := "Unknown"
	if !j.PostedAt.IsZero() {
		posted = j.PostedAt.UTC().Format(time.RFC1123)
	}

	salary := "Not listed"
	if j.Salary != nil {
		salary = j.Salary.String()
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: "💼 " + j.Company + ": " + j.Title},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Company:*\n" + j.Company},
				{Type: "mrkdwn", Text: "*Location:*\n" + j.Location},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Posted:*\n" + posted},
				{Type: "mrkdwn", Text: "*Source:*\n" + j.Source.DisplayName()},
				{Type: "mrkdwn", Text: "*Salary:*\n" + salary},
			},
		},
	}

	if len(j.Requirements) > 0 {
		reqs := j.Requirements
		if len(reqs) > slackMaxRequirements {
			reqs = reqs[:slackMaxRequirements]
		}
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Requirements:* " + strings.Join(reqs, ", ")},
		})
	}

	blocks = append(blocks,
		slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "View Posting"},
					URL:   j.SourceURL,
					Style: "primary",
				},
			},
		},
		slackBlock{Type: "divider"},
	)

	return slackPayload{Blocks: blocks}
}
