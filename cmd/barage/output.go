package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/muesli/termenv"

	"github.com/rexlunae/employment-barage/internal/model"
)

const maxCellWidth = 48

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// colorEnabled reports whether w is a terminal that can render colour.
func colorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return termenv.NewOutput(w).ColorProfile() != termenv.Ascii
}

// writeJobs prints jobs as indented JSON, a styled table on colour
// terminals, or a plain tab-aligned table otherwise.
func writeJobs(w io.Writer, jobs []model.Job, asJSON, color bool) error {
	if asJSON {
		if jobs == nil {
			jobs = []model.Job{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jobs)
	}
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "No jobs found.")
		return err
	}

	header := []string{"Source", "Title", "Company", "Location", "Salary", "Posted", "URL"}
	rows := make([][]string, len(jobs))
	for i, j := range jobs {
		rows[i] = jobRow(j)
	}

	if color {
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(tableBorderStyle).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return tableHeaderStyle
				}
				return tableCellStyle
			}).
			Headers(header...).
			Rows(rows...)
		_, err := fmt.Fprintln(w, t.Render())
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

func jobRow(j model.Job) []string {
	salary := "-"
	if j.Salary != nil {
		salary = j.Salary.String()
	}
	posted := "-"
	if !j.PostedAt.IsZero() {
		posted = j.PostedAt.Format("2006-01-02")
	}
	return []string{
		j.Source.DisplayName(),
		truncate(j.Title, maxCellWidth),
		truncate(j.Company, maxCellWidth),
		truncate(j.Location, maxCellWidth),
		salary,
		posted,
		j.SourceURL,
	}
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
