package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rexlunae/employment-barage/internal/model"
)

var (
	salaryNumberRegex = regexp.MustCompile(`\$?(\d+(?:,\d{3})*(?:\.\d+)?)\s*(k?)`)
	euroRegex         = regexp.MustCompile(`€|\beur\b`)
	poundRegex        = regexp.MustCompile(`£|\bgbp\b`)
)

// Salary parses a free-text salary such as "$50k-$80k" or "$30-$35/hour".
// The first two figures become min and max; a single figure yields min == max.
// Returns nil when the text has no figures.
func Salary(text string) *model.SalaryRange {
	lower := strings.ToLower(text)

	var figures []int
	for _, m := range salaryNumberRegex.FindAllStringSubmatch(lower, -1) {
		n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if m[2] == "k" {
			n *= 1000
		}
		figures = append(figures, int(n))
		if len(figures) == 2 {
			break
		}
	}

	if len(figures) == 0 {
		return nil
	}

	r := &model.SalaryRange{
		Min:      figures[0],
		Max:      figures[0],
		Currency: currency(lower),
		Period:   model.SalaryAnnual,
	}
	if len(figures) == 2 {
		r.Max = figures[1]
	}
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	if strings.Contains(lower, "/hour") || strings.Contains(lower, "per hour") || strings.Contains(lower, "/hr") {
		r.Period = model.SalaryHourly
	}
	return r
}

func currency(lower string) string {
	switch {
	case euroRegex.MatchString(lower):
		return "EUR"
	case poundRegex.MatchString(lower):
		return "GBP"
	default:
		return "USD"
	}
}
