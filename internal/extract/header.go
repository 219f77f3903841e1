package extract

import (
	"regexp"
	"strings"
)

const (
	unknown      = "Unknown"
	genericTitle = "Software Engineer"
)

var (
	hiringRegex = regexp.MustCompile(`(?i)^(.+?)\s+(?:is hiring|hiring|looking for|seeks?)\s+(.+)`)
	usRegex     = regexp.MustCompile(`\bUSA?\b`)
	euRegex     = regexp.MustCompile(`\b(?:EU|EUROPE)\b`)
)

var onsiteCities = []string{
	"San Francisco", "New York", "Seattle", "Austin", "Boston",
	"Chicago", "Los Angeles", "Denver", "Portland", "Miami",
	"London", "Berlin", "Amsterdam", "Paris", "Toronto",
}

// Header is what can be read off the first line of a hiring-thread comment.
type Header struct {
	Company  string
	Title    string
	Location string
}

// ParseHeader reads company, title and location from a posting's first line.
// It tries "Company | Title | Location...", then "<Company> is hiring <Role>",
// then falls back to the first five words as the company.
func ParseHeader(line string) Header {
	line = strings.TrimSpace(line)

	parts := strings.Split(line, "|")
	if len(parts) >= 2 {
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		h := Header{
			Company:  orDefault(parts[0], unknown),
			Title:    orDefault(parts[1], genericTitle),
			Location: unknown,
		}
		var rest []string
		for _, p := range parts[2:] {
			if p != "" {
				rest = append(rest, p)
			}
		}
		if len(rest) > 0 {
			h.Location = strings.Join(rest, " | ")
		}
		return h
	}

	if m := hiringRegex.FindStringSubmatch(line); m != nil {
		return Header{
			Company:  orDefault(strings.TrimSpace(m[1]), unknown),
			Title:    orDefault(strings.TrimSpace(m[2]), genericTitle),
			Location: Location(line),
		}
	}

	words := strings.Fields(line)
	if len(words) > 5 {
		words = words[:5]
	}
	return Header{
		Company:  orDefault(strings.Join(words, " "), unknown),
		Title:    genericTitle,
		Location: Location(line),
	}
}

// Location guesses a location from REMOTE/ONSITE markers and a short list of
// well known cities. Returns "Unknown" when nothing matches.
func Location(text string) string {
	upper := strings.ToUpper(text)

	if strings.Contains(upper, "REMOTE") {
		switch {
		case usRegex.MatchString(upper):
			return "Remote (US)"
		case euRegex.MatchString(upper):
			return "Remote (EU)"
		default:
			return "Remote"
		}
	}

	if strings.Contains(upper, "ONSITE") || strings.Contains(upper, "ON-SITE") {
		for _, city := range onsiteCities {
			if strings.Contains(text, city) {
				return city + " (Onsite)"
			}
		}
		return "Onsite"
	}

	return unknown
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
