// Package textclean turns the HTML fragments served by job boards into plain
// text suitable for display and keyword matching.
package textclean

import (
	"html"
	"regexp"
	"strings"
)

var (
	anchorRegex      = regexp.MustCompile(`(?is)<a\s[^>]*?href\s*=\s*"([^"]*)"[^>]*>(.*?)</a\s*>`)
	headingRegex     = regexp.MustCompile(`(?is)<h[1-6](?:\s[^>]*)?>(.*?)</h[1-6]\s*>`)
	lineBreakRegex   = regexp.MustCompile(`(?i)<br\s*/?>`)
	paragraphRegex   = regexp.MustCompile(`(?i)<p(?:\s[^>]*)?>|</p\s*>`)
	blockCloseRegex  = regexp.MustCompile(`(?i)</(?:div|li)\s*>`)
	listItemRegex    = regexp.MustCompile(`(?i)<li(?:\s[^>]*)?>`)
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	trailingSpaceRe  = regexp.MustCompile(`(?m)[ \t]+$`)
	excessBlankLines = regexp.MustCompile(`\n{3,}`)
)

// Clean converts an HTML or entity-encoded string to plain text. Block
// elements become line breaks, list items become "• " bullets, every other
// tag is dropped, and runs of blank lines collapse to a single blank line.
// Clean never fails and Clean(Clean(s)) == Clean(s).
func Clean(raw string) string {
	out := cleanPass(raw)
	// Each pass that changes the text shortens it or removes a '<', so the
	// loop reaches a fixpoint. Double-encoded entities settle here.
	for {
		next := cleanPass(out)
		if next == out {
			return out
		}
		out = next
	}
}

func cleanPass(s string) string {
	if s == "" {
		return ""
	}

	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")

	s = anchorRegex.ReplaceAllStringFunc(s, replaceAnchor)
	s = headingRegex.ReplaceAllString(s, "\n$1\n")
	s = lineBreakRegex.ReplaceAllString(s, "\n")
	s = paragraphRegex.ReplaceAllString(s, "\n\n")
	s = blockCloseRegex.ReplaceAllString(s, "\n")
	s = listItemRegex.ReplaceAllString(s, "• ")
	s = htmlTagRegex.ReplaceAllString(s, "")

	s = trailingSpaceRe.ReplaceAllString(s, "")
	s = excessBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// replaceAnchor renders a link as "text (href)", or just one of them when the
// other is empty or they are the same.
func replaceAnchor(match string) string {
	parts := anchorRegex.FindStringSubmatch(match)
	href := strings.TrimSpace(parts[1])
	text := strings.TrimSpace(htmlTagRegex.ReplaceAllString(parts[2], ""))
	switch {
	case text == "":
		return href
	case href == "" || text == href:
		return text
	default:
		return text + " (" + href + ")"
	}
}
