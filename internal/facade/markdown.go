package facade

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/offroutechronicles/offroute-server/internal/backend"
)

// Long-text columns that must reach callers as markdown.
var markdownColumns = []string{"content", "description"}

var (
	htmlBlockStart = regexp.MustCompile(`^<(p|div|h[1-6]|ul|ol|blockquote|pre|table|section|article|figure)[\s>]`)
	markdownBlock  = regexp.MustCompile("^(#{1,6}\\s|[-*+]\\s|>\\s?|\\d+\\.\\s|```|~~~)")
)

// isHTMLDocument reports whether s is an HTML document rather than
// markdown that happens to carry inline tags. The value must open with a
// block element and no line may start with markdown block syntax.
func isHTMLDocument(s string) bool {
	trimmed := strings.TrimSpace(s)
	if !htmlBlockStart.MatchString(strings.ToLower(trimmed)) {
		return false
	}
	for _, line := range strings.Split(trimmed, "\n") {
		if markdownBlock.MatchString(strings.TrimSpace(line)) {
			return false
		}
	}
	return true
}

// toMarkdown converts an HTML document to markdown. Plain text and
// markdown, including markdown with inline HTML, pass through unchanged,
// as does anything the converter rejects.
func toMarkdown(s string) string {
	if s == "" || !isHTMLDocument(s) {
		return s
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(md)
}

// normalizeContent rewrites the markdown columns of a remote row in place.
func normalizeContent(rec backend.Record) {
	for _, col := range markdownColumns {
		if s, ok := rec[col].(string); ok {
			rec[col] = toMarkdown(s)
		}
	}
}
