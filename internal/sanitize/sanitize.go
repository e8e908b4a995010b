// Package sanitize turns provider-supplied HTML snippets into plain text.
package sanitize

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// truncationMarker matches the "[+1234 chars]" suffix NewsAPI appends to content.
var truncationMarker = regexp.MustCompile(`\s*\[\+\d+ chars\]\s*$`)

// Text returns the visible text of an HTML fragment. Paragraphs are kept
// apart by a blank line; other whitespace is collapsed. Plain text passes
// through with whitespace collapsed.
func Text(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapse(fragment)
	}
	doc.Find("script, style, noscript").Remove()

	var paragraphs []string
	doc.Find("p").Each(func(i int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n\n")
	}

	return collapse(doc.Text())
}

// Content cleans article body text: HTML is stripped and the NewsAPI
// truncation marker removed.
func Content(s string) string {
	return truncationMarker.ReplaceAllString(Text(s), "")
}

// collapse folds runs of whitespace, non-breaking spaces included, into one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
