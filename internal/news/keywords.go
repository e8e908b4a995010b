package news

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultRegionKeywords mark an article or query as relevant to Vietnam.
var DefaultRegionKeywords = []string{
	"vietnam", "việt nam", "viet nam", "vietnamese", "việt", "viet",
	"hanoi", "hà nội", "ha noi", "ho chi minh", "hồ chí minh",
	"saigon", "sài gòn", "sai gon", "đà nẵng", "da nang", "hue", "huế",
}

// DefaultImportantKeywords are the phrases kept when a query is simplified.
var DefaultImportantKeywords = []string{
	"tin tức", "thời sự", "chính trị", "kinh tế", "tài chính", "thế giới",
	"quốc tế", "thể thao", "bóng đá", "giải trí", "âm nhạc", "điện ảnh",
}

// Fold lower-cases s and strips diacritics, so "Hà Nội" and "ha noi" compare equal.
func Fold(s string) string {
	s = strings.ToLower(s)
	// đ is a distinct letter, not d plus a combining mark
	s = strings.ReplaceAll(s, "đ", "d")

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Matcher tests text against a keyword set, ignoring case and diacritics.
// A keyword matches anywhere in the text, so "hue" fires inside "thuế".
type Matcher struct {
	keywords []string
}

// NewMatcher folds the keywords once. Blank keywords are dropped.
func NewMatcher(keywords []string) *Matcher {
	m := &Matcher{keywords: make([]string, 0, len(keywords))}
	for _, k := range keywords {
		if k = Fold(strings.TrimSpace(k)); k != "" {
			m.keywords = append(m.keywords, k)
		}
	}
	return m
}

// Match reports whether text contains any keyword.
func (m *Matcher) Match(text string) bool {
	if text == "" {
		return false
	}
	text = Fold(text)
	for _, k := range m.keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// MatchAny reports whether any of the texts contains a keyword.
func (m *Matcher) MatchAny(texts ...string) bool {
	for _, t := range texts {
		if m.Match(t) {
			return true
		}
	}
	return false
}
