package translate

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Entry maps a source term to its translation.
type Entry struct {
	Term        string
	Translation string
}

type dictEntry struct {
	term        []rune // lower-cased
	translation string
	anywhere    bool // CJK terms match without word boundaries
}

// Dictionary is the last-resort translator: a single left-to-right pass of
// case-insensitive whole-word replacements, longest term first. Text that
// matches no term is kept exactly as written.
type Dictionary struct {
	byFirst map[rune][]dictEntry
}

// NewDictionary builds a dictionary. Blank terms are ignored; for duplicate
// terms the first entry wins.
func NewDictionary(entries []Entry) *Dictionary {
	d := &Dictionary{byFirst: make(map[rune][]dictEntry)}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		term := strings.TrimSpace(e.Term)
		if term == "" {
			continue
		}
		lower := lowerRunes(term)
		key := string(lower)
		if seen[key] {
			continue
		}
		seen[key] = true
		d.byFirst[lower[0]] = append(d.byFirst[lower[0]], dictEntry{
			term:        lower,
			translation: e.Translation,
			anywhere:    isCJK(term),
		})
	}
	for _, list := range d.byFirst {
		sort.SliceStable(list, func(i, j int) bool {
			return len(list[i].term) > len(list[j].term)
		})
	}
	return d
}

func (d *Dictionary) Name() string {
	return "dictionary"
}

// Translate applies the dictionary. It never fails.
func (d *Dictionary) Translate(text string) string {
	if text == "" || len(d.byFirst) == 0 {
		return text
	}

	src := []rune(text)
	lower := make([]rune, len(src))
	for i, r := range src {
		lower[i] = unicode.ToLower(r)
	}

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(src); {
		if e, ok := d.matchAt(src, lower, i); ok {
			b.WriteString(e.translation)
			i += len(e.term)
			continue
		}
		b.WriteRune(src[i])
		i++
	}
	return b.String()
}

func (d *Dictionary) matchAt(src, lower []rune, i int) (dictEntry, bool) {
	atBoundary := i == 0 || !isWordRune(src[i-1])
	for _, e := range d.byFirst[lower[i]] {
		end := i + len(e.term)
		if end > len(lower) || !runesEqual(lower[i:end], e.term) {
			continue
		}
		if e.anywhere {
			return e, true
		}
		if atBoundary && (end == len(src) || !isWordRune(src[end])) {
			return e, true
		}
	}
	return dictEntry{}, false
}

func lowerRunes(s string) []rune {
	out := make([]rune, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, unicode.ToLower(r))
	}
	return out
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// isCJK reports whether s contains Han, kana or Hangul characters, which are
// written without spaces between words.
func isCJK(s string) bool {
	for _, r := range s {
		if unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) {
			return true
		}
	}
	return false
}
