package news

import "strings"

// QueryBuilder augments raw queries with a region term and shortens
// queries that returned nothing.
type QueryBuilder struct {
	regionTerm string
	boost      bool
	region     *Matcher
	important  []string
	words      map[string]struct{}
}

// NewQueryBuilder creates a builder. When boost is false Build is the identity.
// Nil keyword lists fall back to DefaultRegionKeywords and DefaultImportantKeywords.
func NewQueryBuilder(regionTerm string, regionKeywords, importantKeywords []string, boost bool) *QueryBuilder {
	if regionKeywords == nil {
		regionKeywords = DefaultRegionKeywords
	}
	if importantKeywords == nil {
		importantKeywords = DefaultImportantKeywords
	}
	important := make([]string, 0, len(importantKeywords))
	words := make(map[string]struct{})
	for _, k := range importantKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			important = append(important, k)
			for _, w := range strings.Fields(k) {
				words[w] = struct{}{}
			}
		}
	}
	return &QueryBuilder{
		regionTerm: strings.TrimSpace(regionTerm),
		boost:      boost,
		region:     NewMatcher(regionKeywords),
		important:  important,
		words:      words,
	}
}

// Build prepends the region term when boosting is on and the query does not
// already mention the region.
func (b *QueryBuilder) Build(raw string) string {
	if !b.boost || b.regionTerm == "" || b.region.Match(raw) {
		return raw
	}
	if strings.TrimSpace(raw) == "" {
		return b.regionTerm
	}
	return b.regionTerm + " " + raw
}

// Simplify reduces a query to at most two tokens: the first two important
// ones, else the first two tokens. Queries of two tokens or fewer are
// returned unchanged.
func (b *QueryBuilder) Simplify(raw string) string {
	words := strings.Fields(raw)
	if len(words) <= 2 {
		return raw
	}

	picked := make([]string, 0, 2)
	for _, w := range words {
		if len(picked) == 2 {
			break
		}
		if b.isImportant(w) {
			picked = append(picked, w)
		}
	}
	if len(picked) == 0 {
		picked = words[:2]
	}
	return strings.Join(picked, " ")
}

// isImportant reports whether word is one of the words of an important phrase
// or contains a whole phrase.
func (b *QueryBuilder) isImportant(word string) bool {
	w := strings.ToLower(word)
	if _, ok := b.words[w]; ok {
		return true
	}
	for _, k := range b.important {
		if strings.Contains(w, k) {
			return true
		}
	}
	return false
}
