package news

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Field weights for relevance scoring.
const (
	titleWeight       = 3
	descriptionWeight = 2
	contentWeight     = 1
)

// Score sums, per keyword, 3 for a title hit, 2 for a description hit and
// 1 for a content hit. Keywords are expected lower-cased.
func Score(a Article, keywords []string) int {
	title := strings.ToLower(a.Title)
	description := strings.ToLower(a.Description)
	content := strings.ToLower(a.Content)

	score := 0
	for _, k := range keywords {
		if k == "" {
			continue
		}
		if strings.Contains(title, k) {
			score += titleWeight
		}
		if strings.Contains(description, k) {
			score += descriptionWeight
		}
		if strings.Contains(content, k) {
			score += contentWeight
		}
	}
	return score
}

// Rank returns a copy of articles ordered by descending Score.
// Articles with equal scores keep their input order. Nothing is dropped.
func Rank(articles []Article, keywords []string) []Article {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			lowered = append(lowered, k)
		}
	}

	type scored struct {
		article Article
		score   int
	}
	items := make([]scored, len(articles))
	for i, a := range articles {
		items[i] = scored{article: a, score: Score(a, lowered)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	out := make([]Article, len(items))
	for i, it := range items {
		out[i] = it.article
	}
	return out
}

// filterTerms splits term on whitespace and keeps lower-cased tokens longer than two runes.
func filterTerms(term string) []string {
	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(term)) {
		if utf8.RuneCountInString(tok) <= 2 {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Filter keeps articles whose title, description or content contains at least
// one token of term. A blank term, or one made only of short tokens, filters nothing.
func Filter(articles []Article, term string) []Article {
	tokens := filterTerms(term)
	if len(tokens) == 0 {
		return articles
	}

	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		haystacks := []string{
			strings.ToLower(a.Title),
			strings.ToLower(a.Description),
			strings.ToLower(a.Content),
		}
		if containsAnyToken(haystacks, tokens) {
			out = append(out, a)
		}
	}
	return out
}

func containsAnyToken(haystacks, tokens []string) bool {
	for _, tok := range tokens {
		for _, h := range haystacks {
			if strings.Contains(h, tok) {
				return true
			}
		}
	}
	return false
}
