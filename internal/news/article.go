package news

import (
	"strings"
	"time"
)

// Source identifies the publisher of an article.
type Source struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Article is the canonical article shape every provider is mapped to.
// Empty strings mean the provider did not supply the field.
type Article struct {
	Source      *Source `json:"source,omitempty"`
	Author      string  `json:"author,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	URL         string  `json:"url,omitempty"`
	ImageURL    string  `json:"urlToImage,omitempty"`
	PublishedAt string  `json:"publishedAt,omitempty"`
	Content     string  `json:"content,omitempty"`
	Provider    string  `json:"provider,omitempty"`

	// Derived fields stay nil until Enrich runs.
	TranslatedTitle       *string `json:"translatedTitle,omitempty"`
	TranslatedDescription *string `json:"translatedDescription,omitempty"`
	LocalPublishedAt      *string `json:"vnPublishedAt,omitempty"`
}

// Enrichment holds the derived, display-ready values for one article.
type Enrichment struct {
	Title       string
	Description string
	PublishedAt string
}

// Enriched reports whether the derived fields have been set.
func (a *Article) Enriched() bool {
	return a.TranslatedTitle != nil || a.TranslatedDescription != nil || a.LocalPublishedAt != nil
}

// Enrich sets the derived fields once. Later calls are ignored and return false.
func (a *Article) Enrich(e Enrichment) bool {
	if a.Enriched() {
		return false
	}
	title, desc, published := e.Title, e.Description, e.PublishedAt
	a.TranslatedTitle = &title
	a.TranslatedDescription = &desc
	a.LocalPublishedAt = &published
	return true
}

// SourceName returns the publisher name or an empty string.
func (a *Article) SourceName() string {
	if a.Source == nil {
		return ""
	}
	return a.Source.Name
}

// SortMode is the ordering requested from providers.
type SortMode int

const (
	SortRelevance SortMode = iota
	SortPopularity
	SortRecency
)

// ParseSortMode accepts the UI values and the NewsAPI spellings.
// Unknown or empty input falls back to relevance.
func ParseSortMode(s string) SortMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "popularity":
		return SortPopularity
	case "recency", "publishedat", "published_at", "date":
		return SortRecency
	default:
		return SortRelevance
	}
}

func (m SortMode) String() string {
	switch m {
	case SortPopularity:
		return "popularity"
	case SortRecency:
		return "recency"
	default:
		return "relevance"
	}
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// SearchQuery is one provider-agnostic search request.
// PageSize is an upper bound; providers may return fewer results.
type SearchQuery struct {
	Text     string
	From     *time.Time
	Sort     SortMode
	PageSize int
}

// Limit returns the page size clamped to [1, MaxPageSize].
func (q SearchQuery) Limit() int {
	switch {
	case q.PageSize <= 0:
		return DefaultPageSize
	case q.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return q.PageSize
	}
}
