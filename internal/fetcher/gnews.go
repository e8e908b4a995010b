package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deusflow/vnnews/internal/news"
	"github.com/deusflow/vnnews/internal/sanitize"
)

// gnewsMaxPageSize is the largest "max" GNews accepts.
const gnewsMaxPageSize = 100

// GNewsClient queries the GNews v4 search endpoint.
type GNewsClient struct {
	cfg HTTPConfig
}

func NewGNewsClient(cfg HTTPConfig) *GNewsClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://gnews.io"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &GNewsClient{cfg: cfg}
}

func (c *GNewsClient) Name() string {
	return "gnews"
}

type gnewsResponse struct {
	TotalArticles int            `json:"totalArticles"`
	Articles      []gnewsArticle `json:"articles"`
	Errors        []string       `json:"errors"`
}

type gnewsArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

func (c *GNewsClient) Fetch(ctx context.Context, q news.SearchQuery) ([]news.Article, error) {
	var resp gnewsResponse
	if err := getJSON(ctx, c.cfg, c.Name(), c.requestURL(q), nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Errors) > 0 {
		return nil, malformedErr(c.Name(), http.StatusOK, fmt.Errorf("provider errors: %s", strings.Join(resp.Errors, "; ")))
	}

	articles := make([]news.Article, 0, len(resp.Articles))
	for _, item := range resp.Articles {
		a := news.Article{
			Title:       strings.TrimSpace(item.Title),
			Description: sanitize.Text(item.Description),
			URL:         item.URL,
			ImageURL:    item.Image,
			PublishedAt: item.PublishedAt,
			Content:     sanitize.Content(item.Content),
			Provider:    c.Name(),
		}
		if item.Source.Name != "" {
			a.Source = &news.Source{Name: item.Source.Name}
		}
		articles = append(articles, a)
	}
	if len(articles) == 0 {
		return nil, emptyErr(c.Name())
	}
	return articles, nil
}

func (c *GNewsClient) requestURL(q news.SearchQuery) string {
	limit := q.Limit()
	if limit > gnewsMaxPageSize {
		limit = gnewsMaxPageSize
	}

	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("token", c.cfg.APIKey)
	params.Set("lang", "vi")
	params.Set("max", strconv.Itoa(limit))
	if q.From != nil {
		params.Set("from", q.From.UTC().Format(time.RFC3339))
	}
	switch q.Sort {
	case news.SortRecency:
		params.Set("sortby", "publishedAt")
	default:
		// GNews has no popularity ordering.
		params.Set("sortby", "relevance")
	}
	return c.cfg.BaseURL + "/api/v4/search?" + params.Encode()
}
