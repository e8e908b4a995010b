package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/deusflow/vnnews/internal/news"
	"github.com/deusflow/vnnews/internal/sanitize"
)

// NewsAPIClient queries the NewsAPI /v2/everything endpoint.
type NewsAPIClient struct {
	cfg HTTPConfig
}

func NewNewsAPIClient(cfg HTTPConfig) *NewsAPIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://newsapi.org"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &NewsAPIClient{cfg: cfg}
}

func (c *NewsAPIClient) Name() string {
	return "newsapi"
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source *struct {
		ID   *string `json:"id"`
		Name *string `json:"name"`
	} `json:"source"`
	Author      *string `json:"author"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt *string `json:"publishedAt"`
	Content     *string `json:"content"`
}

// removedTitle marks articles NewsAPI has taken down but still lists.
const removedTitle = "[Removed]"

func (c *NewsAPIClient) Fetch(ctx context.Context, q news.SearchQuery) ([]news.Article, error) {
	var resp newsAPIResponse
	if err := getJSON(ctx, c.cfg, c.Name(), c.requestURL(q), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "ok" {
		return nil, malformedErr(c.Name(), http.StatusOK, fmt.Errorf("status %q: %s %s", resp.Status, resp.Code, resp.Message))
	}

	articles := make([]news.Article, 0, len(resp.Articles))
	for _, item := range resp.Articles {
		if deref(item.Title) == removedTitle {
			continue
		}
		a := news.Article{
			Author:      deref(item.Author),
			Title:       strings.TrimSpace(deref(item.Title)),
			Description: sanitize.Text(deref(item.Description)),
			URL:         deref(item.URL),
			ImageURL:    deref(item.URLToImage),
			PublishedAt: deref(item.PublishedAt),
			Content:     sanitize.Content(deref(item.Content)),
			Provider:    c.Name(),
		}
		if item.Source != nil && (item.Source.ID != nil || item.Source.Name != nil) {
			a.Source = &news.Source{ID: deref(item.Source.ID), Name: deref(item.Source.Name)}
		}
		articles = append(articles, a)
	}
	if len(articles) == 0 {
		return nil, emptyErr(c.Name())
	}
	return articles, nil
}

func (c *NewsAPIClient) requestURL(q news.SearchQuery) string {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("apiKey", c.cfg.APIKey)
	params.Set("pageSize", strconv.Itoa(q.Limit()))
	params.Set("language", "vi")
	if q.From != nil {
		params.Set("from", q.From.Format("2006-01-02"))
	}
	params.Set("sortBy", newsAPISort(q.Sort))
	return c.cfg.BaseURL + "/v2/everything?" + params.Encode()
}

func newsAPISort(m news.SortMode) string {
	switch m {
	case news.SortPopularity:
		return "popularity"
	case news.SortRecency:
		return "publishedAt"
	default:
		return "relevancy"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
