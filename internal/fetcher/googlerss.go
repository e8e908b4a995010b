package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/vnnews/internal/news"
	"github.com/deusflow/vnnews/internal/sanitize"
)

// GoogleNewsRSSClient searches the public Google News RSS feed. It needs no
// API key and has no sort control; items come in feed order.
type GoogleNewsRSSClient struct {
	cfg HTTPConfig
}

func NewGoogleNewsRSSClient(cfg HTTPConfig) *GoogleNewsRSSClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://news.google.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &GoogleNewsRSSClient{cfg: cfg}
}

func (c *GoogleNewsRSSClient) Name() string {
	return "googlerss"
}

func (c *GoogleNewsRSSClient) Fetch(ctx context.Context, q news.SearchQuery) ([]news.Article, error) {
	body, err := get(ctx, c.cfg, c.Name(), c.requestURL(q), nil)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, malformedErr(c.Name(), http.StatusOK, fmt.Errorf("parse feed: %w", err))
	}

	limit := q.Limit()
	articles := make([]news.Article, 0, min(len(feed.Items), limit))
	for _, item := range feed.Items {
		if len(articles) == limit {
			break
		}
		articles = append(articles, c.toArticle(item))
	}
	if len(articles) == 0 {
		return nil, emptyErr(c.Name())
	}
	return articles, nil
}

func (c *GoogleNewsRSSClient) toArticle(item *gofeed.Item) news.Article {
	title, source := splitSourceSuffix(strings.TrimSpace(item.Title))

	a := news.Article{
		Title:       title,
		Description: sanitize.Text(item.Description),
		URL:         item.Link,
		Content:     sanitize.Content(item.Content),
		Provider:    c.Name(),
	}
	if source != "" {
		a.Source = &news.Source{Name: source}
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		a.Author = item.Authors[0].Name
	}
	if item.Image != nil {
		a.ImageURL = item.Image.URL
	}
	switch {
	case item.PublishedParsed != nil:
		a.PublishedAt = item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.UpdatedParsed != nil:
		a.PublishedAt = item.UpdatedParsed.UTC().Format(time.RFC3339)
	}
	return a
}

// splitSourceSuffix splits "Headline - Publisher" into its parts. Titles
// without the separator are returned whole.
func splitSourceSuffix(title string) (string, string) {
	i := strings.LastIndex(title, " - ")
	if i <= 0 {
		return title, ""
	}
	return strings.TrimSpace(title[:i]), strings.TrimSpace(title[i+3:])
}

func (c *GoogleNewsRSSClient) requestURL(q news.SearchQuery) string {
	text := q.Text
	if q.From != nil {
		text += " after:" + q.From.Format("2006-01-02")
	}

	params := url.Values{}
	params.Set("q", text)
	params.Set("hl", "vi")
	params.Set("gl", "VN")
	params.Set("ceid", "VN:vi")
	return c.cfg.BaseURL + "/rss/search?" + params.Encode()
}
