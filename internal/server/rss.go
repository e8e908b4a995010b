package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/deusflow/vnnews/internal/app"
	"github.com/deusflow/vnnews/internal/config"
	"github.com/deusflow/vnnews/internal/news"
	"github.com/deusflow/vnnews/internal/vntime"
)

const maxItemDescription = 500

// handleRSS serves the translated category list as RSS 2.0.
func (s *Server) handleRSS(w http.ResponseWriter, r *http.Request) {
	cat, ok := s.category(r)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown category")
		return
	}

	vm := s.svc.GetCategoryArticles(r.Context(), "", cat.ID, cat.Label)
	rss, err := GenerateRSSFeed(vm, cat, s.baseURL, time.Now())
	if err != nil {
		s.log.Error("failed to generate feed", "category", cat.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate feed")
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(rss))
}

// GenerateRSSFeed creates an RSS feed from a category page
func GenerateRSSFeed(vm app.ViewModel, cat config.Category, baseURL string, now time.Time) (string, error) {
	link := strings.TrimRight(baseURL, "/") + cat.Path()

	feed := &feeds.Feed{
		Title:       "Tin tức " + cat.Label,
		Link:        &feeds.Link{Href: link},
		Description: vm.Query,
		Created:     now,
	}

	feed.Items = make([]*feeds.Item, 0, len(vm.Articles))
	for _, a := range vm.Articles {
		item := &feeds.Item{
			Title:       displayTitle(a),
			Link:        &feeds.Link{Href: a.URL},
			Id:          a.URL,
			Description: truncateRunes(displayDescription(a), maxItemDescription),
		}
		if name := a.SourceName(); name != "" {
			item.Author = &feeds.Author{Name: name}
		} else if a.Author != "" {
			item.Author = &feeds.Author{Name: a.Author}
		}
		if t, ok := vntime.Parse(a.PublishedAt); ok {
			item.Created = t
		}
		feed.Items = append(feed.Items, item)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return "", fmt.Errorf("failed to generate RSS: %w", err)
	}
	return rss, nil
}

func displayTitle(a news.Article) string {
	if a.TranslatedTitle != nil && *a.TranslatedTitle != "" {
		return *a.TranslatedTitle
	}
	if a.Title != "" {
		return a.Title
	}
	return "Không có tiêu đề"
}

func displayDescription(a news.Article) string {
	if a.TranslatedDescription != nil && *a.TranslatedDescription != "" {
		return *a.TranslatedDescription
	}
	return a.Description
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
