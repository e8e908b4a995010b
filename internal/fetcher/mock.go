package fetcher

import (
	"context"

	"github.com/deusflow/vnnews/internal/news"
)

// MockProvider serves a fixed article set. It never fails and never
// touches the network.
type MockProvider struct{}

func (MockProvider) Name() string {
	return "mock"
}

func (MockProvider) Fetch(context.Context, news.SearchQuery) ([]news.Article, error) {
	return MockArticles(), nil
}

// MockArticles returns a fresh copy of the fixed fallback articles.
func MockArticles() []news.Article {
	return []news.Article{
		{
			Source:      &news.Source{ID: "vnexpress", Name: "VnExpress"},
			Author:      "VnExpress",
			Title:       "Vietnam economy grows 6.5% as exports recover",
			Description: "Vietnam's economy expanded on strong manufacturing and a rebound in exports, the government statistics office said.",
			URL:         "https://vnexpress.net/kinh-doanh",
			ImageURL:    "https://vnexpress.net/images/economy.jpg",
			PublishedAt: "2024-01-01T00:00:00Z",
			Content:     "Vietnam's economy grew 6.5% year on year, lifted by exports of electronics and textiles.",
			Provider:    "mock",
		},
		{
			Source:      &news.Source{ID: "tuoitre", Name: "Tuổi Trẻ"},
			Author:      "Tuổi Trẻ",
			Title:       "Hanoi opens new metro line to ease traffic",
			Description: "The Hanoi government signed an agreement on the next phase of the urban railway network.",
			URL:         "https://tuoitre.vn/thoi-su",
			ImageURL:    "https://tuoitre.vn/images/metro.jpg",
			PublishedAt: "2024-01-01T02:30:00Z",
			Content:     "The elevated Nhon - Hanoi Station line carries thousands of passengers a day.",
			Provider:    "mock",
		},
		{
			Source:      &news.Source{ID: "thanhnien", Name: "Thanh Niên"},
			Author:      "Thanh Niên",
			Title:       "Vietnam national team prepares for World Cup qualifiers",
			Description: "Latest news from the training camp in Ho Chi Minh City ahead of the qualifiers.",
			URL:         "https://thanhnien.vn/the-thao",
			ImageURL:    "https://thanhnien.vn/images/football.jpg",
			PublishedAt: "2024-01-01T05:00:00Z",
			Content:     "The squad trains in Ho Chi Minh City before travelling to the first away game.",
			Provider:    "mock",
		},
	}
}
