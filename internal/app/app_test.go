package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/vnnews/internal/config"
	"github.com/deusflow/vnnews/internal/fetcher"
	"github.com/deusflow/vnnews/internal/logger"
	"github.com/deusflow/vnnews/internal/news"
)

type stubFetcher struct {
	mu       sync.Mutex
	queries  []news.SearchQuery
	articles []news.Article
	degraded bool
}

func (s *stubFetcher) Fetch(ctx context.Context, q news.SearchQuery) fetcher.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	out := make([]news.Article, len(s.articles))
	copy(out, s.articles)
	provider := "stub"
	if s.degraded {
		provider = "mock"
	}
	return fetcher.Result{Articles: out, Provider: provider, Degraded: s.degraded}
}

func (s *stubFetcher) texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	for i, q := range s.queries {
		out[i] = q.Text
	}
	return out
}

// prefixTranslator marks text as translated and tracks concurrency.
type prefixTranslator struct {
	active atomic.Int32
	peak   atomic.Int32
}

func (p *prefixTranslator) TranslateArticle(ctx context.Context, title, description string) (string, string) {
	n := p.active.Add(1)
	defer p.active.Add(-1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	// later articles finish first
	time.Sleep(time.Duration(10-len(title)%10) * time.Millisecond)
	return "vi:" + title, "vi:" + description
}

func newTestService(f ArticleFetcher, tr ArticleTranslator, workers int) *Service {
	kw := config.DefaultKeywords()
	queries := news.NewQueryBuilder("Vietnam", kw.Region, kw.Important, true)
	return NewService(f, tr, queries, kw, Options{
		PageSize:      20,
		Workers:       workers,
		RequestBudget: time.Second,
		RankKeywords:  kw.Region,
		Logger:        logger.Discard(),
	})
}

func sampleArticles() []news.Article {
	return []news.Article{
		{Title: "Stock markets rally", Description: "Global shares climb", PublishedAt: "2024-01-01T00:00:00Z"},
		{Title: "Hanoi traffic update", Description: "New bus lanes open", PublishedAt: "2024-01-01T01:00:00Z"},
		{Title: "Vietnam exports rise", Description: "Rice shipments grow", PublishedAt: "2024-01-01T02:00:00Z"},
	}
}

func TestGetCategoryArticles_HomeSeed(t *testing.T) {
	f := &stubFetcher{articles: sampleArticles()}
	svc := newTestService(f, &prefixTranslator{}, 2)

	vm := svc.GetCategoryArticles(context.Background(), "", "", "")

	assert.Equal(t, "home", vm.ActiveTabID)
	assert.Equal(t, "Trang Chủ", vm.CategoryLabel)
	assert.Equal(t, "Vietnam OR Việt Nam tin tức", vm.Query)
	assert.Equal(t, []string{"Vietnam OR Việt Nam tin tức"}, f.texts())
	assert.Empty(t, vm.ErrorMessage)
	assert.Equal(t, "stub", vm.Provider)
	require.Len(t, f.queries, 1)
	assert.Equal(t, news.SortRelevance, f.queries[0].Sort)
	assert.Equal(t, 20, f.queries[0].PageSize)
}

func TestGetCategoryArticles_RanksAndEnrichesInOrder(t *testing.T) {
	f := &stubFetcher{articles: sampleArticles()}
	tr := &prefixTranslator{}
	svc := newTestService(f, tr, 2)

	vm := svc.GetCategoryArticles(context.Background(), "", "kinhte", "")

	assert.Equal(t, "Kinh Tế", vm.CategoryLabel)
	assert.Equal(t, []string{"Vietnam kinh tế tài chính thương mại"}, f.texts())

	require.Len(t, vm.Articles, 3)
	wantOrder := []string{"Vietnam exports rise", "Hanoi traffic update", "Stock markets rally"}
	for i, a := range vm.Articles {
		assert.Equal(t, wantOrder[i], a.Title)
		require.True(t, a.Enriched())
		assert.Equal(t, "vi:"+a.Title, *a.TranslatedTitle)
		assert.Equal(t, "vi:"+a.Description, *a.TranslatedDescription)
	}
	assert.Equal(t, "2024-01-01 09:00:00 (Giờ VN)", *vm.Articles[0].LocalPublishedAt)
	assert.LessOrEqual(t, tr.peak.Load(), int32(2))
}

func TestGetCategoryArticles_EmptyRetriesSimplified(t *testing.T) {
	f := &stubFetcher{}
	svc := newTestService(f, &prefixTranslator{}, 1)

	vm := svc.GetCategoryArticles(context.Background(), "", "kinhte", "")

	assert.Equal(t, []string{
		"Vietnam kinh tế tài chính thương mại",
		"Vietnam kinh tế",
	}, f.texts())
	assert.Equal(t, MsgNoCategoryArticles, vm.ErrorMessage)
	assert.NotNil(t, vm.Articles)
	assert.Empty(t, vm.Articles)
}

func TestGetCategoryArticles_ExplicitQueryOverridesSeed(t *testing.T) {
	f := &stubFetcher{articles: sampleArticles()}
	svc := newTestService(f, &prefixTranslator{}, 1)

	vm := svc.GetCategoryArticles(context.Background(), "Hà Nội mưa lớn", "thoisu", "Tin nóng")

	assert.Equal(t, "Hà Nội mưa lớn", vm.Query)
	assert.Equal(t, "Tin nóng", vm.CategoryLabel)
	assert.Equal(t, []string{"Hà Nội mưa lớn"}, f.texts())
}

func TestSearchArticles_NoMatchesAfterFilter(t *testing.T) {
	f := &stubFetcher{articles: sampleArticles()}
	svc := newTestService(f, &prefixTranslator{}, 2)

	vm := svc.SearchArticles(context.Background(), SearchRequest{
		Query:  "apple iphone launch event",
		Filter: "bitcoin",
	})

	assert.Equal(t, []string{
		"Vietnam apple iphone launch event",
		"Vietnam apple iphone",
	}, f.texts())
	assert.Equal(t, MsgNoSearchResults, vm.ErrorMessage)
	assert.Empty(t, vm.Articles)
}

func TestSearchArticles_FilterKeepsRankOrder(t *testing.T) {
	f := &stubFetcher{articles: sampleArticles()}
	svc := newTestService(f, &prefixTranslator{}, 3)

	vm := svc.SearchArticles(context.Background(), SearchRequest{
		Query:  "tin tức",
		Filter: "exports traffic",
	})

	require.Len(t, vm.Articles, 2)
	assert.Equal(t, "Vietnam exports rise", vm.Articles[0].Title)
	assert.Equal(t, "Hanoi traffic update", vm.Articles[1].Title)
	assert.Empty(t, vm.ErrorMessage)
}

func TestSearchArticles_EmptyQueryUsesTabSeed(t *testing.T) {
	f := &stubFetcher{articles: sampleArticles()}
	svc := newTestService(f, &prefixTranslator{}, 1)

	vm := svc.SearchArticles(context.Background(), SearchRequest{Query: "  ", ActiveTabID: "thethao"})

	assert.Equal(t, "thể thao bóng đá world cup olympic", vm.Query)
	assert.Equal(t, "thethao", vm.ActiveTabID)
	assert.Equal(t, "Thể Thao", vm.CategoryLabel)
}

func TestSearchArticles_UnknownTabFallsBackToHome(t *testing.T) {
	f := &stubFetcher{articles: sampleArticles()}
	svc := newTestService(f, &prefixTranslator{}, 1)

	vm := svc.SearchArticles(context.Background(), SearchRequest{ActiveTabID: "nope"})

	assert.Equal(t, "home", vm.ActiveTabID)
	assert.Equal(t, "Vietnam OR Việt Nam tin tức", vm.Query)
}

func TestSearchArticles_FromDateAndSort(t *testing.T) {
	f := &stubFetcher{articles: sampleArticles()}
	svc := newTestService(f, &prefixTranslator{}, 1)

	vm := svc.SearchArticles(context.Background(), SearchRequest{
		Query:    "Việt Nam",
		FromDate: "2024-05-01",
		SortBy:   "publishedAt",
	})

	require.Len(t, f.queries, 1)
	q := f.queries[0]
	require.NotNil(t, q.From)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), *q.From)
	assert.Equal(t, news.SortRecency, q.Sort)
	assert.Equal(t, "2024-05-01", vm.FromDate)
	assert.Equal(t, "recency", vm.SortBy)
}

func TestSearchArticles_InvalidFromDateIgnored(t *testing.T) {
	f := &stubFetcher{articles: sampleArticles()}
	svc := newTestService(f, &prefixTranslator{}, 1)

	vm := svc.SearchArticles(context.Background(), SearchRequest{Query: "Việt Nam", FromDate: "2024-13-45"})

	require.Len(t, f.queries, 1)
	assert.Nil(t, f.queries[0].From)
	assert.Empty(t, vm.FromDate)
	assert.Len(t, vm.Articles, 3)
}

func TestSearchArticles_DegradedResultIsReported(t *testing.T) {
	f := &stubFetcher{articles: fetcher.MockArticles(), degraded: true}
	svc := newTestService(f, &prefixTranslator{}, 2)

	vm := svc.SearchArticles(context.Background(), SearchRequest{Query: "Việt Nam"})

	assert.True(t, vm.Degraded)
	assert.Equal(t, "mock", vm.Provider)
	assert.Len(t, vm.Articles, 3)
	assert.Empty(t, vm.ErrorMessage)
}

func TestCategories(t *testing.T) {
	svc := newTestService(&stubFetcher{}, &prefixTranslator{}, 1)

	cats := svc.Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, "home", cats[0].ID)

	c, ok := svc.Category("giaitri")
	require.True(t, ok)
	assert.Equal(t, "Giải Trí", c.Label)
}

func TestBuild_SkipsProvidersWithoutKeys(t *testing.T) {
	cfg := &config.Config{
		Providers:            []string{config.ProviderNewsAPI, config.ProviderGNews, config.ProviderGoogleRSS},
		GNewsAPIKey:          "key",
		GoogleNewsRSSEnabled: false,
	}
	providers := buildProviders(cfg, logger.Discard())

	require.Len(t, providers, 1)
	assert.Equal(t, "gnews", providers[0].Name())
}

func TestBuild_TranslatorOrder(t *testing.T) {
	cfg := &config.Config{LibreTranslateURL: "http://libre.local", TargetLang: "vi"}
	translators, closeFn, err := buildTranslators(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer closeFn()

	names := make([]string, len(translators))
	for i, tr := range translators {
		names[i] = tr.Name()
	}
	assert.Equal(t, []string{"google", "mymemory", "libretranslate"}, names)
}

func TestBuild_AssemblesService(t *testing.T) {
	cfg := &config.Config{
		Providers:        []string{config.ProviderNewsAPI},
		PageSize:         10,
		RegionTerm:       "Vietnam",
		RegionBoost:      true,
		TargetLang:       "vi",
		TranslateWorkers: 2,
		RequestBudget:    time.Second,
		RetryAttempts:    1,
		DegradedLatch:    true,
		Keywords:         config.DefaultKeywords(),
	}
	svc, closeFn, err := Build(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, 10, svc.pageSize)
	assert.Equal(t, 2, svc.workers)
	assert.Len(t, svc.Categories(), 6)
	assert.Contains(t, svc.TranslationUsage(), "mymemory_limit")
}
