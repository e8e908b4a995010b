// Package app serves category pages and searches: it fetches articles,
// ranks and filters them, then translates them for display.
package app

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/deusflow/vnnews/internal/config"
	"github.com/deusflow/vnnews/internal/fetcher"
	"github.com/deusflow/vnnews/internal/logger"
	"github.com/deusflow/vnnews/internal/metrics"
	"github.com/deusflow/vnnews/internal/news"
	"github.com/deusflow/vnnews/internal/ratelimit"
	"github.com/deusflow/vnnews/internal/vntime"
)

// Messages shown when a request ends with no articles.
const (
	MsgNoCategoryArticles = "Không tìm thấy bài viết phù hợp. Vui lòng thử lại sau."
	MsgNoSearchResults    = "Không tìm thấy kết quả phù hợp với từ khóa tìm kiếm."
)

// DateLayout is the accepted form of SearchRequest.FromDate.
const DateLayout = "2006-01-02"

const (
	defaultWorkers       = 4
	defaultRequestBudget = 45 * time.Second
)

// ArticleFetcher returns articles for a query. The result is never empty.
type ArticleFetcher interface {
	Fetch(ctx context.Context, q news.SearchQuery) fetcher.Result
}

// ArticleTranslator translates the display fields of one article.
type ArticleTranslator interface {
	TranslateArticle(ctx context.Context, title, description string) (string, string)
}

// ViewModel is what a page renders.
type ViewModel struct {
	Articles      []news.Article `json:"articles"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	Query         string         `json:"query"`
	ActiveTabID   string         `json:"activeTabId"`
	CategoryLabel string         `json:"categoryLabel"`
	FromDate      string         `json:"fromDate,omitempty"`
	SortBy        string         `json:"sortBy,omitempty"`
	Provider      string         `json:"provider,omitempty"`
	Degraded      bool           `json:"degraded,omitempty"`
}

// SearchRequest carries the search form fields.
type SearchRequest struct {
	Query         string `json:"query"`
	FromDate      string `json:"fromDate"`
	SortBy        string `json:"sortBy"`
	Filter        string `json:"filter"`
	ActiveTabID   string `json:"activeTabId"`
	CategoryLabel string `json:"categoryLabel"`
}

type Options struct {
	PageSize int
	// Workers bounds concurrent article translations.
	Workers int
	// RequestBudget bounds all outbound work of one request.
	RequestBudget time.Duration
	// RankKeywords order articles; matches in the title weigh most.
	RankKeywords []string
	// Limiter is reported by TranslationUsage when set.
	Limiter *ratelimit.ProviderLimiter
	Logger  *slog.Logger
}

type Service struct {
	fetcher    ArticleFetcher
	translator ArticleTranslator
	queries    *news.QueryBuilder
	keywords   *config.Keywords
	pageSize   int
	workers    int
	budget     time.Duration
	rank       []string
	limiter    *ratelimit.ProviderLimiter
	log        *slog.Logger
}

func NewService(f ArticleFetcher, t ArticleTranslator, queries *news.QueryBuilder, keywords *config.Keywords, opts Options) *Service {
	if keywords == nil {
		keywords = config.DefaultKeywords()
	}
	if opts.Workers < 1 {
		opts.Workers = defaultWorkers
	}
	if opts.RequestBudget <= 0 {
		opts.RequestBudget = defaultRequestBudget
	}
	if opts.PageSize <= 0 {
		opts.PageSize = news.DefaultPageSize
	}
	if len(opts.RankKeywords) == 0 {
		opts.RankKeywords = news.DefaultRegionKeywords
	}
	return &Service{
		fetcher:    f,
		translator: t,
		queries:    queries,
		keywords:   keywords,
		pageSize:   opts.PageSize,
		workers:    opts.Workers,
		budget:     opts.RequestBudget,
		rank:       opts.RankKeywords,
		limiter:    opts.Limiter,
		log:        logger.OrDefault(opts.Logger),
	}
}

// Categories returns the configured navigation tabs in display order.
func (s *Service) Categories() []config.Category {
	return s.keywords.Categories
}

// Category looks up a tab by id.
func (s *Service) Category(id string) (config.Category, bool) {
	return s.keywords.Category(id)
}

// TranslationUsage returns per-provider translation usage for the day, or
// nil without a limiter.
func (s *Service) TranslationUsage() map[string]interface{} {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.GetStats()
}

// GetCategoryArticles loads a category page. A blank query uses the seed of
// the active tab.
func (s *Service) GetCategoryArticles(ctx context.Context, query, activeTabID, categoryLabel string) ViewModel {
	start := time.Now()
	tab := s.tab(activeTabID)
	if categoryLabel == "" {
		categoryLabel = tab.Label
	}
	query = strings.TrimSpace(query)
	if query == "" {
		query = tab.Seed
	}

	vm := ViewModel{
		Query:         query,
		ActiveTabID:   tab.ID,
		CategoryLabel: categoryLabel,
	}

	res := s.collect(ctx, query, news.SearchQuery{Sort: news.SortRelevance}, "")
	s.fill(&vm, res, MsgNoCategoryArticles)

	s.log.Info("category served", "tab", tab.ID, "query", query, "articles", len(vm.Articles), "provider", vm.Provider)
	s.record(start, len(vm.Articles))
	return vm
}

// SearchArticles runs a user search. An empty query falls back to the seed
// of the active tab and an unparseable FromDate is ignored.
func (s *Service) SearchArticles(ctx context.Context, req SearchRequest) ViewModel {
	start := time.Now()
	tab := s.tab(req.ActiveTabID)
	label := req.CategoryLabel
	if label == "" {
		label = tab.Label
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		query = tab.Seed
	}
	sort := news.ParseSortMode(req.SortBy)

	vm := ViewModel{
		Query:         query,
		ActiveTabID:   tab.ID,
		CategoryLabel: label,
		SortBy:        sort.String(),
	}

	base := news.SearchQuery{Sort: sort}
	if from, ok := s.parseFrom(req.FromDate); ok {
		base.From = &from
		vm.FromDate = from.Format(DateLayout)
	}

	res := s.collect(ctx, query, base, req.Filter)
	s.fill(&vm, res, MsgNoSearchResults)

	s.log.Info("search served", "query", query, "filter", req.Filter, "sort", vm.SortBy, "articles", len(vm.Articles), "provider", vm.Provider)
	s.record(start, len(vm.Articles))
	return vm
}

type collected struct {
	articles []news.Article
	provider string
	degraded bool
}

// collect fetches, ranks and filters, retrying once with a simplified
// query when nothing survives, then enriches what is left.
func (s *Service) collect(ctx context.Context, raw string, base news.SearchQuery, filter string) collected {
	ctx, cancel := context.WithTimeout(ctx, s.budget)
	defer cancel()

	res := s.fetchRanked(ctx, raw, base, filter)
	if len(res.articles) == 0 {
		if simple := s.queries.Simplify(raw); simple != raw {
			s.log.Warn("no articles, retrying with simplified query", "query", raw, "simplified", simple)
			res = s.fetchRanked(ctx, simple, base, filter)
		}
	}
	if len(res.articles) > 0 {
		s.enrich(ctx, res.articles)
	}
	return res
}

func (s *Service) fetchRanked(ctx context.Context, raw string, base news.SearchQuery, filter string) collected {
	q := base
	q.Text = s.queries.Build(raw)
	q.PageSize = s.pageSize

	result := s.fetcher.Fetch(ctx, q)
	articles := news.Rank(result.Articles, s.rank)
	if strings.TrimSpace(filter) != "" {
		articles = news.Filter(articles, filter)
	}
	return collected{articles: articles, provider: result.Provider, degraded: result.Degraded}
}

// enrich translates and localizes articles on a bounded pool. Each worker
// writes only its own index so the order is kept.
func (s *Service) enrich(ctx context.Context, articles []news.Article) {
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range articles {
		i := i
		g.Go(func() error {
			a := &articles[i]
			title, description := s.translator.TranslateArticle(ctx, a.Title, a.Description)
			a.Enrich(news.Enrichment{
				Title:       title,
				Description: description,
				PublishedAt: vntime.Normalize(a.PublishedAt),
			})
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) fill(vm *ViewModel, res collected, emptyMsg string) {
	vm.Provider = res.provider
	vm.Degraded = res.degraded
	if len(res.articles) == 0 {
		vm.Articles = []news.Article{}
		vm.ErrorMessage = emptyMsg
		return
	}
	vm.Articles = res.articles
}

func (s *Service) tab(id string) config.Category {
	if c, ok := s.keywords.Category(strings.TrimSpace(id)); ok {
		return c
	}
	return s.keywords.Home()
}

func (s *Service) parseFrom(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	from, err := time.Parse(DateLayout, raw)
	if err != nil {
		s.log.Warn("ignoring invalid from date", "from", raw, "error", err)
		return time.Time{}, false
	}
	return from, true
}

func (s *Service) record(start time.Time, articles int) {
	metrics.Global.RecordProcessingTime(time.Since(start))
	metrics.Global.IncrementRequestsServed(articles)
}
