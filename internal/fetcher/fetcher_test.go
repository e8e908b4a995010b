package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deusflow/vnnews/internal/logger"
	"github.com/deusflow/vnnews/internal/news"
	"github.com/deusflow/vnnews/internal/retry"
)

type stubProvider struct {
	name     string
	articles []news.Article
	err      error
	calls    atomic.Int32
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(ctx context.Context, q news.SearchQuery) ([]news.Article, error) {
	s.calls.Add(1)
	return s.articles, s.err
}

type panicProvider struct {
	calls atomic.Int32
}

func (p *panicProvider) Name() string { return "panicky" }

func (p *panicProvider) Fetch(ctx context.Context, q news.SearchQuery) ([]news.Article, error) {
	p.calls.Add(1)
	panic("unexpected payload shape")
}

func statusServer(t *testing.T, status int, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func realProviders(newsapiURL, gnewsURL, rssURL string) []Provider {
	return []Provider{
		NewNewsAPIClient(HTTPConfig{BaseURL: newsapiURL, APIKey: "k"}),
		NewGNewsClient(HTTPConfig{BaseURL: gnewsURL, APIKey: "k"}),
		NewGoogleNewsRSSClient(HTTPConfig{BaseURL: rssURL}),
	}
}

func TestFetch_AllProvidersFailReturnsMock(t *testing.T) {
	srv := statusServer(t, http.StatusInternalServerError, nil)
	f := New(realProviders(srv.URL, srv.URL, srv.URL), Options{Logger: logger.Discard()})

	res := f.Fetch(context.Background(), news.SearchQuery{Text: "Vietnam"})

	require.Len(t, res.Articles, 3)
	assert.Equal(t, MockArticles(), res.Articles)
	assert.True(t, res.Degraded)
	assert.Equal(t, "mock", res.Provider)
	assert.ErrorIs(t, res.Err, ErrAllProvidersFailed)
	assert.ErrorIs(t, res.Err, ErrTransient)

	var perr *ProviderError
	require.ErrorAs(t, res.Err, &perr)
	assert.Equal(t, http.StatusInternalServerError, perr.StatusCode)
}

func TestFetch_FallsThroughToSecondary(t *testing.T) {
	primary := statusServer(t, http.StatusInternalServerError, nil)
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"totalArticles":1,"articles":[{"title":"Tin kinh tế","url":"https://example.vn/a","publishedAt":"2024-01-01T00:00:00Z","source":{"name":"VnExpress"}}]}`))
	}))
	defer secondary.Close()

	f := New([]Provider{
		NewNewsAPIClient(HTTPConfig{BaseURL: primary.URL, APIKey: "k"}),
		NewGNewsClient(HTTPConfig{BaseURL: secondary.URL, APIKey: "k"}),
	}, Options{Logger: logger.Discard()})

	res := f.Fetch(context.Background(), news.SearchQuery{Text: "kinh tế"})

	require.NoError(t, res.Err)
	assert.False(t, res.Degraded)
	assert.Equal(t, "gnews", res.Provider)
	require.Len(t, res.Articles, 1)
	assert.Equal(t, "Tin kinh tế", res.Articles[0].Title)
}

func TestFetch_EmptyResponseAdvances(t *testing.T) {
	empty := &stubProvider{name: "empty"}
	second := &stubProvider{name: "second", articles: []news.Article{{Title: "x"}}}

	res := New([]Provider{empty, second}, Options{Logger: logger.Discard()}).Fetch(context.Background(), news.SearchQuery{})

	assert.Equal(t, "second", res.Provider)
	assert.Equal(t, int32(1), empty.calls.Load())
}

func TestFetch_NoProvidersServesMock(t *testing.T) {
	res := New(nil, Options{Logger: logger.Discard()}).Fetch(context.Background(), news.SearchQuery{})
	assert.True(t, res.Degraded)
	assert.Len(t, res.Articles, 3)
}

func TestFetch_NonProviderErrorsAreTransient(t *testing.T) {
	p := &stubProvider{name: "odd", err: errors.New("boom")}
	res := New([]Provider{p}, Options{Logger: logger.Discard()}).Fetch(context.Background(), news.SearchQuery{})
	assert.ErrorIs(t, res.Err, ErrTransient)
}

func TestFetch_ProviderPanicServesMock(t *testing.T) {
	p := &panicProvider{}
	f := New([]Provider{p}, Options{
		Retry:  retry.RetryConfig{MaxAttempts: 3, Delay: time.Millisecond},
		Logger: logger.Discard(),
	})

	var res Result
	require.NotPanics(t, func() {
		res = f.Fetch(context.Background(), news.SearchQuery{Text: "Vietnam"})
	})

	assert.True(t, res.Degraded)
	assert.Equal(t, "mock", res.Provider)
	assert.Len(t, res.Articles, 3)
	assert.ErrorIs(t, res.Err, ErrMalformed)
	assert.Equal(t, int32(1), p.calls.Load())
}

func TestFetch_PanicFallsThroughToSecondary(t *testing.T) {
	second := &stubProvider{name: "second", articles: []news.Article{{Title: "x"}}}

	res := New([]Provider{&panicProvider{}, second}, Options{Logger: logger.Discard()}).Fetch(context.Background(), news.SearchQuery{})

	assert.False(t, res.Degraded)
	assert.Equal(t, "second", res.Provider)
}

func TestFetch_RetriesTransientOnly(t *testing.T) {
	transient := &stubProvider{name: "flaky", err: transientErr("flaky", 503, nil)}
	malformed := &stubProvider{name: "broken", err: malformedErr("broken", 200, nil)}

	f := New([]Provider{transient, malformed}, Options{
		Retry:  retry.RetryConfig{MaxAttempts: 3, Delay: time.Millisecond},
		Logger: logger.Discard(),
	})
	f.Fetch(context.Background(), news.SearchQuery{})

	assert.Equal(t, int32(3), transient.calls.Load())
	assert.Equal(t, int32(1), malformed.calls.Load())
}

func TestFetch_ProviderTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	f := New([]Provider{NewNewsAPIClient(HTTPConfig{BaseURL: slow.URL, APIKey: "k"})}, Options{
		Timeout: 50 * time.Millisecond,
		Logger:  logger.Discard(),
	})

	start := time.Now()
	res := f.Fetch(context.Background(), news.SearchQuery{Text: "q"})

	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, res.Degraded)
	assert.ErrorIs(t, res.Err, ErrTransient)
}

func TestFetch_CancelledContextServesMockWithoutCalls(t *testing.T) {
	p := &stubProvider{name: "p", articles: []news.Article{{Title: "x"}}}
	latch := NewLatch(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New([]Provider{p}, Options{Latch: latch, Logger: logger.Discard()}).Fetch(ctx, news.SearchQuery{})

	assert.True(t, res.Degraded)
	assert.Equal(t, int32(0), p.calls.Load())
	assert.False(t, latch.Active())
}

func TestFetch_LatchSkipsNetworkAfterExhaustion(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, http.StatusBadGateway, &hits)
	latch := NewLatch(0)

	f := New(realProviders(srv.URL, srv.URL, srv.URL), Options{Latch: latch, Logger: logger.Discard()})

	first := f.Fetch(context.Background(), news.SearchQuery{Text: "a"})
	require.True(t, first.Degraded)
	require.Equal(t, int32(3), hits.Load())
	require.True(t, latch.Active())

	second := f.Fetch(context.Background(), news.SearchQuery{Text: "b"})
	assert.True(t, second.Degraded)
	assert.Len(t, second.Articles, 3)
	assert.Equal(t, int32(3), hits.Load(), "no network calls while latched")

	latch.Reset()
	f.Fetch(context.Background(), news.SearchQuery{Text: "c"})
	assert.Equal(t, int32(6), hits.Load())
}

func TestFetch_LatchIgnoresEmptyResponses(t *testing.T) {
	latch := NewLatch(0)
	f := New([]Provider{
		&stubProvider{name: "down", err: transientErr("down", 500, nil)},
		&stubProvider{name: "empty"},
	}, Options{Latch: latch, Logger: logger.Discard()})

	res := f.Fetch(context.Background(), news.SearchQuery{})
	assert.True(t, res.Degraded)
	assert.ErrorIs(t, res.Err, ErrEmpty)
	assert.False(t, latch.Active())
}

func TestLatch_Cooldown(t *testing.T) {
	now := time.Now()
	l := NewLatch(time.Minute)
	l.now = func() time.Time { return now }

	l.Trip()
	assert.True(t, l.Active())

	now = now.Add(59 * time.Second)
	assert.True(t, l.Active())

	now = now.Add(2 * time.Second)
	assert.False(t, l.Active())
}

func TestLatch_ConcurrentTrip(t *testing.T) {
	l := NewLatch(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Trip()
			_ = l.Active()
		}()
	}
	wg.Wait()
	assert.True(t, l.Active())
}

func TestFetch_AlwaysNonEmpty(t *testing.T) {
	cases := map[string][]Provider{
		"nil articles no error": {&stubProvider{name: "a"}},
		"malformed":             {&stubProvider{name: "a", err: malformedErr("a", 200, nil)}},
		"empty list":            {&stubProvider{name: "a", articles: []news.Article{}}},
	}
	for name, providers := range cases {
		t.Run(name, func(t *testing.T) {
			res := New(providers, Options{Logger: logger.Discard()}).Fetch(context.Background(), news.SearchQuery{})
			assert.NotEmpty(t, res.Articles)
		})
	}
}
