package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deusflow/vnnews/internal/app"
	"github.com/deusflow/vnnews/internal/config"
	"github.com/deusflow/vnnews/internal/logger"
	"github.com/deusflow/vnnews/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// NewsService is the part of app.Service the handlers use.
type NewsService interface {
	GetCategoryArticles(ctx context.Context, query, activeTabID, categoryLabel string) app.ViewModel
	SearchArticles(ctx context.Context, req app.SearchRequest) app.ViewModel
	Categories() []config.Category
	Category(id string) (config.Category, bool)
}

type Options struct {
	// BaseURL is used for links in RSS output.
	BaseURL string
	// RequestTimeout bounds each inbound request.
	RequestTimeout time.Duration
	// Health defaults to metrics.Global.
	Health *metrics.Metrics
	// Usage adds translation usage to /stats when set.
	Usage  func() map[string]interface{}
	Logger *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	router  *chi.Mux
	svc     NewsService
	baseURL string
	timeout time.Duration
	health  *metrics.Metrics
	usage   func() map[string]interface{}
	log     *slog.Logger
}

// New creates a new server instance
func New(svc NewsService, opts Options) *Server {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}
	if opts.Health == nil {
		opts.Health = metrics.Global
	}
	s := &Server{
		router:  chi.NewRouter(),
		svc:     svc,
		baseURL: opts.BaseURL,
		timeout: opts.RequestTimeout,
		health:  opts.Health,
		usage:   opts.Usage,
		log:     logger.OrDefault(opts.Logger),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.timeout))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Get("/categories", s.handleCategories)
	s.router.Get("/search", s.handleSearch)
	s.router.Post("/search", s.handleSearch)

	s.router.Get("/", s.handleCategory)
	s.router.Get("/rss.xml", s.handleRSS)
	s.router.Get("/{category}", s.handleCategory)
	s.router.Get("/{category}/rss.xml", s.handleRSS)
}

// Router returns the Chi router
func (s *Server) Router() *chi.Mux {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request and observes its duration per route.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		metrics.RecordRequest(route, elapsed.Seconds())
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", ww.Status(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.health.GetStats()

	status := "ok"
	code := http.StatusOK
	if !s.health.Healthy() {
		status = "error"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.health.GetStats()
	if s.usage != nil {
		if usage := s.usage(); usage != nil {
			stats["translation_usage"] = usage
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Categories())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
