// Package httpapi exposes the lookup pipeline as a small JSON API. It is the
// presentation boundary: it receives plain selection parameters and returns
// plain display data, holding no selection state of its own.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sotakimura/rain-lookup/internal/adapter/forecastapi"
	"github.com/sotakimura/rain-lookup/internal/adapter/locfeed"
	"github.com/sotakimura/rain-lookup/internal/pipeline"
)

// LookupService is the pipeline surface the API consumes.
type LookupService interface {
	CheckReadiness(ctx context.Context) error
	DirectoryView(ctx context.Context) (pipeline.DirectoryView, error)
	Forecast(ctx context.Context, prefecture, city string) (pipeline.ForecastView, error)
}

// Server exposes the lookup API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	lookup     LookupService
	logger     *slog.Logger
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(addr string, lookup LookupService, logger *slog.Logger) *Server {
	s := &Server{
		lookup: lookup,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/directory", s.handleDirectory)
		r.Get("/forecast", s.handleForecast)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.lookup.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleDirectory returns the dropdown payload: prefecture names, per-
// prefecture city names, and the default indices.
func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	view, err := s.lookup.DirectoryView(r.Context())
	if err != nil {
		s.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// handleForecast resolves ?pref=&city= to the current reading and the
// three-day table. An unresolvable selection is a normal state, not an
// error response.
func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	prefecture := r.URL.Query().Get("pref")
	city := r.URL.Query().Get("city")

	view, err := s.lookup.Forecast(r.Context(), prefecture, city)
	if err != nil {
		if errors.Is(err, pipeline.ErrSelectionIncomplete) {
			writeJSON(w, http.StatusOK, map[string]string{
				"status":  "incomplete",
				"message": "都道府県と市区町村を選択してください",
			})
			return
		}
		s.writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// writeLookupError maps pipeline failures onto HTTP statuses. Upstream feed
// problems are gateway-style errors; everything else is internal.
func (s *Server) writeLookupError(w http.ResponseWriter, err error) {
	var fetchErr *forecastapi.FetchError
	if errors.As(err, &fetchErr) {
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error": "天気情報の取得に失敗しました",
			"kind":  fetchErr.Kind.String(),
		})
		return
	}

	var dirErr *locfeed.DirectoryError
	if errors.As(err, &dirErr) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "地域情報の取得に失敗しました",
			"kind":  dirErr.Kind.String(),
		})
		return
	}

	if errors.Is(err, pipeline.ErrDirectoryEmpty) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "地域情報がありません",
		})
		return
	}

	s.logger.Error("lookup failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal error",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
