// Package http exposes the track service's API alongside health, readiness,
// and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/domain"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/pipeline"
)

// TrackService is the pipeline surface the API serves.
type TrackService interface {
	CheckReadiness(ctx context.Context) error
	Catalog(ctx context.Context, basinCode string, year int) ([]domain.CatalogEntry, error)
	Track(ctx context.Context, storm domain.CatalogEntry) (pipeline.TrackResult, error)
}

// Server exposes the API plus health, readiness, and metrics HTTP endpoints.
type Server struct {
	httpServer *http.Server
	service    TrackService
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, service TrackService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("GET /api/v1/basins", s.handleBasins)
	mux.HandleFunc("GET /api/v1/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/v1/track", s.handleTrack)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

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

func (s *Server) handleBasins(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"basins":   domain.Basins,
		"min_year": domain.MinYear,
		"max_year": domain.MaxYear(),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	basinCode := r.URL.Query().Get("basin")
	if basinCode == "" {
		writeError(w, http.StatusBadRequest, "basin parameter is required")
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year parameter must be an integer")
		return
	}

	entries, err := s.service.Catalog(r.Context(), basinCode, year)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	if entries == nil {
		entries = []domain.CatalogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"basin":  basinCode,
		"year":   year,
		"storms": entries,
	})
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name parameter is required")
		return
	}

	storm := domain.CatalogEntry{
		DisplayName: name,
		StormName:   name,
		Locator:     r.URL.Query().Get("locator"),
		BasinCode:   r.URL.Query().Get("basin"),
	}

	result, err := s.service.Track(r.Context(), storm)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeServiceError maps pipeline errors to HTTP statuses: missing track data
// is 404, malformed upstream pages are 422, upstream outages are 502, and
// anything else is a bad request.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var catalogDown *domain.CatalogUnavailableError
	var trackDown *domain.TrackUnavailableError
	switch {
	case errors.Is(err, domain.ErrNoTrackData):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrTableNotFound),
		errors.Is(err, domain.ErrRequiredColumnsMissing),
		errors.Is(err, domain.ErrNoValidFixes):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &catalogDown), errors.As(err, &trackDown):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
