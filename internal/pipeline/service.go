// Package pipeline orchestrates catalog resolution and track extraction:
// fetch a page, reduce it through the domain layer, cache the result, and
// derive per-request metrics.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"

	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/config"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/domain"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/observability"
)

// PageFetcher retrieves one IBTrACS page as a reduced table document.
type PageFetcher interface {
	YearPageURL(year int) string
	FetchDocument(ctx context.Context, pageURL string) (domain.Document, error)
}

// TrackPublisher emits an extracted track to a downstream sink. Optional:
// a nil publisher disables publishing.
type TrackPublisher interface {
	PublishTrack(ctx context.Context, storm domain.CatalogEntry, track domain.StormTrack, metrics domain.DerivedMetrics) error
}

// TrackResult bundles one storm's fixes with its derived summary.
type TrackResult struct {
	Storm   domain.CatalogEntry   `json:"storm"`
	Track   domain.StormTrack     `json:"track"`
	Metrics domain.DerivedMetrics `json:"metrics"`
}

// Service resolves catalogs and extracts tracks, caching upstream results.
type Service struct {
	fetcher   PageFetcher
	publisher TrackPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics

	catalogCache *gocache.Cache
	trackCache   *gocache.Cache

	baseURL string
	ready   atomic.Bool
}

// New creates a Service. publisher may be nil.
func New(fetcher PageFetcher, publisher TrackPublisher, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		fetcher:      fetcher,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
		catalogCache: gocache.New(cfg.CatalogCacheTTL, 2*cfg.CatalogCacheTTL),
		trackCache:   gocache.New(cfg.TrackCacheTTL, 2*cfg.TrackCacheTTL),
		baseURL:      cfg.IBTrACSBaseURL,
	}
}

// CheckReadiness returns nil once at least one upstream fetch has succeeded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no successful upstream fetch yet")
	}
	return nil
}

// Catalog resolves the storm catalog for one basin and year. An empty catalog
// is a valid answer; upstream failures come back as *domain.CatalogUnavailableError.
func (s *Service) Catalog(ctx context.Context, basinCode string, year int) ([]domain.CatalogEntry, error) {
	basin, ok := domain.BasinByCode(basinCode)
	if !ok {
		s.metrics.CatalogRequests.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("unknown basin %q", basinCode)
	}
	if !domain.ValidYear(year) {
		s.metrics.CatalogRequests.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("year %d outside %d-%d", year, domain.MinYear, domain.MaxYear())
	}

	key := fmt.Sprintf("%s|%d", basin.Code, year)
	if cached, ok := s.catalogCache.Get(key); ok {
		s.metrics.CacheLookups.WithLabelValues("catalog", "hit").Inc()
		return cached.([]domain.CatalogEntry), nil
	}
	s.metrics.CacheLookups.WithLabelValues("catalog", "miss").Inc()

	doc, err := s.fetcher.FetchDocument(ctx, s.fetcher.YearPageURL(year))
	if err != nil {
		s.metrics.CatalogRequests.WithLabelValues("unavailable").Inc()
		return nil, &domain.CatalogUnavailableError{BasinCode: basin.Code, Year: year, Err: err}
	}
	s.ready.Store(true)

	entries := domain.ResolveCatalog(basin, doc)
	s.catalogCache.SetDefault(key, entries)

	if len(entries) == 0 {
		s.metrics.CatalogRequests.WithLabelValues("empty").Inc()
		s.logger.Info("empty catalog", "basin", basin.Code, "year", year)
	} else {
		s.metrics.CatalogRequests.WithLabelValues("success").Inc()
		s.logger.Info("catalog resolved", "basin", basin.Code, "year", year, "storms", len(entries))
	}
	return entries, nil
}

// Track extracts the fix sequence behind one catalog entry's locator and
// derives its summary metrics. The track is cached by locator; metrics are
// recomputed per request.
func (s *Service) Track(ctx context.Context, storm domain.CatalogEntry) (TrackResult, error) {
	if storm.Locator == "" {
		s.metrics.TrackRequests.WithLabelValues("no_data").Inc()
		return TrackResult{}, fmt.Errorf("%s: %w", storm.StormName, domain.ErrNoTrackData)
	}
	if !strings.HasPrefix(storm.Locator, s.baseURL) {
		s.metrics.TrackRequests.WithLabelValues("invalid").Inc()
		return TrackResult{}, fmt.Errorf("locator %q is not an ibtracs page", storm.Locator)
	}

	track, err := s.fetchTrack(ctx, storm)
	if err != nil {
		return TrackResult{}, err
	}

	return TrackResult{
		Storm:   storm,
		Track:   track,
		Metrics: domain.DeriveMetrics(track),
	}, nil
}

func (s *Service) fetchTrack(ctx context.Context, storm domain.CatalogEntry) (domain.StormTrack, error) {
	if cached, ok := s.trackCache.Get(storm.Locator); ok {
		s.metrics.CacheLookups.WithLabelValues("track", "hit").Inc()
		return cached.(domain.StormTrack), nil
	}
	s.metrics.CacheLookups.WithLabelValues("track", "miss").Inc()

	doc, err := s.fetcher.FetchDocument(ctx, storm.Locator)
	if err != nil {
		s.metrics.TrackRequests.WithLabelValues("fetch_error").Inc()
		return domain.StormTrack{}, &domain.TrackUnavailableError{StormName: storm.StormName, Err: err}
	}
	s.ready.Store(true)

	track, err := domain.ExtractTrack(doc)
	if err != nil {
		s.metrics.TrackRequests.WithLabelValues("parse_error").Inc()
		return domain.StormTrack{}, fmt.Errorf("extract track for %s: %w", storm.StormName, err)
	}

	s.trackCache.SetDefault(storm.Locator, track)
	s.metrics.TrackRequests.WithLabelValues("success").Inc()
	s.metrics.TrackFixes.Observe(float64(len(track.Fixes)))
	s.logger.Info("track extracted", "storm", storm.StormName, "fixes", len(track.Fixes))

	s.publish(ctx, storm, track)
	return track, nil
}

// publish sends the extracted track downstream. Failures are logged, never
// surfaced: publishing is side traffic, not part of the request.
func (s *Service) publish(ctx context.Context, storm domain.CatalogEntry, track domain.StormTrack) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTrack(ctx, storm, track, domain.DeriveMetrics(track)); err != nil {
		s.logger.Warn("track publish failed", "storm", storm.StormName, "error", err)
	}
}
