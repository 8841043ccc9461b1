package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/adapter/http"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/domain"
	"github.com/SekaiChandraWX/tropical-cyclone-tracks-sekai/internal/pipeline"
)

// mockService stubs the pipeline behind the API.
type mockService struct {
	readyErr   error
	catalog    []domain.CatalogEntry
	catalogErr error
	result     pipeline.TrackResult
	trackErr   error
}

func (m *mockService) CheckReadiness(_ context.Context) error { return m.readyErr }

func (m *mockService) Catalog(_ context.Context, _ string, _ int) ([]domain.CatalogEntry, error) {
	return m.catalog, m.catalogErr
}

func (m *mockService) Track(_ context.Context, _ domain.CatalogEntry) (pipeline.TrackResult, error) {
	return m.result, m.trackErr
}

func newTestServer(svc *mockService) *httpadapter.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpadapter.NewServer(":0", svc, logger)
}

func doGet(srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestBasinsEndpoint(t *testing.T) {
	rec := doGet(newTestServer(&mockService{}), "/api/v1/basins")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Basins  []domain.Basin `json:"basins"`
		MinYear int            `json:"min_year"`
		MaxYear int            `json:"max_year"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Basins, 6)
	assert.Equal(t, domain.MinYear, body.MinYear)
	assert.GreaterOrEqual(t, body.MaxYear, 2024)
}

func TestCatalogEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &mockService{catalog: []domain.CatalogEntry{
			{DisplayName: "KATRINA", StormName: "KATRINA", Locator: "https://ncics.org/ibtracs/index.php?name=v04r01-KATRINA", BasinCode: "NATL"},
		}}
		rec := doGet(newTestServer(svc), "/api/v1/catalog?basin=NATL&year=2005")
		assert.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Basin  string                `json:"basin"`
			Year   int                   `json:"year"`
			Storms []domain.CatalogEntry `json:"storms"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "NATL", body.Basin)
		assert.Equal(t, 2005, body.Year)
		require.Len(t, body.Storms, 1)
		assert.Equal(t, "KATRINA", body.Storms[0].StormName)
	})

	t.Run("empty catalog is 200 with empty list", func(t *testing.T) {
		rec := doGet(newTestServer(&mockService{}), "/api/v1/catalog?basin=NATL&year=1850")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"storms":[]`)
	})

	t.Run("missing basin", func(t *testing.T) {
		rec := doGet(newTestServer(&mockService{}), "/api/v1/catalog?year=2005")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad year", func(t *testing.T) {
		rec := doGet(newTestServer(&mockService{}), "/api/v1/catalog?basin=NATL&year=soon")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid basin from service", func(t *testing.T) {
		svc := &mockService{catalogErr: errors.New(`unknown basin "MED"`)}
		rec := doGet(newTestServer(svc), "/api/v1/catalog?basin=MED&year=2005")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("upstream outage is 502", func(t *testing.T) {
		svc := &mockService{catalogErr: &domain.CatalogUnavailableError{
			BasinCode: "NATL", Year: 2005, Err: errors.New("connection refused"),
		}}
		rec := doGet(newTestServer(svc), "/api/v1/catalog?basin=NATL&year=2005")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "catalog unavailable")
	})
}

func TestTrackEndpoint(t *testing.T) {
	wind := 70.0
	result := pipeline.TrackResult{
		Storm: domain.CatalogEntry{StormName: "KATRINA", BasinCode: "NATL"},
		Track: domain.StormTrack{Fixes: []domain.TrackFix{
			{Lat: 25.0, Lon: -75.0, Wind: &wind, Time: "2005-08-24 00:00:00"},
		}},
		Metrics: domain.DerivedMetrics{
			StormType: "Hurricane",
			MaxWind:   &wind,
			StartTime: "August 24th at 00:00 UTC",
			EndTime:   "August 29th at 12:00 UTC",
		},
	}

	t.Run("success", func(t *testing.T) {
		svc := &mockService{result: result}
		rec := doGet(newTestServer(svc), "/api/v1/track?name=KATRINA&locator=x")
		assert.Equal(t, http.StatusOK, rec.Code)

		var body pipeline.TrackResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "KATRINA", body.Storm.StormName)
		require.Len(t, body.Track.Fixes, 1)
		assert.Equal(t, "Hurricane", body.Metrics.StormType)
		assert.Equal(t, "August 24th at 00:00 UTC", body.Metrics.StartTime)
		assert.Equal(t, "August 29th at 12:00 UTC", body.Metrics.EndTime)
	})

	t.Run("missing name", func(t *testing.T) {
		rec := doGet(newTestServer(&mockService{}), "/api/v1/track?locator=x")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no track data is 404", func(t *testing.T) {
		svc := &mockService{trackErr: fmt.Errorf("GALVESTON: %w", domain.ErrNoTrackData)}
		rec := doGet(newTestServer(svc), "/api/v1/track?name=GALVESTON")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed detail page is 422", func(t *testing.T) {
		for _, parseErr := range []error{
			domain.ErrTableNotFound,
			domain.ErrRequiredColumnsMissing,
			domain.ErrNoValidFixes,
		} {
			svc := &mockService{trackErr: fmt.Errorf("extract track for KATRINA: %w", parseErr)}
			rec := doGet(newTestServer(svc), "/api/v1/track?name=KATRINA&locator=x")
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, parseErr)
		}
	})

	t.Run("upstream outage is 502", func(t *testing.T) {
		svc := &mockService{trackErr: &domain.TrackUnavailableError{
			StormName: "KATRINA", Err: errors.New("timeout"),
		}}
		rec := doGet(newTestServer(svc), "/api/v1/track?name=KATRINA&locator=x")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestHealthzReturns200(t *testing.T) {
	rec := doGet(newTestServer(&mockService{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		rec := doGet(newTestServer(&mockService{}), "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not ready", func(t *testing.T) {
		rec := doGet(newTestServer(&mockService{readyErr: errors.New("no successful upstream fetch yet")}), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "not ready", body["status"])
		assert.Equal(t, "no successful upstream fetch yet", body["error"])
	})
}

func TestMetricsEndpoint(t *testing.T) {
	rec := doGet(newTestServer(&mockService{}), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
