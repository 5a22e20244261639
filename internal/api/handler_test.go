package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/naftapulse/internal/domain/dto"
	"github.com/guttosm/naftapulse/internal/domain/models"
	"github.com/guttosm/naftapulse/internal/ingestion"
	"github.com/guttosm/naftapulse/internal/service"
)

type mockStatsService struct {
	state      service.State
	refreshed  *models.Snapshot
	refreshErr error
	points     []models.SeriesPoint
	gotDays    int
}

func (m *mockStatsService) Refresh(context.Context) (*models.Snapshot, error) {
	if m.refreshErr != nil {
		return nil, m.refreshErr
	}
	m.state.Snapshot = m.refreshed
	return m.refreshed, nil
}
func (m *mockStatsService) State() service.State { return m.state }
func (m *mockStatsService) Series(days int) []models.SeriesPoint {
	m.gotDays = days
	return m.points
}
func (m *mockStatsService) Currency() string { return "ARS" }

var _ service.StatsService = (*mockStatsService)(nil)

func sampleSnapshot() *models.Snapshot {
	d := time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC)
	pct := -4.545
	return &models.Snapshot{
		Vendor:       "UNITECPROCOM SA",
		Location:     "San Isidro",
		Current:      models.PricePoint{Price: 105, Date: d},
		Daily:        models.Change{Available: true, Delta: -5, Percent: &pct, Baseline: 110, Since: d.AddDate(0, 0, -1)},
		Observations: 3,
		AsOf:         d,
	}
}

func setupRouterWithMock(s service.StatsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s)
	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.GET("/stats", h.GetStats)
	v1.GET("/series", h.GetSeries)
	v1.POST("/refresh", h.PostRefresh)
	return r
}

func TestHandler_TableDriven(t *testing.T) {
	transportErr := &ingestion.TransportError{URL: "http://feed", StatusCode: 503}
	emptyErr := fmt.Errorf("vendor %q: %w", "X", ingestion.ErrEmptyResult)

	cases := []struct {
		name   string
		svc    *mockStatsService
		method string
		path   string
		status int
		assert func(t *testing.T, svc *mockStatsService, body []byte)
	}{
		{
			name:   "stats before first refresh",
			svc:    &mockStatsService{},
			method: http.MethodGet, path: "/api/v1/stats",
			status: http.StatusServiceUnavailable,
		},
		{
			name:   "stats when vendor never matched",
			svc:    &mockStatsService{state: service.State{LastErr: emptyErr}},
			method: http.MethodGet, path: "/api/v1/stats",
			status: http.StatusNotFound,
		},
		{
			name:   "stats success",
			svc:    &mockStatsService{state: service.State{Snapshot: sampleSnapshot()}},
			method: http.MethodGet, path: "/api/v1/stats",
			status: http.StatusOK,
			assert: func(t *testing.T, _ *mockStatsService, body []byte) {
				var out dto.StatsResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if out.Vendor != "UNITECPROCOM SA" || out.Current.Price != 105 || out.Daily.Delta != -5 || out.Stale {
					t.Fatalf("unexpected body: %+v", out)
				}
				if out.Monthly.Available {
					t.Fatalf("monthly should be unavailable")
				}
			},
		},
		{
			name:   "stats stale after failed refresh",
			svc:    &mockStatsService{state: service.State{Snapshot: sampleSnapshot(), LastErr: transportErr}},
			method: http.MethodGet, path: "/api/v1/stats",
			status: http.StatusOK,
			assert: func(t *testing.T, _ *mockStatsService, body []byte) {
				var out dto.StatsResponse
				_ = json.Unmarshal(body, &out)
				if !out.Stale || out.LastError == "" {
					t.Fatalf("expected stale response, got %+v", out)
				}
			},
		},
		{
			name:   "stats restored from archive",
			svc:    &mockStatsService{state: service.State{Snapshot: sampleSnapshot(), Restored: true}},
			method: http.MethodGet, path: "/api/v1/stats",
			status: http.StatusOK,
			assert: func(t *testing.T, _ *mockStatsService, body []byte) {
				var out dto.StatsResponse
				_ = json.Unmarshal(body, &out)
				if !out.Stale || !out.Restored || out.LastError != "" {
					t.Fatalf("expected restored stale response, got %+v", out)
				}
			},
		},
		{
			name:   "series invalid days",
			svc:    &mockStatsService{state: service.State{Snapshot: sampleSnapshot()}},
			method: http.MethodGet, path: "/api/v1/series?days=-1",
			status: http.StatusBadRequest,
		},
		{
			name:   "series not a number",
			svc:    &mockStatsService{state: service.State{Snapshot: sampleSnapshot()}},
			method: http.MethodGet, path: "/api/v1/series?days=week",
			status: http.StatusBadRequest,
		},
		{
			name:   "series before first refresh",
			svc:    &mockStatsService{},
			method: http.MethodGet, path: "/api/v1/series",
			status: http.StatusServiceUnavailable,
		},
		{
			name: "series success",
			svc: &mockStatsService{
				state:  service.State{Snapshot: sampleSnapshot()},
				points: []models.SeriesPoint{{Label: "2025-03-02", Value: 110}, {Label: "2025-03-03", Value: 105}},
			},
			method: http.MethodGet, path: "/api/v1/series?days=30",
			status: http.StatusOK,
			assert: func(t *testing.T, svc *mockStatsService, body []byte) {
				var out dto.SeriesResponse
				if err := json.Unmarshal(body, &out); err != nil {
					t.Fatalf("invalid json: %v", err)
				}
				if len(out.Points) != 2 || out.Currency != "ARS" || svc.gotDays != 30 {
					t.Fatalf("unexpected body: %+v (days=%d)", out, svc.gotDays)
				}
			},
		},
		{
			name:   "refresh transport error",
			svc:    &mockStatsService{refreshErr: transportErr},
			method: http.MethodPost, path: "/api/v1/refresh",
			status: http.StatusBadGateway,
		},
		{
			name:   "refresh empty result",
			svc:    &mockStatsService{refreshErr: emptyErr},
			method: http.MethodPost, path: "/api/v1/refresh",
			status: http.StatusNotFound,
		},
		{
			name:   "refresh unexpected error",
			svc:    &mockStatsService{refreshErr: errors.New("boom")},
			method: http.MethodPost, path: "/api/v1/refresh",
			status: http.StatusInternalServerError,
		},
		{
			name:   "refresh success",
			svc:    &mockStatsService{refreshed: sampleSnapshot()},
			method: http.MethodPost, path: "/api/v1/refresh",
			status: http.StatusOK,
			assert: func(t *testing.T, _ *mockStatsService, body []byte) {
				var out dto.StatsResponse
				_ = json.Unmarshal(body, &out)
				if out.Current.Date != "2025-03-03" {
					t.Fatalf("unexpected body: %+v", out)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setupRouterWithMock(tc.svc)
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.assert != nil {
				tc.assert(t, tc.svc, w.Body.Bytes())
			}
		})
	}
}
