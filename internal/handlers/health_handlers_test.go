package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

func serve(h *HealthHandlers, target string) *httptest.ResponseRecorder {
	e := echo.New()
	h.RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		db, cache  Pinger
		storage    Pinger
		wantStatus int
		wantState  string
		wantRedis  string
	}{
		{
			name: "all healthy", db: stubPinger{}, cache: stubPinger{}, storage: stubPinger{},
			wantStatus: http.StatusOK, wantState: "healthy", wantRedis: "healthy",
		},
		{
			name: "redis down", db: stubPinger{}, cache: stubPinger{err: errors.New("refused")}, storage: stubPinger{},
			wantStatus: http.StatusPartialContent, wantState: "degraded", wantRedis: "unhealthy",
		},
		{
			name: "storage disabled", db: stubPinger{}, cache: stubPinger{}, storage: nil,
			wantStatus: http.StatusOK, wantState: "healthy", wantRedis: "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHealthHandlers(tt.db, tt.cache, tt.storage, "test"), "/health")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body HealthStatus
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Status)
			assert.Equal(t, tt.wantRedis, body.Services["redis"])
			assert.Equal(t, "test", body.Version)
		})
	}
}

func TestHealthCheck_StorageDisabledReported(t *testing.T) {
	rec := serve(NewHealthHandlers(stubPinger{}, stubPinger{}, nil, "test"), "/health")

	var body HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "disabled", body.Services["storage"])
}

func TestReadinessCheck(t *testing.T) {
	rec := serve(NewHealthHandlers(stubPinger{}, stubPinger{err: errors.New("refused")}, nil, "test"), "/health/ready")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(NewHealthHandlers(stubPinger{err: errors.New("refused")}, stubPinger{}, nil, "test"), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")
}

func TestLivenessCheck(t *testing.T) {
	rec := serve(NewHealthHandlers(nil, nil, nil, "test"), "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}
