package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stockpulse/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestTenantMiddleware(t *testing.T) {
	tenantID := uuid.New()

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid tenant", header: tenantID.String(), wantStatus: http.StatusOK},
		{name: "missing header", header: "", wantStatus: http.StatusBadRequest},
		{name: "malformed header", header: "not-a-uuid", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/analytics/stock", nil)
			if tt.header != "" {
				req.Header.Set(TenantHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen uuid.UUID
			handler := TenantMiddleware()(func(c echo.Context) error {
				seen, _ = common.GetTenantIDFromContext(c.Request().Context())
				return c.NoContent(http.StatusOK)
			})

			assert.NoError(t, handler(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tenantID, seen)
				assert.Equal(t, tenantID.String(), rec.Header().Get(TenantHeader))
			} else {
				assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
			}
		})
	}
}

func TestVersionRoute_SetsHeaders(t *testing.T) {
	e := echo.New()
	vm := NewVersionMiddleware()
	vm.VersionRoute(e, "v1").GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
	assert.Empty(t, rec.Header().Get("X-API-Deprecated"))
}

func TestVersionHeader_Deprecated(t *testing.T) {
	sunset := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	vm := NewVersionMiddleware()
	vm.AddVersion("v0", "deprecated", "Use v1", &sunset)

	e := echo.New()
	vm.VersionRoute(e, "v0").GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v0/ping", nil))

	assert.Equal(t, "true", rec.Header().Get("X-API-Deprecated"))
	assert.Equal(t, "2027-01-01T00:00:00Z", rec.Header().Get("X-API-Sunset"))
}

func TestAPIVersionResolver(t *testing.T) {
	vm := NewVersionMiddleware()

	tests := []struct {
		path       string
		wantStatus int
	}{
		{path: "/v1/analytics/stock", wantStatus: http.StatusOK},
		{path: "/v9/analytics/stock", wantStatus: http.StatusNotFound},
		{path: "/health", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, tt.path, nil), rec)

			handler := vm.APIVersionResolver()(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})

			assert.NoError(t, handler(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestExtractVersionFromPath(t *testing.T) {
	assert.Equal(t, "v1", extractVersionFromPath("/v1"))
	assert.Equal(t, "v12", extractVersionFromPath("/v12/analytics"))
	assert.Equal(t, "", extractVersionFromPath("/vendors"))
	assert.Equal(t, "", extractVersionFromPath("/metrics"))
}
