package handlers

import (
	"context"
	"errors"
	"net/http"

	"stockpulse/internal/analytics"
	"stockpulse/internal/common"
	"stockpulse/internal/jobs"
	"stockpulse/internal/jobs/background"
	"stockpulse/internal/middleware"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type TenantRefresher interface {
	RefreshAnalyticsForTenant(ctx context.Context, tenantID uuid.UUID) (*analytics.Dashboard, error)
}

type TenantAlerter interface {
	ProcessTenantAlerts(ctx context.Context, tenantID uuid.UUID) (int, error)
}

type JobStatusProvider interface {
	GetJobStatus() []background.JobStatus
	RunNow(name string) error
}

type JobHandlers struct {
	analyticsRefresh TenantRefresher
	stockAlerts      TenantAlerter
	analyticsService DashboardService
	scheduler        JobStatusProvider
	defaults         analytics.Options
}

func NewJobHandlers(analyticsRefresh TenantRefresher, stockAlerts TenantAlerter, analyticsService DashboardService, scheduler JobStatusProvider, defaults analytics.Options) *JobHandlers {
	return &JobHandlers{
		analyticsRefresh: analyticsRefresh,
		stockAlerts:      stockAlerts,
		analyticsService: analyticsService,
		scheduler:        scheduler,
		defaults:         defaults,
	}
}

func (h *JobHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetJobStatus)
	g.POST("/:name/run", h.RunJob)
	g.POST("/analytics-refresh", h.TriggerAnalyticsRefresh)
	g.GET("/alerts", h.GetStockAlerts)
	g.POST("/alerts", h.PublishStockAlerts)
}

// GetJobStatus handler
func (h *JobHandlers) GetJobStatus(c echo.Context) error {
	statuses := []background.JobStatus{}
	if h.scheduler != nil {
		statuses = h.scheduler.GetJobStatus()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"total_jobs": len(statuses),
		"jobs":       statuses,
	})
}

// RunJob triggers a scheduled job outside its interval. The job runs asynchronously.
func (h *JobHandlers) RunJob(c echo.Context) error {
	name := c.Param("name")
	if h.scheduler == nil {
		return common.SendUnavailableError(c, "Job scheduler is disabled")
	}

	if err := h.scheduler.RunNow(name); err != nil {
		if errors.Is(err, background.ErrJobNotFound) {
			return common.SendNotFoundError(c, "job "+name)
		}
		log.Error().Err(err).Str("job", name).Msg("failed to trigger job")
		return common.SendServerError(c, "Failed to trigger job")
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "Job triggered",
		"job":     name,
	})
}

// TriggerAnalyticsRefresh handler
func (h *JobHandlers) TriggerAnalyticsRefresh(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendValidationError(c, middleware.TenantHeader, "tenant is required")
	}

	dashboard, err := h.analyticsRefresh.RefreshAnalyticsForTenant(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("manual analytics refresh failed")
		return common.SendServerError(c, "Failed to refresh analytics")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":      "Analytics refresh completed successfully",
		"generated_at": dashboard.GeneratedAt,
		"summary":      dashboard.Summary,
	})
}

// GetStockAlerts previews the alerts the sweep would publish for the tenant
func (h *JobHandlers) GetStockAlerts(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendValidationError(c, middleware.TenantHeader, "tenant is required")
	}

	dashboard, err := h.analyticsService.Dashboard(ctx, tenantID, h.defaults)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("failed to load dashboard for alerts")
		return common.SendServerError(c, "Failed to check stock alerts")
	}

	alerts := jobs.BuildAlerts(dashboard)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// PublishStockAlerts handler
func (h *JobHandlers) PublishStockAlerts(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendValidationError(c, middleware.TenantHeader, "tenant is required")
	}

	published, err := h.stockAlerts.ProcessTenantAlerts(ctx, tenantID)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID.String()).Int("published", published).Msg("stock alert publishing failed")
		return common.SendServerError(c, "Failed to publish stock alerts")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Stock alerts processed",
		"published": published,
	})
}
