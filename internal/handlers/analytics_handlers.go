package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"stockpulse/internal/analytics"
	"stockpulse/internal/common"
	"stockpulse/internal/export"
	"stockpulse/internal/middleware"
	"stockpulse/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const maxWindowDays = 366

// DashboardService computes and caches tenant dashboards.
type DashboardService interface {
	Dashboard(ctx context.Context, tenantID uuid.UUID, opts analytics.Options) (*analytics.Dashboard, error)
	InvalidateTenantAnalyticsCache(ctx context.Context, tenantID uuid.UUID) error
}

// ReportGenerator renders and archives PDF reports.
type ReportGenerator interface {
	Render(dashboard *analytics.Dashboard) ([]byte, error)
	StoreReport(ctx context.Context, dashboard *analytics.Dashboard) (*services.StoredReport, error)
}

// AnalyticsHandlers serves the stock and sales analytics of the tenant in the request context.
type AnalyticsHandlers struct {
	analyticsService DashboardService
	reports          ReportGenerator
	defaults         analytics.Options
}

func NewAnalyticsHandlers(analyticsService DashboardService, reports ReportGenerator, defaults analytics.Options) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyticsService: analyticsService,
		reports:          reports,
		defaults:         defaults,
	}
}

func (h *AnalyticsHandlers) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.GetDashboard)
	g.GET("/stock", h.GetStock)
	g.GET("/sales", h.GetSales)
	g.GET("/insights", h.GetInsights)
	g.GET("/export/stock.csv", h.ExportStock)
	g.GET("/export/sales.csv", h.ExportSales)
	g.GET("/report.pdf", h.GetReport)
	g.DELETE("/cache", h.InvalidateCache)
}

// paramError reports an invalid query parameter or header.
type paramError struct {
	field   string
	message string
}

func (e *paramError) Error() string {
	return e.field + ": " + e.message
}

// parseOptions overlays the days, velocity_mode and line_match query parameters on the defaults.
func (h *AnalyticsHandlers) parseOptions(c echo.Context) (analytics.Options, error) {
	opts := h.defaults

	if raw := c.QueryParam("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return opts, &paramError{field: "days", message: "must be an integer"}
		}
		if err := common.ValidatePositiveInteger(days, "days", maxWindowDays); err != nil {
			return opts, &paramError{field: "days", message: err.Error()}
		}
		opts.WindowDays = days
	}
	if raw := c.QueryParam("velocity_mode"); raw != "" {
		mode, err := analytics.ParseVelocityMode(raw)
		if err != nil {
			return opts, &paramError{field: "velocity_mode", message: err.Error()}
		}
		opts.VelocityMode = mode
	}
	if raw := c.QueryParam("line_match"); raw != "" {
		match, err := analytics.ParseLineMatch(raw)
		if err != nil {
			return opts, &paramError{field: "line_match", message: err.Error()}
		}
		opts.LineMatch = match
	}
	return opts, nil
}

func (h *AnalyticsHandlers) loadDashboard(c echo.Context) (*analytics.Dashboard, error) {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return nil, &paramError{field: middleware.TenantHeader, message: "tenant is required"}
	}

	opts, err := h.parseOptions(c)
	if err != nil {
		return nil, err
	}

	dashboard, err := h.analyticsService.Dashboard(ctx, tenantID, opts)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("failed to build dashboard")
		return nil, err
	}
	return dashboard, nil
}

// fail maps a loadDashboard error to the error envelope.
func fail(c echo.Context, err error) error {
	var pe *paramError
	if errors.As(err, &pe) {
		return common.SendValidationError(c, pe.field, pe.message)
	}
	return common.SendServerError(c, "Failed to compute analytics")
}

// GetDashboard handler
func (h *AnalyticsHandlers) GetDashboard(c echo.Context) error {
	dashboard, err := h.loadDashboard(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dashboard)
}

// GetStock handler. Accepts an optional status filter.
func (h *AnalyticsHandlers) GetStock(c echo.Context) error {
	status := analytics.StockStatus(c.QueryParam("status"))
	switch status {
	case "", analytics.StatusHealthy, analytics.StatusRisk, analytics.StatusOverstock:
	default:
		return common.SendValidationError(c, "status", "status must be one of: healthy, risk, overstock")
	}

	dashboard, err := h.loadDashboard(c)
	if err != nil {
		return fail(c, err)
	}

	stock := dashboard.Stock
	if status != "" {
		stock = make([]analytics.StockMetric, 0, len(dashboard.Stock))
		for _, m := range dashboard.Stock {
			if m.Status == status {
				stock = append(stock, m)
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"generated_at": dashboard.GeneratedAt,
		"options":      dashboard.Options,
		"stock":        stock,
	})
}

// GetSales handler
func (h *AnalyticsHandlers) GetSales(c echo.Context) error {
	dashboard, err := h.loadDashboard(c)
	if err != nil {
		return fail(c, err)
	}

	resp := map[string]interface{}{
		"generated_at": dashboard.GeneratedAt,
		"sales":        dashboard.Sales,
	}
	if trend, ok := analytics.ComputeTrend(dashboard.Sales); ok {
		resp["trend"] = trend
	}
	return c.JSON(http.StatusOK, resp)
}

// GetInsights handler
func (h *AnalyticsHandlers) GetInsights(c echo.Context) error {
	dashboard, err := h.loadDashboard(c)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"generated_at": dashboard.GeneratedAt,
		"insights":     dashboard.Insights,
		"summary":      dashboard.Summary,
	})
}

// ExportStock handler
func (h *AnalyticsHandlers) ExportStock(c echo.Context) error {
	dashboard, err := h.loadDashboard(c)
	if err != nil {
		return fail(c, err)
	}
	result, err := export.ExportStock(dashboard.TenantID, dashboard.Stock, dashboard.GeneratedAt)
	if err != nil {
		log.Error().Err(err).Msg("stock export failed")
		return common.SendServerError(c, "Failed to export stock")
	}
	return sendCSV(c, result)
}

// ExportSales handler
func (h *AnalyticsHandlers) ExportSales(c echo.Context) error {
	dashboard, err := h.loadDashboard(c)
	if err != nil {
		return fail(c, err)
	}
	result, err := export.ExportSales(dashboard.TenantID, dashboard.Sales, dashboard.GeneratedAt)
	if err != nil {
		log.Error().Err(err).Msg("sales export failed")
		return common.SendServerError(c, "Failed to export sales")
	}
	return sendCSV(c, result)
}

func sendCSV(c echo.Context, result *export.ExportResult) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+result.FileName)
	c.Response().Header().Set("X-Records-Exported", strconv.Itoa(result.RecordsExported))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(result.FileContent))
}

// GetReport renders the PDF report. With store=true it is uploaded and a download link is returned instead.
func (h *AnalyticsHandlers) GetReport(c echo.Context) error {
	store, _ := strconv.ParseBool(c.QueryParam("store"))

	dashboard, err := h.loadDashboard(c)
	if err != nil {
		return fail(c, err)
	}

	if store {
		stored, err := h.reports.StoreReport(c.Request().Context(), dashboard)
		if errors.Is(err, services.ErrStorageDisabled) {
			return common.SendUnavailableError(c, "Report storage is not configured")
		}
		if err != nil {
			log.Error().Err(err).Str("tenant_id", dashboard.TenantID.String()).Msg("report upload failed")
			return common.SendServerError(c, "Failed to store report")
		}
		return c.JSON(http.StatusCreated, stored)
	}

	data, err := h.reports.Render(dashboard)
	if err != nil {
		log.Error().Err(err).Str("tenant_id", dashboard.TenantID.String()).Msg("report rendering failed")
		return common.SendServerError(c, "Failed to render report")
	}
	fileName := export.FileName("report", dashboard.TenantID, dashboard.GeneratedAt, "pdf")
	c.Response().Header().Set(echo.HeaderContentDisposition, "inline; filename="+fileName)
	return c.Blob(http.StatusOK, services.ContentTypePDF, data)
}

// InvalidateCache drops the tenant's cached dashboards
func (h *AnalyticsHandlers) InvalidateCache(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := middleware.GetTenantIDFromContext(ctx)
	if !ok {
		return common.SendValidationError(c, middleware.TenantHeader, "tenant is required")
	}

	if err := h.analyticsService.InvalidateTenantAnalyticsCache(ctx, tenantID); err != nil {
		log.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("cache invalidation failed")
		return common.SendServerError(c, "Failed to invalidate analytics cache")
	}
	return c.NoContent(http.StatusNoContent)
}
