package jobs

import (
	"context"
	"fmt"

	"stockpulse/internal/analytics"
	"stockpulse/internal/events"
	"stockpulse/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StockAlertService publishes the warning insights of tenant dashboards as events.
type StockAlertService struct {
	analyticsService DashboardProvider
	tenantRepo       repositories.TenantRepository
	publisher        events.InsightPublisher
	opts             analytics.Options
}

type StockAlertResult struct {
	TenantsChecked  int
	AlertsPublished int
	Failures        map[uuid.UUID]error
}

func NewStockAlertService(analyticsService DashboardProvider, tenantRepo repositories.TenantRepository, publisher events.InsightPublisher, opts analytics.Options) *StockAlertService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &StockAlertService{
		analyticsService: analyticsService,
		tenantRepo:       tenantRepo,
		publisher:        publisher,
		opts:             opts,
	}
}

// BuildAlerts turns every warning insight of the dashboard into an event. Stock warnings carry
// the at-risk products so consumers do not need to reload the dashboard. Sales warnings are
// published as sales.alert.
func BuildAlerts(dashboard *analytics.Dashboard) []events.InsightEvent {
	alerts := make([]events.InsightEvent, 0)
	for _, insight := range dashboard.Insights {
		if insight.Type != analytics.InsightWarning {
			continue
		}
		eventType := events.EventTypeSalesAlert
		if insight.Category == analytics.CategoryStock {
			eventType = events.EventTypeStockAlert
		}
		event := events.InsightEvent{
			EventType:   eventType,
			TenantID:    dashboard.TenantID,
			GeneratedAt: dashboard.GeneratedAt,
			Insight:     insight,
		}
		if insight.Category == analytics.CategoryStock {
			for _, m := range dashboard.Stock {
				if m.Status == analytics.StatusRisk {
					event.Products = append(event.Products, m)
				}
			}
		}
		alerts = append(alerts, event)
	}
	return alerts
}

// ProcessTenantAlerts publishes the tenant's current warnings and returns how many were sent.
func (s *StockAlertService) ProcessTenantAlerts(ctx context.Context, tenantID uuid.UUID) (int, error) {
	dashboard, err := s.analyticsService.Dashboard(ctx, tenantID, s.opts)
	if err != nil {
		return 0, fmt.Errorf("load dashboard: %w", err)
	}

	published := 0
	for _, alert := range BuildAlerts(dashboard) {
		if err := s.publisher.PublishInsight(ctx, alert); err != nil {
			return published, fmt.Errorf("publish %s alert: %w", alert.Insight.Category, err)
		}
		published++
	}

	if published > 0 {
		log.Info().Str("tenant_id", tenantID.String()).Int("alerts", published).Msg("stock alerts published")
	}
	return published, nil
}

// ProcessAllTenantAlerts sweeps every active tenant, continuing past individual failures.
func (s *StockAlertService) ProcessAllTenantAlerts(ctx context.Context) (*StockAlertResult, error) {
	tenantIDs, err := s.tenantRepo.ListActiveIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active tenants: %w", err)
	}

	result := &StockAlertResult{Failures: make(map[uuid.UUID]error)}
	for _, tenantID := range tenantIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.TenantsChecked++
		n, err := s.ProcessTenantAlerts(ctx, tenantID)
		result.AlertsPublished += n
		if err != nil {
			result.Failures[tenantID] = err
			log.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("stock alert processing failed")
		}
	}

	log.Info().
		Int("tenants", result.TenantsChecked).
		Int("alerts", result.AlertsPublished).
		Int("failed", len(result.Failures)).
		Msg("completed stock alert sweep")
	return result, nil
}
