package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"stockpulse/internal/analytics"
	"stockpulse/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultRefreshConcurrency = 5

// DashboardProvider is the slice of analytics.AnalyticsService the jobs depend on.
type DashboardProvider interface {
	Dashboard(ctx context.Context, tenantID uuid.UUID, opts analytics.Options) (*analytics.Dashboard, error)
	InvalidateTenantAnalyticsCache(ctx context.Context, tenantID uuid.UUID) error
}

type AnalyticsRefreshService struct {
	analyticsService DashboardProvider
	tenantRepo       repositories.TenantRepository
	opts             analytics.Options
	concurrency      int
}

type AnalyticsRefreshResult struct {
	TenantsProcessed int
	TenantsFailed    int
	Failures         map[uuid.UUID]error
	LastRefreshAt    time.Time
}

func NewAnalyticsRefreshService(analyticsService DashboardProvider, tenantRepo repositories.TenantRepository, opts analytics.Options, concurrency int) *AnalyticsRefreshService {
	if concurrency <= 0 {
		concurrency = defaultRefreshConcurrency
	}
	return &AnalyticsRefreshService{
		analyticsService: analyticsService,
		tenantRepo:       tenantRepo,
		opts:             opts,
		concurrency:      concurrency,
	}
}

// RefreshAnalyticsForTenant drops the tenant's cached dashboards and recomputes the default one.
func (a *AnalyticsRefreshService) RefreshAnalyticsForTenant(ctx context.Context, tenantID uuid.UUID) (*analytics.Dashboard, error) {
	if err := a.analyticsService.InvalidateTenantAnalyticsCache(ctx, tenantID); err != nil {
		log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("failed to invalidate analytics cache")
	}

	dashboard, err := a.analyticsService.Dashboard(ctx, tenantID, a.opts)
	if err != nil {
		return nil, fmt.Errorf("refresh tenant %s: %w", tenantID, err)
	}

	log.Info().
		Str("tenant_id", tenantID.String()).
		Int("products", len(dashboard.Stock)).
		Int("risk", dashboard.Summary.RiskCount).
		Int("overstock", dashboard.Summary.OverstockCount).
		Float64("revenue", dashboard.Summary.TotalRevenue).
		Msg("analytics refreshed")
	return dashboard, nil
}

// RefreshAllTenantsAnalytics refreshes every active tenant.
func (a *AnalyticsRefreshService) RefreshAllTenantsAnalytics(ctx context.Context) (*AnalyticsRefreshResult, error) {
	tenantIDs, err := a.tenantRepo.ListActiveIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active tenants: %w", err)
	}
	return a.RefreshTenants(ctx, tenantIDs), nil
}

// RefreshTenants refreshes the given tenants in parallel. A failing tenant never stops the others.
func (a *AnalyticsRefreshService) RefreshTenants(ctx context.Context, tenantIDs []uuid.UUID) *AnalyticsRefreshResult {
	log.Info().Int("tenants", len(tenantIDs)).Msg("starting analytics refresh")

	result := &AnalyticsRefreshResult{Failures: make(map[uuid.UUID]error)}
	semaphore := make(chan struct{}, a.concurrency)
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, tenantID := range tenantIDs {
		wg.Add(1)
		go func(tenantID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			_, err := a.RefreshAnalyticsForTenant(ctx, tenantID)

			mu.Lock()
			defer mu.Unlock()
			result.TenantsProcessed++
			if err != nil {
				result.TenantsFailed++
				result.Failures[tenantID] = err
				log.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("analytics refresh failed")
			}
		}(tenantID)
	}

	wg.Wait()
	result.LastRefreshAt = time.Now().UTC()

	log.Info().
		Int("processed", result.TenantsProcessed).
		Int("failed", result.TenantsFailed).
		Msg("completed analytics refresh")
	return result
}
