package analytics

import (
	"context"
	"fmt"
	"time"

	"stockpulse/internal/caching"
	"stockpulse/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProductSource supplies the current catalog of a tenant.
type ProductSource interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error)
}

// OrderSource supplies the orders of a tenant created in (from, to].
type OrderSource interface {
	ListByTenantAndDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]models.Order, error)
}

// Recorder receives run telemetry. See internal/metrics for the Prometheus implementation.
type Recorder interface {
	ObserveRun(outcome string, elapsed time.Duration)
	ObserveInsights(insights []Insight)
	ObserveRejected(kind string, count int)
}

const (
	OutcomeCacheHit = "cache_hit"
	OutcomeComputed = "computed"
	OutcomeError    = "error"
)

// Dashboard is one computed view of a tenant's stock and sales.
type Dashboard struct {
	TenantID    uuid.UUID                 `json:"tenant_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Options     Options                   `json:"options"`
	Stock       []StockMetric             `json:"stock"`
	Sales       []SalesMetric             `json:"sales"`
	Insights    []Insight                 `json:"insights"`
	Summary     Summary                   `json:"summary"`
	Rejected    []*models.ValidationError `json:"rejected,omitempty"`
}

// AnalyticsService loads a tenant's products and orders, runs the analyzers and caches the result.
type AnalyticsService struct {
	productRepo  ProductSource
	orderRepo    OrderSource
	cacheService caching.CacheService
	recorder     Recorder
	cacheTTL     time.Duration
}

func NewAnalyticsService(productRepo ProductSource, orderRepo OrderSource, cacheService caching.CacheService, recorder Recorder, cacheTTL time.Duration) *AnalyticsService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &AnalyticsService{
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		cacheService: cacheService,
		recorder:     recorder,
		cacheTTL:     cacheTTL,
	}
}

// Dashboard returns the cached dashboard for the tenant and options, computing it on a miss.
// Cache failures are logged and never fail the call.
func (a *AnalyticsService) Dashboard(ctx context.Context, tenantID uuid.UUID, opts Options) (*Dashboard, error) {
	start := time.Now()
	opts = opts.normalized()
	variant := opts.cacheVariant()

	if a.cacheService != nil {
		var cached Dashboard
		hit, err := a.cacheService.GetDashboard(ctx, tenantID, variant, &cached)
		if err != nil {
			log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("dashboard cache read failed")
		} else if hit {
			a.recorder.ObserveRun(OutcomeCacheHit, time.Since(start))
			return &cached, nil
		}
	}

	dashboard, err := a.compute(ctx, tenantID, opts)
	if err != nil {
		a.recorder.ObserveRun(OutcomeError, time.Since(start))
		return nil, err
	}
	a.recorder.ObserveRun(OutcomeComputed, time.Since(start))
	a.recorder.ObserveInsights(dashboard.Insights)

	if a.cacheService != nil {
		if err := a.cacheService.SetDashboard(ctx, tenantID, variant, dashboard, a.cacheTTL); err != nil {
			log.Warn().Err(err).Str("tenant_id", tenantID.String()).Msg("dashboard cache write failed")
		}
	}
	return dashboard, nil
}

func (a *AnalyticsService) compute(ctx context.Context, tenantID uuid.UUID, opts Options) (*Dashboard, error) {
	products, err := a.productRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	stockOpts := opts.stockWindow()
	loadOpts := opts
	if stockOpts.WindowDays > loadOpts.WindowDays {
		loadOpts.WindowDays = stockOpts.WindowDays
	}
	orders, err := a.orderRepo.ListByTenantAndDateRange(ctx, tenantID, loadOpts.WindowStart(), opts.Now)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	products, rejectedProducts := models.PartitionProducts(products)
	orders, rejectedOrders := models.PartitionOrders(orders)
	rejected := append(rejectedProducts, rejectedOrders...)
	if len(rejected) > 0 {
		a.recorder.ObserveRejected("product", len(rejectedProducts))
		a.recorder.ObserveRejected("order", len(rejectedOrders))
		log.Warn().
			Str("tenant_id", tenantID.String()).
			Int("rejected_products", len(rejectedProducts)).
			Int("rejected_orders", len(rejectedOrders)).
			Msg("skipping invalid records")
	}

	// Sales cover the requested window; legacy velocity always sees the last four weeks.
	stock := AnalyzeStockWithOptions(products, ordersInWindow(orders, stockOpts), opts)
	sales := AnalyzeSalesTrends(ordersInWindow(orders, opts))
	insights := GenerateInsights(stock, sales)

	log.Debug().
		Str("tenant_id", tenantID.String()).
		Int("products", len(products)).
		Int("orders", len(orders)).
		Int("insights", len(insights)).
		Msg("dashboard computed")

	return &Dashboard{
		TenantID:    tenantID,
		GeneratedAt: opts.Now,
		Options:     opts,
		Stock:       stock,
		Sales:       sales,
		Insights:    insights,
		Summary:     Summarize(stock, sales),
		Rejected:    rejected,
	}, nil
}

// InvalidateTenantAnalyticsCache drops every cached dashboard of the tenant.
func (a *AnalyticsService) InvalidateTenantAnalyticsCache(ctx context.Context, tenantID uuid.UUID) error {
	if a.cacheService == nil {
		return nil
	}
	log.Info().Str("tenant_id", tenantID.String()).Msg("invalidating analytics cache")
	return a.cacheService.InvalidateTenantDashboards(ctx, tenantID)
}

type noopRecorder struct{}

func (noopRecorder) ObserveRun(string, time.Duration) {}
func (noopRecorder) ObserveInsights([]Insight)        {}
func (noopRecorder) ObserveRejected(string, int)      {}
