package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"stockpulse/internal/analytics"
	"stockpulse/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type StockAlertServiceTestSuite struct {
	suite.Suite
	mockAnalytics  *MockDashboardProvider
	mockTenantRepo *MockTenantRepository
	mockPublisher  *MockPublisher
	service        *StockAlertService
	opts           analytics.Options
	tenantID       uuid.UUID
}

func (suite *StockAlertServiceTestSuite) SetupTest() {
	suite.mockAnalytics = &MockDashboardProvider{}
	suite.mockTenantRepo = &MockTenantRepository{}
	suite.mockPublisher = &MockPublisher{}
	suite.opts = analytics.DefaultOptions()
	suite.service = NewStockAlertService(suite.mockAnalytics, suite.mockTenantRepo, suite.mockPublisher, suite.opts)
	suite.tenantID = uuid.New()
}

func (suite *StockAlertServiceTestSuite) TearDownTest() {
	suite.mockAnalytics.AssertExpectations(suite.T())
	suite.mockTenantRepo.AssertExpectations(suite.T())
	suite.mockPublisher.AssertExpectations(suite.T())
}

func (suite *StockAlertServiceTestSuite) dashboard() *analytics.Dashboard {
	return &analytics.Dashboard{
		TenantID:    suite.tenantID,
		GeneratedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		Stock: []analytics.StockMetric{
			{ProductID: "p1", ProductName: "Café", Status: analytics.StatusRisk},
			{ProductID: "p2", ProductName: "Thé", Status: analytics.StatusHealthy},
		},
		Insights: []analytics.Insight{
			{Type: analytics.InsightWarning, Category: analytics.CategoryStock, Message: "1 produit(s) en risque de rupture de stock"},
			{Type: analytics.InsightInfo, Category: analytics.CategoryFinance, Message: "Surstock"},
			{Type: analytics.InsightWarning, Category: analytics.CategorySales, Message: "Ventes en baisse"},
		},
	}
}

func (suite *StockAlertServiceTestSuite) TestBuildAlerts_OnlyWarnings() {
	alerts := BuildAlerts(suite.dashboard())

	assert.Len(suite.T(), alerts, 2)
	assert.Equal(suite.T(), analytics.CategoryStock, alerts[0].Insight.Category)
	assert.Equal(suite.T(), events.EventTypeStockAlert, alerts[0].EventType)
	assert.Len(suite.T(), alerts[0].Products, 1)
	assert.Equal(suite.T(), "p1", alerts[0].Products[0].ProductID)
	assert.Equal(suite.T(), analytics.CategorySales, alerts[1].Insight.Category)
	assert.Equal(suite.T(), events.EventTypeSalesAlert, alerts[1].EventType)
	assert.Empty(suite.T(), alerts[1].Products)
	for _, alert := range alerts {
		assert.Equal(suite.T(), suite.tenantID, alert.TenantID)
	}
}

func (suite *StockAlertServiceTestSuite) TestBuildAlerts_NoInsights() {
	alerts := BuildAlerts(&analytics.Dashboard{TenantID: suite.tenantID})
	assert.NotNil(suite.T(), alerts)
	assert.Empty(suite.T(), alerts)
}

func (suite *StockAlertServiceTestSuite) TestProcessTenantAlerts_EventTypesByCategory() {
	ctx := context.Background()
	suite.mockAnalytics.On("Dashboard", ctx, suite.tenantID, suite.opts).Return(suite.dashboard(), nil).Once()
	suite.mockPublisher.On("PublishInsight", ctx, mock.MatchedBy(func(e events.InsightEvent) bool {
		return e.Insight.Category == analytics.CategoryStock && e.EventType == events.EventTypeStockAlert
	})).Return(nil).Once()
	suite.mockPublisher.On("PublishInsight", ctx, mock.MatchedBy(func(e events.InsightEvent) bool {
		return e.Insight.Category == analytics.CategorySales && e.EventType == events.EventTypeSalesAlert
	})).Return(nil).Once()

	n, err := suite.service.ProcessTenantAlerts(ctx, suite.tenantID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, n)
}

func (suite *StockAlertServiceTestSuite) TestProcessTenantAlerts_PublishesWarnings() {
	ctx := context.Background()
	suite.mockAnalytics.On("Dashboard", ctx, suite.tenantID, suite.opts).Return(suite.dashboard(), nil).Once()
	suite.mockPublisher.On("PublishInsight", ctx, mock.AnythingOfType("events.InsightEvent")).Return(nil).Twice()

	n, err := suite.service.ProcessTenantAlerts(ctx, suite.tenantID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, n)
}

func (suite *StockAlertServiceTestSuite) TestProcessTenantAlerts_PublishError() {
	ctx := context.Background()
	suite.mockAnalytics.On("Dashboard", ctx, suite.tenantID, suite.opts).Return(suite.dashboard(), nil).Once()
	suite.mockPublisher.On("PublishInsight", ctx, mock.Anything).Return(errors.New("broker unavailable")).Once()

	n, err := suite.service.ProcessTenantAlerts(ctx, suite.tenantID)
	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), 0, n)
	assert.Contains(suite.T(), err.Error(), "broker unavailable")
}

func (suite *StockAlertServiceTestSuite) TestProcessAllTenantAlerts_ContinuesPastFailures() {
	ctx := context.Background()
	badTenant := uuid.New()

	suite.mockTenantRepo.On("ListActiveIDs", ctx).Return([]uuid.UUID{badTenant, suite.tenantID}, nil).Once()
	suite.mockAnalytics.On("Dashboard", ctx, badTenant, suite.opts).Return(nil, errors.New("load products: timeout")).Once()
	suite.mockAnalytics.On("Dashboard", ctx, suite.tenantID, suite.opts).Return(suite.dashboard(), nil).Once()
	suite.mockPublisher.On("PublishInsight", ctx, mock.Anything).Return(nil).Twice()

	result, err := suite.service.ProcessAllTenantAlerts(ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, result.TenantsChecked)
	assert.Equal(suite.T(), 2, result.AlertsPublished)
	assert.Contains(suite.T(), result.Failures, badTenant)
}

func (suite *StockAlertServiceTestSuite) TestNilPublisherFallsBackToNoop() {
	ctx := context.Background()
	service := NewStockAlertService(suite.mockAnalytics, suite.mockTenantRepo, nil, suite.opts)
	suite.mockAnalytics.On("Dashboard", ctx, suite.tenantID, suite.opts).Return(suite.dashboard(), nil).Once()

	n, err := service.ProcessTenantAlerts(ctx, suite.tenantID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, n)
}

func TestStockAlertServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StockAlertServiceTestSuite))
}
