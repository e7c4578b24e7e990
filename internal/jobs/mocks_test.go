package jobs

import (
	"context"

	"stockpulse/internal/analytics"
	"stockpulse/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDashboardProvider mocks the analytics service for testing
type MockDashboardProvider struct {
	mock.Mock
}

func (m *MockDashboardProvider) Dashboard(ctx context.Context, tenantID uuid.UUID, opts analytics.Options) (*analytics.Dashboard, error) {
	args := m.Called(ctx, tenantID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analytics.Dashboard), args.Error(1)
}

func (m *MockDashboardProvider) InvalidateTenantAnalyticsCache(ctx context.Context, tenantID uuid.UUID) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

// MockTenantRepository mocks the TenantRepository interface for testing
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockPublisher mocks the InsightPublisher interface for testing
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishInsight(ctx context.Context, event events.InsightEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}
