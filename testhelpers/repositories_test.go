package testhelpers

import (
	"context"
	"testing"
	"time"

	"stockpulse/internal/analytics"
	"stockpulse/internal/models"
	"stockpulse/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositories_AgainstPostgres(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup()

	tenantID := SetupTestTenant(t, testDB)
	now := time.Now().UTC().Truncate(time.Second)

	SetupTestProduct(t, testDB, tenantID, models.Product{ID: "sku-2", Name: "Souris", Price: 15, Stock: 0})
	SetupTestProduct(t, testDB, tenantID, models.Product{ID: "sku-1", Name: "Clavier", Price: 45, Stock: 100})

	SetupTestOrder(t, testDB, tenantID, models.Order{
		ID: "ord-1", Total: 105, CreatedAt: now.AddDate(0, 0, -3),
		Items: []models.OrderItem{
			{ProductID: "sku-1", Name: "Clavier", Price: 45, Quantity: 2},
			{ProductID: "sku-2", Name: "Souris", Price: 15, Quantity: 1},
		},
	})
	SetupTestOrder(t, testDB, tenantID, models.Order{
		ID: "ord-2", Total: 12.5, CreatedAt: now.AddDate(0, 0, -1),
	})
	SetupTestOrder(t, testDB, tenantID, models.Order{
		ID: "ord-old", Total: 999, CreatedAt: now.AddDate(0, -3, 0),
		Items: []models.OrderItem{{ProductID: "sku-1", Name: "Clavier", Price: 45, Quantity: 50}},
	})

	ctx := context.Background()

	t.Run("ListByTenant", func(t *testing.T) {
		products, err := repositories.NewProductRepo(testDB.Pool).ListByTenant(ctx, tenantID)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, "Clavier", products[0].Name)
		assert.Equal(t, tenantID, products[0].TenantID)
		assert.Zero(t, products[1].Stock)
	})

	t.Run("ListByTenantAndDateRange", func(t *testing.T) {
		orders, err := repositories.NewOrderRepo(testDB.Pool).
			ListByTenantAndDateRange(ctx, tenantID, now.AddDate(0, 0, -28), now)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "ord-1", orders[0].ID)
		require.Len(t, orders[0].Items, 2)
		assert.Equal(t, "sku-1", orders[0].Items[0].ProductID)
		assert.Equal(t, "ord-2", orders[1].ID)
		assert.Empty(t, orders[1].Items)
	})

	t.Run("ListActiveIDs", func(t *testing.T) {
		ids, err := repositories.NewTenantRepo(testDB.Pool).ListActiveIDs(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, tenantID)
	})

	t.Run("Dashboard", func(t *testing.T) {
		service := analytics.NewAnalyticsService(
			repositories.NewProductRepo(testDB.Pool),
			repositories.NewOrderRepo(testDB.Pool),
			nil, nil, time.Minute,
		)

		dashboard, err := service.Dashboard(ctx, tenantID, analytics.Options{Now: now})
		require.NoError(t, err)
		require.Len(t, dashboard.Stock, 2)
		// Legacy divisor: 2 units over four weeks.
		assert.Equal(t, 0.5, dashboard.Stock[0].SalesVelocity)
		assert.Equal(t, analytics.StatusRisk, dashboard.Stock[1].Status)
		assert.Equal(t, 117.5, dashboard.Summary.TotalRevenue)
	})
}
