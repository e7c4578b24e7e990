package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"stockpulse/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

const schema = `
CREATE TABLE IF NOT EXISTS tenants (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS products (
	id TEXT NOT NULL,
	tenant_id UUID NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL,
	stock INTEGER NOT NULL,
	PRIMARY KEY (tenant_id, id)
);
CREATE TABLE IF NOT EXISTS orders (
	id TEXT NOT NULL,
	tenant_id UUID NOT NULL REFERENCES tenants(id) ON DELETE CASCADE,
	total DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (tenant_id, id)
);
CREATE TABLE IF NOT EXISTS order_items (
	order_id TEXT NOT NULL,
	tenant_id UUID NOT NULL,
	position INTEGER NOT NULL,
	product_id TEXT NOT NULL,
	name TEXT NOT NULL,
	unit_price DOUBLE PRECISION NOT NULL,
	quantity INTEGER NOT NULL,
	PRIMARY KEY (tenant_id, order_id, position),
	FOREIGN KEY (tenant_id, order_id) REFERENCES orders(tenant_id, id) ON DELETE CASCADE
);
`

// SetupTestDB connects to TEST_DATABASE_URL and creates the analytics tables.
// The test is skipped when the variable is unset or in short mode.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if _, err := pool.Exec(context.Background(), schema); err != nil {
		pool.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestTenant creates an active tenant and removes it, with its rows, when the test ends.
func SetupTestTenant(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	tenantID := uuid.New()
	query := `
		INSERT INTO tenants (id, name, status, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := db.Pool.Exec(context.Background(), query, tenantID, "Test Tenant "+tenantID.String()[:8], "active", time.Now())
	if err != nil {
		t.Fatalf("Failed to create test tenant: %v", err)
	}

	t.Cleanup(func() {
		_, _ = db.Pool.Exec(context.Background(), `DELETE FROM tenants WHERE id = $1`, tenantID)
	})
	return tenantID
}

// SetupTestProduct inserts p for the tenant.
func SetupTestProduct(t *testing.T, db *TestDB, tenantID uuid.UUID, p models.Product) models.Product {
	t.Helper()

	p.TenantID = tenantID
	query := `
		INSERT INTO products (id, tenant_id, name, price, stock)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := db.Pool.Exec(context.Background(), query, p.ID, p.TenantID, p.Name, p.Price, p.Stock)
	if err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return p
}

// SetupTestOrder inserts o and its lines, keeping the line order.
func SetupTestOrder(t *testing.T, db *TestDB, tenantID uuid.UUID, o models.Order) models.Order {
	t.Helper()

	o.TenantID = tenantID
	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO orders (id, tenant_id, total, created_at)
		VALUES ($1, $2, $3, $4)
	`, o.ID, o.TenantID, o.Total, o.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}

	for i, item := range o.Items {
		_, err := db.Pool.Exec(ctx, `
			INSERT INTO order_items (order_id, tenant_id, position, product_id, name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, o.ID, o.TenantID, i, item.ProductID, item.Name, item.Price, item.Quantity)
		if err != nil {
			t.Fatalf("Failed to create test order item: %v", err)
		}
	}
	return o
}
