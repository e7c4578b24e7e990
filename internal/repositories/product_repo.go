package repositories

import (
	"context"

	"stockpulse/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error)
}

type productRepo struct {
	db Database
}

func NewProductRepo(db Database) ProductRepository {
	return &productRepo{db: db}
}

// ListByTenant returns the tenant's catalog in a stable order so stock metrics come out
// in the same order on every run.
func (r *productRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Product, error) {
	query := `
		SELECT id, tenant_id, name, price, stock
		FROM products
		WHERE tenant_id = $1
		ORDER BY name ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
