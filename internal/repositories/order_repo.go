package repositories

import (
	"context"
	"time"

	"stockpulse/internal/models"

	"github.com/google/uuid"
)

type OrderRepository interface {
	ListByTenantAndDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]models.Order, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

// ListByTenantAndDateRange returns the orders created in (from, to] with their lines in
// checkout order. Orders without lines are returned with an empty item list.
func (r *orderRepo) ListByTenantAndDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]models.Order, error) {
	query := `
		SELECT o.id, o.tenant_id, o.total, o.created_at,
			COALESCE(i.product_id, ''), COALESCE(i.name, ''), COALESCE(i.unit_price, 0), COALESCE(i.quantity, 0)
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id AND i.tenant_id = o.tenant_id
		WHERE o.tenant_id = $1 AND o.created_at > $2 AND o.created_at <= $3
		ORDER BY o.created_at ASC, o.id ASC, i.position ASC
	`
	rows, err := r.db.Query(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var (
			o    models.Order
			item models.OrderItem
		)
		if err := rows.Scan(&o.ID, &o.TenantID, &o.Total, &o.CreatedAt,
			&item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}

		if n := len(orders); n == 0 || orders[n-1].ID != o.ID {
			o.Items = []models.OrderItem{}
			orders = append(orders, o)
		}
		if item.ProductID != "" {
			last := &orders[len(orders)-1]
			last.Items = append(last.Items, item)
		}
	}
	return orders, rows.Err()
}
