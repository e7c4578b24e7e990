package models

import (
	"github.com/google/uuid"
)

// Product is a catalog entry as seen by the analytics engine. Stock is the on-hand unit count.
type Product struct {
	ID       string    `json:"id" db:"id" validate:"required"`
	TenantID uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name     string    `json:"name" db:"name" validate:"required"`
	Price    float64   `json:"price" db:"price" validate:"gte=0"`
	Stock    int       `json:"stock" db:"stock" validate:"gte=0"`
}

// InventoryValue returns price * stock for the product.
func (p Product) InventoryValue() float64 {
	return p.Price * float64(p.Stock)
}
