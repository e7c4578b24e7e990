package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is a placed order with its line items. Total is trusted as supplied: it already
// includes shipping and is never recomputed from the items.
type Order struct {
	ID        string      `json:"id" db:"id" validate:"required"`
	TenantID  uuid.UUID   `json:"tenant_id" db:"tenant_id"`
	Items     []OrderItem `json:"items" validate:"dive"`
	Total     float64     `json:"total" db:"total" validate:"gte=0"`
	CreatedAt time.Time   `json:"created_at" db:"created_at" validate:"required"`
}

// Day returns the UTC calendar day of the order as YYYY-MM-DD.
func (o Order) Day() string {
	return o.CreatedAt.UTC().Format(DayLayout)
}

// DayLayout is the ISO date layout used for day buckets.
const DayLayout = "2006-01-02"
