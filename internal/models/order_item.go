package models

type OrderItem struct {
	ProductID string  `json:"product_id" db:"product_id" validate:"required"`
	Name      string  `json:"name" db:"name"`
	Price     float64 `json:"price" db:"unit_price" validate:"gte=0"`
	Quantity  int     `json:"quantity" db:"quantity" validate:"gte=1"`
}

// Subtotal returns price * quantity for the line.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
