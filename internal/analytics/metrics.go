package analytics

// StockStatus classifies a product by its days of cover.
type StockStatus string

const (
	StatusHealthy   StockStatus = "healthy"
	StatusRisk      StockStatus = "risk"
	StatusOverstock StockStatus = "overstock"
)

const (
	// RiskThresholdDays: below this many days of cover a product is at risk of stockout.
	RiskThresholdDays = 14
	// OverstockThresholdDays: above this many days of cover a product is overstocked.
	OverstockThresholdDays = 90
	// NoDemandDaysCover is the days-of-cover sentinel for products with no measured sales.
	NoDemandDaysCover = 999
)

// StockMetric is the derived inventory health of one product.
type StockMetric struct {
	ProductID     string      `json:"product_id"`
	ProductName   string      `json:"product_name"`
	CurrentStock  int         `json:"current_stock"`
	SalesVelocity float64     `json:"sales_velocity"` // units per week, 2 decimals
	DaysCover     int         `json:"days_cover"`
	Status        StockStatus `json:"status"`
	Value         float64     `json:"value"`
}

// SalesMetric aggregates the orders of one UTC calendar day.
type SalesMetric struct {
	Date          string  `json:"date"`
	Revenue       float64 `json:"revenue"`
	OrdersCount   int     `json:"orders_count"`
	AverageBasket float64 `json:"average_basket"`
}

type InsightType string

const (
	InsightWarning InsightType = "warning"
	InsightInfo    InsightType = "info"
	InsightSuccess InsightType = "success"
)

const (
	CategoryStock   = "Stock"
	CategoryFinance = "Finance"
	CategorySales   = "Ventes"
)

// Insight is a rule-generated statement about the stock or sales metrics.
type Insight struct {
	Type           InsightType `json:"type"`
	Category       string      `json:"category"`
	Message        string      `json:"message"`
	Details        string      `json:"details,omitempty"`
	Recommendation string      `json:"recommendation,omitempty"`
}

// ClassifyDaysCover maps days of cover to a status. Risk is checked first; overstock only
// applies when the risk rule did not fire, so a value never carries both.
func ClassifyDaysCover(daysCover int) StockStatus {
	status := StatusHealthy
	if daysCover < RiskThresholdDays {
		status = StatusRisk
	} else if daysCover > OverstockThresholdDays {
		status = StatusOverstock
	}
	return status
}
