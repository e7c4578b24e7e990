package analytics

// Summary carries the aggregate KPIs shown next to the insights in reports.
type Summary struct {
	TotalRevenue   float64  `json:"total_revenue"`
	OrdersCount    int      `json:"orders_count"`
	AverageBasket  float64  `json:"average_basket"`
	InventoryValue float64  `json:"inventory_value"`
	ProductsCount  int      `json:"products_count"`
	HealthyCount   int      `json:"healthy_count"`
	RiskCount      int      `json:"risk_count"`
	OverstockCount int      `json:"overstock_count"`
	TrendPercent   *float64 `json:"trend_percent,omitempty"`
}

// Summarize folds the stock and sales metrics into report KPIs.
func Summarize(stock []StockMetric, sales []SalesMetric) Summary {
	s := Summary{ProductsCount: len(stock)}

	for _, m := range stock {
		s.InventoryValue += m.Value
		switch m.Status {
		case StatusRisk:
			s.RiskCount++
		case StatusOverstock:
			s.OverstockCount++
		default:
			s.HealthyCount++
		}
	}

	for _, day := range sales {
		s.TotalRevenue += day.Revenue
		s.OrdersCount += day.OrdersCount
	}
	if s.OrdersCount > 0 {
		s.AverageBasket = s.TotalRevenue / float64(s.OrdersCount)
	}

	if change, ok := ComputeTrend(sales); ok {
		s.TrendPercent = change.Percent
	}
	return s
}
