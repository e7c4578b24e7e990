package analytics

import (
	"stockpulse/internal/models"
)

// AnalyzeStock computes one StockMetric per product, in product order, with the legacy
// velocity rules: the orders are taken to cover four weeks and only the first matching
// line of each order counts. Callers pre-filter orders to the period they want analysed.
func AnalyzeStock(products []models.Product, orders []models.Order) []StockMetric {
	return AnalyzeStockWithOptions(products, orders, DefaultOptions())
}

// AnalyzeStockWithOptions is AnalyzeStock with an explicit velocity mode and line matching.
func AnalyzeStockWithOptions(products []models.Product, orders []models.Order, opts Options) []StockMetric {
	if opts.VelocityMode == "" {
		opts.VelocityMode = VelocityLegacy
	}
	weeks := float64(legacyWeeksPerWindow)
	counted := orders
	if opts.VelocityMode == VelocityWindowed {
		opts = opts.normalized()
		weeks = float64(opts.WindowDays) / 7
		counted = ordersInWindow(orders, opts)
	}

	sold := unitsSoldByProduct(counted, opts.LineMatch)

	metrics := make([]StockMetric, 0, len(products))
	for _, p := range products {
		metrics = append(metrics, stockMetric(p, sold[p.ID], weeks))
	}
	return metrics
}

func stockMetric(p models.Product, unitsSold int, weeks float64) StockMetric {
	weeklyVelocity := float64(unitsSold) / weeks

	daysCover := NoDemandDaysCover
	if weeklyVelocity > 0 {
		daysCover = int(Round(float64(p.Stock)/(weeklyVelocity/7), DaysCoverPlaces))
	}

	return StockMetric{
		ProductID:     p.ID,
		ProductName:   p.Name,
		CurrentStock:  p.Stock,
		SalesVelocity: Round(weeklyVelocity, VelocityPlaces),
		DaysCover:     daysCover,
		Status:        ClassifyDaysCover(daysCover),
		Value:         p.InventoryValue(),
	}
}

// unitsSoldByProduct totals sold quantities per product id. With LineMatchFirst an order
// contributes at most its first line for a given product.
func unitsSoldByProduct(orders []models.Order, match LineMatch) map[string]int {
	sold := make(map[string]int)
	for _, o := range orders {
		var seen map[string]bool
		if match != LineMatchSum {
			seen = make(map[string]bool, len(o.Items))
		}
		for _, item := range o.Items {
			if seen != nil {
				if seen[item.ProductID] {
					continue
				}
				seen[item.ProductID] = true
			}
			sold[item.ProductID] += item.Quantity
		}
	}
	return sold
}

func ordersInWindow(orders []models.Order, opts Options) []models.Order {
	start := opts.WindowStart()
	kept := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.CreatedAt.After(start) && !o.CreatedAt.After(opts.Now) {
			kept = append(kept, o)
		}
	}
	return kept
}
