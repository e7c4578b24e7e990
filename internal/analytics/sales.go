package analytics

import (
	"sort"

	"stockpulse/internal/models"
)

// AnalyzeSalesTrends buckets orders by UTC calendar day and returns one SalesMetric per
// day, sorted ascending by date. Revenue sums the orders' Total as supplied; nothing is rounded.
func AnalyzeSalesTrends(orders []models.Order) []SalesMetric {
	buckets := make(map[string]*SalesMetric)
	for _, o := range orders {
		day := o.Day()
		bucket, ok := buckets[day]
		if !ok {
			bucket = &SalesMetric{Date: day}
			buckets[day] = bucket
		}
		bucket.Revenue += o.Total
		bucket.OrdersCount++
	}

	trends := make([]SalesMetric, 0, len(buckets))
	for _, bucket := range buckets {
		bucket.AverageBasket = bucket.Revenue / float64(bucket.OrdersCount)
		trends = append(trends, *bucket)
	}

	// ISO dates sort lexically in chronological order.
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Date < trends[j].Date
	})
	return trends
}
