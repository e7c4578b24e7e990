package analytics

import (
	"fmt"
	"strings"
)

const clearanceRecommendation = "Envisagez une promotion de déstockage pour libérer la trésorerie immobilisée."

// TrendChange compares the last two sales buckets. Percent is nil when the previous
// bucket had no revenue.
type TrendChange struct {
	Previous SalesMetric `json:"previous"`
	Last     SalesMetric `json:"last"`
	Diff     float64     `json:"diff"`
	Percent  *float64    `json:"percent,omitempty"`
}

// ComputeTrend compares the last two entries of sales by position. The slice must already be
// chronological, as returned by AnalyzeSalesTrends. It reports false with fewer than two entries.
func ComputeTrend(sales []SalesMetric) (TrendChange, bool) {
	if len(sales) < 2 {
		return TrendChange{}, false
	}
	last := sales[len(sales)-1]
	previous := sales[len(sales)-2]

	change := TrendChange{
		Previous: previous,
		Last:     last,
		Diff:     last.Revenue - previous.Revenue,
	}
	if previous.Revenue != 0 {
		percent := Round(change.Diff/previous.Revenue*100, PercentPlaces)
		change.Percent = &percent
	}
	return change, true
}

// GenerateInsights applies the stock risk, overstock and sales trend rules in that order.
// Each rule emits at most one insight, aggregating every product that triggers it.
func GenerateInsights(stock []StockMetric, sales []SalesMetric) []Insight {
	insights := make([]Insight, 0, 3)

	if insight, ok := stockRiskInsight(stock); ok {
		insights = append(insights, insight)
	}
	if insight, ok := overstockInsight(stock); ok {
		insights = append(insights, insight)
	}
	if insight, ok := salesTrendInsight(sales); ok {
		insights = append(insights, insight)
	}
	return insights
}

func stockRiskInsight(stock []StockMetric) (Insight, bool) {
	var names []string
	for _, m := range stock {
		if m.Status == StatusRisk {
			names = append(names, m.ProductName)
		}
	}
	if len(names) == 0 {
		return Insight{}, false
	}
	return Insight{
		Type:     InsightWarning,
		Category: CategoryStock,
		Message:  fmt.Sprintf("%d produit(s) en risque de rupture de stock", len(names)),
		Details:  strings.Join(names, ", "),
	}, true
}

func overstockInsight(stock []StockMetric) (Insight, bool) {
	count := 0
	var tiedUp float64
	for _, m := range stock {
		if m.Status == StatusOverstock {
			count++
			tiedUp += m.Value
		}
	}
	if count == 0 {
		return Insight{}, false
	}
	return Insight{
		Type:           InsightInfo,
		Category:       CategoryFinance,
		Message:        fmt.Sprintf("Surstock détecté sur %d produit(s) (valeur : %s)", count, FormatCurrency(tiedUp)),
		Recommendation: clearanceRecommendation,
	}, true
}

func salesTrendInsight(sales []SalesMetric) (Insight, bool) {
	change, ok := ComputeTrend(sales)
	if !ok {
		return Insight{}, false
	}

	if change.Percent == nil {
		return Insight{
			Type:     InsightInfo,
			Category: CategorySales,
			Message: fmt.Sprintf("Aucun chiffre d'affaires le %s : évolution du %s non calculable",
				change.Previous.Date, change.Last.Date),
		}, true
	}

	insightType := InsightSuccess
	direction := "hausse"
	if change.Diff < 0 {
		insightType = InsightWarning
		direction = "baisse"
	}
	return Insight{
		Type:     insightType,
		Category: CategorySales,
		Message: fmt.Sprintf("Ventes en %s de %+.1f%% le %s par rapport au %s",
			direction, *change.Percent, change.Last.Date, change.Previous.Date),
	}, true
}
