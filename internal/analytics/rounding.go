package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

// Precision used by the engine for each derived value.
const (
	VelocityPlaces  int32 = 2
	DaysCoverPlaces int32 = 0
	PercentPlaces   int32 = 1
)

// Round rounds value to the given number of decimal places, half away from zero.
// NaN and infinities are returned unchanged.
func Round(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// FormatCurrency renders an amount with two decimals and the euro suffix, e.g. "1250.50 €".
func FormatCurrency(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2) + " €"
}
