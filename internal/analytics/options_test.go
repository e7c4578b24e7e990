package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {
	tests := []struct {
		value  float64
		places int32
		want   float64
	}{
		{10, VelocityPlaces, 10},
		{0.125, VelocityPlaces, 0.13},
		{1.005, VelocityPlaces, 1.01},
		{2.5, DaysCoverPlaces, 3},
		{-2.5, DaysCoverPlaces, -3},
		{69.99999999999999, DaysCoverPlaces, 70},
		{33.3333, PercentPlaces, 33.3},
		{-33.35, PercentPlaces, -33.4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.value, tt.places), "Round(%v, %d)", tt.value, tt.places)
	}

	assert.True(t, math.IsNaN(Round(math.NaN(), 1)))
	assert.True(t, math.IsInf(Round(math.Inf(1), 1), 1))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "1250.50 €", FormatCurrency(1250.5))
	assert.Equal(t, "0.00 €", FormatCurrency(0))
	assert.Equal(t, "19.99 €", FormatCurrency(19.99))
}

func TestParseVelocityMode(t *testing.T) {
	mode, err := ParseVelocityMode(" Windowed ")
	require.NoError(t, err)
	assert.Equal(t, VelocityWindowed, mode)

	mode, err = ParseVelocityMode("")
	require.NoError(t, err)
	assert.Equal(t, VelocityLegacy, mode)

	_, err = ParseVelocityMode("monthly")
	assert.Error(t, err)
}

func TestParseLineMatch(t *testing.T) {
	match, err := ParseLineMatch("SUM")
	require.NoError(t, err)
	assert.Equal(t, LineMatchSum, match)

	match, err = ParseLineMatch("first")
	require.NoError(t, err)
	assert.Equal(t, LineMatchFirst, match)

	_, err = ParseLineMatch("last")
	assert.Error(t, err)
}

func TestOptions_Normalized(t *testing.T) {
	opts := Options{}.normalized()

	assert.Equal(t, VelocityLegacy, opts.VelocityMode)
	assert.Equal(t, LineMatchFirst, opts.LineMatch)
	assert.Equal(t, DefaultWindowDays, opts.WindowDays)
	assert.False(t, opts.Now.IsZero())
	assert.Equal(t, "legacy:first:28", opts.cacheVariant())

	defaults := DefaultOptions()
	assert.Equal(t, opts.VelocityMode, defaults.VelocityMode)
	assert.Equal(t, opts.LineMatch, defaults.LineMatch)
	assert.Equal(t, opts.WindowDays, defaults.WindowDays)
}

func TestOptions_WindowStart(t *testing.T) {
	now := time.Date(2024, 3, 29, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), Options{Now: now}.WindowStart())
	assert.Equal(t, time.Date(2024, 3, 22, 8, 0, 0, 0, time.UTC), Options{Now: now, WindowDays: 7}.WindowStart())
}

func TestOptions_CacheVariantDistinguishesSettings(t *testing.T) {
	a := Options{VelocityMode: VelocityWindowed, LineMatch: LineMatchSum, WindowDays: 30}
	b := Options{VelocityMode: VelocityWindowed, LineMatch: LineMatchFirst, WindowDays: 30}

	assert.Equal(t, "windowed:sum:30", a.cacheVariant())
	assert.NotEqual(t, a.cacheVariant(), b.cacheVariant())
}
