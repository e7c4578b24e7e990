package analytics

import (
	"fmt"
	"strings"
	"time"
)

// VelocityMode selects how weekly sales velocity is derived from the order set.
type VelocityMode string

const (
	// VelocityLegacy divides all supplied units by four weeks without looking at dates.
	VelocityLegacy VelocityMode = "legacy"
	// VelocityWindowed keeps orders inside the window ending at Options.Now and divides by WindowDays/7.
	VelocityWindowed VelocityMode = "windowed"
)

// LineMatch selects how order lines for the same product inside one order are counted.
type LineMatch string

const (
	// LineMatchFirst counts only the first matching line of each order.
	LineMatchFirst LineMatch = "first"
	// LineMatchSum counts every matching line of each order.
	LineMatchSum LineMatch = "sum"
)

const (
	DefaultWindowDays    = 28
	legacyWeeksPerWindow = 4
)

// Options tunes the stock analyzer. The zero value reproduces the legacy behaviour.
type Options struct {
	VelocityMode VelocityMode `json:"velocity_mode"`
	LineMatch    LineMatch    `json:"line_match"`
	WindowDays   int          `json:"window_days"`
	// Now anchors the window in windowed mode. Defaults to the current UTC time.
	Now time.Time `json:"-"`
}

func DefaultOptions() Options {
	return Options{
		VelocityMode: VelocityLegacy,
		LineMatch:    LineMatchFirst,
		WindowDays:   DefaultWindowDays,
	}
}

func (o Options) normalized() Options {
	if o.VelocityMode == "" {
		o.VelocityMode = VelocityLegacy
	}
	if o.LineMatch == "" {
		o.LineMatch = LineMatchFirst
	}
	if o.WindowDays <= 0 {
		o.WindowDays = DefaultWindowDays
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	return o
}

// WindowStart returns the exclusive lower bound of the analysis window.
func (o Options) WindowStart() time.Time {
	o = o.normalized()
	return o.Now.AddDate(0, 0, -o.WindowDays)
}

// stockWindow returns the window the stock analyzer's orders must cover. The legacy divisor
// assumes exactly DefaultWindowDays of orders whatever WindowDays says.
func (o Options) stockWindow() Options {
	if o.VelocityMode == VelocityLegacy {
		o.WindowDays = DefaultWindowDays
	}
	return o
}

func (o Options) cacheVariant() string {
	return fmt.Sprintf("%s:%s:%d", o.VelocityMode, o.LineMatch, o.WindowDays)
}

func ParseVelocityMode(s string) (VelocityMode, error) {
	switch VelocityMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", VelocityLegacy:
		return VelocityLegacy, nil
	case VelocityWindowed:
		return VelocityWindowed, nil
	}
	return "", fmt.Errorf("velocity mode must be one of: legacy, windowed")
}

func ParseLineMatch(s string) (LineMatch, error) {
	switch LineMatch(strings.ToLower(strings.TrimSpace(s))) {
	case "", LineMatchFirst:
		return LineMatchFirst, nil
	case LineMatchSum:
		return LineMatchSum, nil
	}
	return "", fmt.Errorf("line match must be one of: first, sum")
}
