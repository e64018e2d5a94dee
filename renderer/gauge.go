package renderer

import (
	"math"
	"strings"

	"github.com/etnz/dcf"
)

// GaugeLimit is the largest deviation of the market price from the fair
// value, as a fraction of the fair value, that the gauge can show.
const GaugeLimit = 0.6

// Zones of the gauge.
const (
	Undervalued  = "Undervalued"
	FairlyValued = "Fairly valued"
	Overvalued   = "Overvalued"
)

// Gauge positions the market price against the fair value.
type Gauge struct {
	Available   bool
	FairValue   float64
	MarketPrice float64
	Ratio       float64 // (market - fair) / fair, clamped to [-GaugeLimit, GaugeLimit].
}

// NewGauge returns the gauge of a market price against a fair value. It is not
// available unless both are strictly positive numbers.
func NewGauge(fair, market float64) Gauge {
	g := Gauge{FairValue: fair, MarketPrice: market}
	if !(fair > 0) || !(market > 0) || math.IsInf(fair, 0) || math.IsInf(market, 0) {
		return g
	}
	g.Available = true
	g.Ratio = math.Max(-GaugeLimit, math.Min(GaugeLimit, (market-fair)/fair))
	return g
}

// Deviation is the unclamped relative gap between market price and fair value.
func (g Gauge) Deviation() dcf.Percent {
	if !g.Available {
		return dcf.Percent(math.NaN())
	}
	return dcf.FromFraction((g.MarketPrice - g.FairValue) / g.FairValue)
}

// Zone names the side of the gauge the needle points to.
func (g Gauge) Zone() string {
	switch {
	case !g.Available:
		return ""
	case g.Ratio < 0:
		return Undervalued
	case g.Ratio > 0:
		return Overvalued
	default:
		return FairlyValued
	}
}

// Position maps the needle to [0, 1], 0 being the most undervalued end.
func (g Gauge) Position() float64 {
	return (g.Ratio + GaugeLimit) / (2 * GaugeLimit)
}

// Angle is the needle angle in degrees, from -90 (undervalued) to 90 (overvalued).
func (g Gauge) Angle() float64 {
	return g.Ratio / GaugeLimit * 90
}

// Bar draws the gauge as text of the given width: the fair value is marked
// by '|' and the needle by '^'.
func (g Gauge) Bar(width int) string {
	if width < 3 {
		width = 3
	}
	cells := []rune(strings.Repeat("-", width))
	center := width / 2
	cells[center] = '|'
	if g.Available {
		needle := int(math.Round(g.Position() * float64(width-1)))
		cells[needle] = '^'
	}
	return "[" + string(cells) + "]"
}
