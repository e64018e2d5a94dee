package dcf

import (
	"fmt"
	"math"
)

// Percent is a rate expressed in percent (12.5 means 12.5%).
type Percent float64

// FromFraction converts a fraction (0.125) to a Percent (12.5).
func FromFraction(f float64) Percent { return Percent(f * 100) }

// Fraction returns p as a fraction.
func (p Percent) Fraction() float64 { return float64(p) / 100 }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	if math.IsNaN(float64(p)) || math.IsInf(float64(p), 0) {
		return "—"
	}
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	if math.IsNaN(float64(p)) || math.IsInf(float64(p), 0) {
		return "—"
	}
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" {
		return "-"
	}
	return res
}
