package dcf

import "math"

// Recommendation is the action suggested by the margin of safety.
type Recommendation string

const (
	NoRecommendation Recommendation = ""
	Buy              Recommendation = "BUY"
	Sell             Recommendation = "SELL"
)

func (r Recommendation) String() string {
	if r == NoRecommendation {
		return "—"
	}
	return string(r)
}

// Row is one year of the projection. The first row is the base year: it is
// shown for reference but neither discounted nor counted in any value.
type Row struct {
	Year           int
	Revenue        float64
	FCFMargin      float64
	FCF            float64
	DiscountFactor float64
	PresentValue   float64
}

// Valuation is the result of Compute.
type Valuation struct {
	Assumptions  Assumptions // as supplied.
	DiscountRate float64     // resolved discount rate.
	StartYear    int         // resolved base year.

	Rows [Horizon + 1]Row

	TerminalValue        float64
	TerminalPresentValue float64
	EnterpriseValue      float64
	EquityValue          float64

	FairValuePerShare float64 // NaN unless SharesOutstanding > 0.
	MarginOfSafety    float64 // NaN when there is no recommendation.
	Recommendation    Recommendation
}

// HasFairValue reports whether a fair value per share could be computed.
func (v *Valuation) HasFairValue() bool { return isFinite(v.FairValuePerShare) }

// HasRecommendation reports whether the fair value could be compared to the market price.
func (v *Valuation) HasRecommendation() bool { return v.Recommendation != NoRecommendation }

// SumOfPresentValues returns the present value of the explicit projection,
// the terminal value excluded.
func (v *Valuation) SumOfPresentValues() float64 {
	var sum float64
	for _, r := range v.Rows[1:] {
		sum += r.PresentValue
	}
	return sum
}

// Last returns the final projected year.
func (v *Valuation) Last() Row { return v.Rows[Horizon] }

// NaN-safe equality used to compare valuations bit for bit.
func sameFloat(a, b float64) bool {
	return math.Float64bits(a) == math.Float64bits(b)
}

// Equal reports whether v and w hold exactly the same figures.
func (v *Valuation) Equal(w *Valuation) bool {
	if v.DiscountRate != w.DiscountRate || v.StartYear != w.StartYear || v.Recommendation != w.Recommendation {
		return false
	}
	for i := range v.Rows {
		a, b := v.Rows[i], w.Rows[i]
		if a.Year != b.Year || !sameFloat(a.Revenue, b.Revenue) || !sameFloat(a.FCFMargin, b.FCFMargin) ||
			!sameFloat(a.FCF, b.FCF) || !sameFloat(a.DiscountFactor, b.DiscountFactor) || !sameFloat(a.PresentValue, b.PresentValue) {
			return false
		}
	}
	return sameFloat(v.TerminalValue, w.TerminalValue) &&
		sameFloat(v.TerminalPresentValue, w.TerminalPresentValue) &&
		sameFloat(v.EnterpriseValue, w.EnterpriseValue) &&
		sameFloat(v.EquityValue, w.EquityValue) &&
		sameFloat(v.FairValuePerShare, w.FairValuePerShare) &&
		sameFloat(v.MarginOfSafety, w.MarginOfSafety)
}
