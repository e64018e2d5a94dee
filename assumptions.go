package dcf

import "math"

// Horizon is the number of projected years after the base year.
const Horizon = 10

// DefaultDiscountRate is used when neither a discount rate nor a required
// return is supplied.
const DefaultDiscountRate = 0.10

// minStartYear is the last year not accepted as a base year.
const minStartYear = 1900

// Unset marks an absent rate or amount in Assumptions.
var Unset = math.NaN()

// Assumptions are the inputs of a valuation. Rates are fractions (0.12 for
// 12%). An absent rate is NaN (see Unset). Cash, Debt, SharesOutstanding and
// MarketPrice are plain amounts where absent means 0.
//
// The FCF growth and the revenue growth are independent fields: revenue
// growth drives the revenue line while the ratio between FCF growth and
// revenue growth drives the FCF margin.
type Assumptions struct {
	Company string // display only.

	Revenue   float64 // trailing-twelve-month revenue, base year.
	FCFMargin float64 // required but not used by the projection.
	FCFYear0  float64 // free cash flow of the base year.

	GrowthFCF1to5  float64
	GrowthFCF6to10 float64
	GrowthRev1to5  float64 // non-finite means 0.
	GrowthRev6to10 float64 // non-finite means 0.
	TerminalGrowth float64

	DiscountRate   float64 // WACC, preferred over RequiredReturn.
	RequiredReturn float64 // fallback discount rate.

	Cash              float64
	Debt              float64
	SharesOutstanding float64
	MarketPrice       float64

	StartYear int // base year, values <= 1900 mean the current year.
}

// discountRate resolves the rate used to discount cash flows.
func (a Assumptions) discountRate() float64 {
	if isFinite(a.DiscountRate) {
		return a.DiscountRate
	}
	if isFinite(a.RequiredReturn) {
		return a.RequiredReturn
	}
	return DefaultDiscountRate
}

// startYear resolves the base year against the current year.
func (a Assumptions) startYear(currentYear int) int {
	if a.StartYear > minStartYear {
		return a.StartYear
	}
	return currentYear
}

// missing returns the required fields that cannot be used, in display order.
func (a Assumptions) missing() []string {
	var fields []string
	if !isFinite(a.Revenue) || a.Revenue <= 0 {
		fields = append(fields, "revenue")
	}
	if !isFinite(a.FCFMargin) {
		fields = append(fields, "fcfMargin")
	}
	if !isFinite(a.FCFYear0) {
		fields = append(fields, "fcfYear0")
	}
	if !isFinite(a.GrowthFCF1to5) {
		fields = append(fields, "growthFcf1to5")
	}
	if !isFinite(a.GrowthFCF6to10) {
		fields = append(fields, "growthFcf6to10")
	}
	if !isFinite(a.TerminalGrowth) {
		fields = append(fields, "terminalGrowth")
	}
	return fields
}

// growth returns the FCF and revenue growth rates of a projected year.
func (a Assumptions) growth(year int) (fcf, rev float64) {
	if year <= 5 {
		return a.GrowthFCF1to5, orZero(a.GrowthRev1to5)
	}
	return a.GrowthFCF6to10, orZero(a.GrowthRev6to10)
}

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func orZero(f float64) float64 {
	if isFinite(f) {
		return f
	}
	return 0
}
