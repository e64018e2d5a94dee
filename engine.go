package dcf

import (
	"math"
	"time"
)

// now is the clock used to default the base year.
var now = time.Now

// Compute runs the valuation. It is a pure function of a, apart from the
// current year used when a.StartYear is not set.
//
// It returns a *MissingInputError when a required assumption is absent and an
// *InvalidDiscountRateError when the discount rate does not exceed the
// terminal growth rate. No partial result is returned.
func Compute(a Assumptions) (*Valuation, error) {
	disc := a.discountRate()
	start := a.startYear(now().Year())

	if fields := a.missing(); len(fields) > 0 {
		return nil, &MissingInputError{Fields: fields}
	}
	if disc <= a.TerminalGrowth {
		return nil, &InvalidDiscountRateError{DiscountRate: disc, TerminalGrowth: a.TerminalGrowth}
	}

	v := &Valuation{
		Assumptions:  a,
		DiscountRate: disc,
		StartYear:    start,
	}

	// base year, display only.
	v.Rows[0] = Row{
		Year:           start,
		Revenue:        a.Revenue,
		FCFMargin:      a.FCFYear0 / a.Revenue,
		FCF:            a.FCFYear0,
		DiscountFactor: 1,
	}

	for year := 1; year <= Horizon; year++ {
		prev := v.Rows[year-1]
		gFcf, gRev := a.growth(year)
		revenue := prev.Revenue * (1 + gRev)
		margin := prev.FCFMargin * (1 + gFcf) / (1 + gRev)
		fcf := margin * revenue
		df := 1 / math.Pow(1+disc, float64(year))
		v.Rows[year] = Row{
			Year:           start + year,
			Revenue:        revenue,
			FCFMargin:      margin,
			FCF:            fcf,
			DiscountFactor: df,
			PresentValue:   fcf * df,
		}
	}

	last := v.Rows[Horizon].FCF
	v.TerminalValue = last * (1 + a.TerminalGrowth) / (disc - a.TerminalGrowth)
	v.TerminalPresentValue = v.TerminalValue / math.Pow(1+disc, Horizon)

	// NPV of the projected flows, the terminal value being received with the last one.
	var flows [Horizon]float64
	for i := range flows {
		flows[i] = v.Rows[i+1].FCF
	}
	flows[Horizon-1] += v.TerminalValue
	for i, cf := range flows {
		v.EnterpriseValue += cf / math.Pow(1+disc, float64(i+1))
	}

	v.EquityValue = v.EnterpriseValue + a.Cash - a.Debt

	v.FairValuePerShare = math.NaN()
	v.MarginOfSafety = math.NaN()
	if a.SharesOutstanding > 0 {
		v.FairValuePerShare = v.EquityValue / a.SharesOutstanding
	}
	if isFinite(a.MarketPrice) && a.MarketPrice != 0 && v.HasFairValue() {
		v.MarginOfSafety = (v.FairValuePerShare - a.MarketPrice) / a.MarketPrice
		v.Recommendation = Sell
		if v.FairValuePerShare-a.MarketPrice > 0 {
			v.Recommendation = Buy
		}
	}
	return v, nil
}
