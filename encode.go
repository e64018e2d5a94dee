package dcf

// This file contains the JSON encoding of valuations, as served by `dcf value -o json`
// and the HTTP API. Figures that are not available are omitted rather than encoded as null.

// MarshalJSON implements the json.Marshaler interface.
func (r Row) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("year", r.Year)
	w.Finite("revenue", r.Revenue)
	w.Finite("fcfMargin", r.FCFMargin)
	w.Finite("fcf", r.FCF)
	w.Finite("discountFactor", r.DiscountFactor)
	w.Finite("presentValue", r.PresentValue)
	return w.MarshalJSON()
}

// MarshalJSON implements the json.Marshaler interface.
func (v *Valuation) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("company", v.Assumptions.Company)
	w.Append("startYear", v.StartYear)
	w.Append("discountRate", v.DiscountRate)
	w.Append("terminalGrowth", v.Assumptions.TerminalGrowth)
	w.Append("rows", v.Rows[:])
	w.Finite("terminalValue", v.TerminalValue)
	w.Finite("terminalPresentValue", v.TerminalPresentValue)
	w.Finite("enterpriseValue", v.EnterpriseValue)
	w.Finite("equityValue", v.EquityValue)
	w.Finite("fairValuePerShare", v.FairValuePerShare)
	w.Finite("marketPrice", v.Assumptions.MarketPrice)
	w.Finite("marginOfSafety", v.MarginOfSafety)
	w.Optional("recommendation", string(v.Recommendation))
	return w.MarshalJSON()
}
