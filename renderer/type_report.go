package renderer

import (
	"fmt"

	"github.com/etnz/dcf"
)

// Report is the printable view of a valuation: every figure is already
// formatted in the report currency.
type Report struct {
	Title          string
	StartYear      int
	DiscountRate   dcf.Percent
	TerminalGrowth dcf.Percent

	FairValue              dcf.Money
	MarketPrice            dcf.Money
	MarginOfSafety         dcf.Percent
	Recommendation         dcf.Recommendation
	EnterpriseValue        dcf.Money
	EquityValue            dcf.Money
	TerminalValue          dcf.Money
	TerminalPresentValue   dcf.Money
	ProjectionPresentValue dcf.Money

	Gauge Gauge
	Rows  []ReportRow
}

// ReportRow is a line of the projection table.
type ReportRow struct {
	Year          int
	FCF           dcf.Money
	TerminalValue dcf.Money // zero but on the last row.
	Sum           dcf.Money
	Margin        dcf.Percent
}

// Title returns the report title for a company.
func Title(company string) string {
	if company == "" {
		return "DCF valuation"
	}
	return fmt.Sprintf("%s — DCF valuation", company)
}

// NewReport formats v in currency cur.
func NewReport(v *dcf.Valuation, cur string) *Report {
	a := v.Assumptions
	r := &Report{
		Title:          Title(a.Company),
		StartYear:      v.StartYear,
		DiscountRate:   dcf.FromFraction(v.DiscountRate),
		TerminalGrowth: dcf.FromFraction(a.TerminalGrowth),

		FairValue:              dcf.M(v.FairValuePerShare, cur),
		MarketPrice:            dcf.M(a.MarketPrice, cur),
		MarginOfSafety:         dcf.FromFraction(v.MarginOfSafety),
		Recommendation:         v.Recommendation,
		EnterpriseValue:        dcf.M(v.EnterpriseValue, cur),
		EquityValue:            dcf.M(v.EquityValue, cur),
		TerminalValue:          dcf.M(v.TerminalValue, cur),
		TerminalPresentValue:   dcf.M(v.TerminalPresentValue, cur),
		ProjectionPresentValue: dcf.M(v.SumOfPresentValues(), cur),

		Gauge: NewGauge(v.FairValuePerShare, a.MarketPrice),
	}
	// a market price of 0 means it was not supplied.
	if a.MarketPrice == 0 {
		r.MarketPrice = dcf.M(dcf.Unset, cur)
	}

	last := len(v.Rows) - 1
	for i, row := range v.Rows {
		tv := 0.0
		if i == last {
			tv = v.TerminalValue
		}
		r.Rows = append(r.Rows, ReportRow{
			Year:          row.Year,
			FCF:           dcf.M(row.FCF, cur),
			TerminalValue: dcf.M(tv, cur),
			Sum:           dcf.M(row.FCF+tv, cur),
			Margin:        dcf.FromFraction(row.FCFMargin),
		})
	}
	return r
}
