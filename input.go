package dcf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field is a raw form value as typed by a user. In JSON and YAML documents it
// may be written either as a string or as a number.
type Field string

// UnmarshalJSON accepts a JSON string, number or null.
func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("field must be a string or a number, got %s", b)
	}
	*f = Field(n.String())
	return nil
}

// UnmarshalYAML accepts any YAML scalar.
func (f *Field) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var v interface{}
	if err := unmarshal(&v); err != nil {
		return err
	}
	*f = fieldOf(v)
	return nil
}

// fieldOf converts a decoded scalar into a Field.
func fieldOf(v interface{}) Field {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return Field(t)
	case float64:
		return Field(strconv.FormatFloat(t, 'f', -1, 64))
	case json.Number:
		return Field(t.String())
	default:
		return Field(fmt.Sprint(t))
	}
}

// Input is the raw content of the valuation form. Rates are typed in percent
// (12 for 12%). The zero value is an empty form.
type Input struct {
	Company        string `json:"company,omitempty" yaml:"company,omitempty"`
	Revenue        Field  `json:"revenue,omitempty" yaml:"revenue,omitempty"`
	FCFMargin      Field  `json:"fcfMargin,omitempty" yaml:"fcfMargin,omitempty"`
	FCFYear0       Field  `json:"fcfYear0,omitempty" yaml:"fcfYear0,omitempty"`
	GrowthFCF1to5  Field  `json:"g15,omitempty" yaml:"g15,omitempty"`
	GrowthFCF6to10 Field  `json:"g610,omitempty" yaml:"g610,omitempty"`
	GrowthRev1to5  Field  `json:"revG15,omitempty" yaml:"revG15,omitempty"`
	GrowthRev6to10 Field  `json:"revG610,omitempty" yaml:"revG610,omitempty"`
	TerminalGrowth Field  `json:"gperp,omitempty" yaml:"gperp,omitempty"`
	WACC           Field  `json:"wacc,omitempty" yaml:"wacc,omitempty"`
	RequiredReturn Field  `json:"reqReturn,omitempty" yaml:"reqReturn,omitempty"`
	Cash           Field  `json:"cash,omitempty" yaml:"cash,omitempty"`
	Debt           Field  `json:"debt,omitempty" yaml:"debt,omitempty"`
	Shares         Field  `json:"shares,omitempty" yaml:"shares,omitempty"`
	MarketPrice    Field  `json:"marketPrice,omitempty" yaml:"marketPrice,omitempty"`
	StartYear      Field  `json:"startYear,omitempty" yaml:"startYear,omitempty"`
}

// ParsePercent converts a percent typed by a user into a fraction. An empty
// or non-numeric value is NaN.
func ParsePercent(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return math.NaN()
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(n) {
		return math.NaN()
	}
	return n / 100
}

// ParseAmount converts an amount typed by a user. Thousands separators ","
// and "_" are ignored. An empty value is def, a non-numeric one is NaN.
func ParseAmount(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	s = strings.NewReplacer(",", "", "_", "").Replace(s)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// parseYear returns a base year, or 0 when s is not a usable year.
func parseYear(s string) int {
	y := ParseAmount(s, 0)
	if !isFinite(y) || y <= minStartYear {
		return 0
	}
	return int(y)
}

// Assumptions converts the form into engine assumptions. Required amounts
// that are empty become NaN so that Compute reports them; optional amounts
// default to 0.
func (in Input) Assumptions() Assumptions {
	return Assumptions{
		Company:           strings.TrimSpace(in.Company),
		Revenue:           ParseAmount(string(in.Revenue), math.NaN()),
		FCFMargin:         ParsePercent(string(in.FCFMargin)),
		FCFYear0:          ParseAmount(string(in.FCFYear0), math.NaN()),
		GrowthFCF1to5:     ParsePercent(string(in.GrowthFCF1to5)),
		GrowthFCF6to10:    ParsePercent(string(in.GrowthFCF6to10)),
		GrowthRev1to5:     ParsePercent(string(in.GrowthRev1to5)),
		GrowthRev6to10:    ParsePercent(string(in.GrowthRev6to10)),
		TerminalGrowth:    ParsePercent(string(in.TerminalGrowth)),
		DiscountRate:      ParsePercent(string(in.WACC)),
		RequiredReturn:    ParsePercent(string(in.RequiredReturn)),
		Cash:              ParseAmount(string(in.Cash), 0),
		Debt:              ParseAmount(string(in.Debt), 0),
		SharesOutstanding: ParseAmount(string(in.Shares), 0),
		MarketPrice:       ParseAmount(string(in.MarketPrice), 0),
		StartYear:         parseYear(string(in.StartYear)),
	}
}

// Compute is a shortcut for Compute(in.Assumptions()).
func (in Input) Compute() (*Valuation, error) {
	return Compute(in.Assumptions())
}

// Merge returns a copy of in where every non-empty field of o overrides in.
func (in Input) Merge(o Input) Input {
	pick := func(a, b Field) Field {
		if strings.TrimSpace(string(b)) != "" {
			return b
		}
		return a
	}
	if strings.TrimSpace(o.Company) != "" {
		in.Company = o.Company
	}
	in.Revenue = pick(in.Revenue, o.Revenue)
	in.FCFMargin = pick(in.FCFMargin, o.FCFMargin)
	in.FCFYear0 = pick(in.FCFYear0, o.FCFYear0)
	in.GrowthFCF1to5 = pick(in.GrowthFCF1to5, o.GrowthFCF1to5)
	in.GrowthFCF6to10 = pick(in.GrowthFCF6to10, o.GrowthFCF6to10)
	in.GrowthRev1to5 = pick(in.GrowthRev1to5, o.GrowthRev1to5)
	in.GrowthRev6to10 = pick(in.GrowthRev6to10, o.GrowthRev6to10)
	in.TerminalGrowth = pick(in.TerminalGrowth, o.TerminalGrowth)
	in.WACC = pick(in.WACC, o.WACC)
	in.RequiredReturn = pick(in.RequiredReturn, o.RequiredReturn)
	in.Cash = pick(in.Cash, o.Cash)
	in.Debt = pick(in.Debt, o.Debt)
	in.Shares = pick(in.Shares, o.Shares)
	in.MarketPrice = pick(in.MarketPrice, o.MarketPrice)
	in.StartYear = pick(in.StartYear, o.StartYear)
	return in
}

// Set assigns a field by its form name (the JSON name).
func (in *Input) Set(name, value string) error {
	if name == "company" {
		in.Company = value
		return nil
	}
	p, ok := in.fields()[name]
	if !ok {
		return fmt.Errorf("unknown input field %q", name)
	}
	*p = Field(value)
	return nil
}

// FieldNames returns the form names accepted by Set, in form order.
func FieldNames() []string {
	return []string{"revenue", "fcfMargin", "fcfYear0", "g15", "g610", "revG15", "revG610",
		"gperp", "wacc", "reqReturn", "cash", "debt", "shares", "marketPrice", "startYear"}
}

func (in *Input) fields() map[string]*Field {
	return map[string]*Field{
		"revenue":     &in.Revenue,
		"fcfMargin":   &in.FCFMargin,
		"fcfYear0":    &in.FCFYear0,
		"g15":         &in.GrowthFCF1to5,
		"g610":        &in.GrowthFCF6to10,
		"revG15":      &in.GrowthRev1to5,
		"revG610":     &in.GrowthRev6to10,
		"gperp":       &in.TerminalGrowth,
		"wacc":        &in.WACC,
		"reqReturn":   &in.RequiredReturn,
		"cash":        &in.Cash,
		"debt":        &in.Debt,
		"shares":      &in.Shares,
		"marketPrice": &in.MarketPrice,
		"startYear":   &in.StartYear,
	}
}
