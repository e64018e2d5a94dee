package dcf

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money is an amount to display in a currency. Amounts produced by the engine
// are float64; Money carries them as decimals so that formatting rounds
// exactly. A non-finite amount makes an invalid Money that renders as "—".
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
	valid bool
}

// M returns value as Money in the given ISO currency code. An empty or unknown
// code formats the amount without currency symbol.
func M(value float64, currency string) Money {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Money{cur: currency}
	}
	return Money{value: decimal.NewFromFloat(value), cur: currency, valid: true}
}

func (m Money) Currency() string { return m.cur }
func (m Money) IsValid() bool    { return m.valid }
func (m Money) IsZero() bool     { return m.valid && m.value.IsZero() }
func (m Money) IsPositive() bool { return m.valid && m.value.IsPositive() }
func (m Money) IsNegative() bool { return m.valid && m.value.IsNegative() }

// formatter returns the go-money formatter for the currency, or a plain
// two-digit formatter when the currency is not known.
func (m Money) formatter() *money.Formatter {
	if cur := money.GetCurrency(m.cur); cur != nil && m.cur != "" {
		return cur.Formatter()
	}
	return money.NewFormatter(2, ".", ",", "", "1")
}

// String returns the amount rounded to the currency fraction, with grouping
// and currency symbol.
func (m Money) String() string {
	if !m.valid {
		return "—"
	}
	f := m.formatter()
	dec := m.value.Round(int32(f.Fraction)).Shift(int32(f.Fraction))
	return f.Format(dec.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if !m.valid {
		return "—"
	}
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}
