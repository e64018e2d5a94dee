package dcf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is wrapped by every validation failure returned by Compute.
var ErrInvalidInput = errors.New("invalid input")

// requiredFields lists, in display order, the assumptions Compute refuses to work without.
var requiredFields = []string{"revenue", "fcfMargin", "fcfYear0", "growthFcf1to5", "growthFcf6to10", "terminalGrowth"}

// MissingInputError reports required assumptions that are absent or not numbers.
type MissingInputError struct {
	Fields []string // the offending fields, in display order.
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing or invalid %s: please fill in %s",
		strings.Join(e.Fields, ", "),
		strings.Join(requiredFields, ", "))
}

func (e *MissingInputError) Unwrap() error { return ErrInvalidInput }

// InvalidDiscountRateError reports a discount rate that does not exceed the
// terminal growth rate, for which the terminal value diverges.
type InvalidDiscountRateError struct {
	DiscountRate   float64
	TerminalGrowth float64
}

func (e *InvalidDiscountRateError) Error() string {
	return fmt.Sprintf("discount rate %s must be greater than the terminal growth rate %s",
		FromFraction(e.DiscountRate), FromFraction(e.TerminalGrowth))
}

func (e *InvalidDiscountRateError) Unwrap() error { return ErrInvalidInput }
