// Package money formats decimal amounts for display in a configured currency.
//
// Amounts are always shopspring/decimal values. The currency only decides the
// label and the minimum number of fraction digits shown, using the ISO 4217
// data from golang.org/x/text/currency.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = "BRL"

// Formatter renders amounts as "<ISO code> <fixed-point amount>", e.g. "BRL 20.00".
type Formatter struct {
	unit  currency.Unit
	scale int32
}

// NewFormatter returns a formatter for the given ISO 4217 code.
func NewFormatter(code string) (Formatter, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return Formatter{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	scale, _ := currency.Standard.Rounding(unit)

	return Formatter{unit: unit, scale: int32(scale)}, nil
}

// MustFormatter is like NewFormatter but panics on an invalid code.
func MustFormatter(code string) Formatter {
	f, err := NewFormatter(code)
	if err != nil {
		panic(err)
	}
	return f
}

// Unit returns the currency unit.
func (f Formatter) Unit() currency.Unit {
	return f.unit
}

// Amount renders only the number with the currency's fraction digits.
// An amount finer than that is shown in full rather than rounded, so a
// nonzero price never displays as zero.
func (f Formatter) Amount(d decimal.Decimal) string {
	if !d.Equal(d.Round(f.scale)) {
		return d.String()
	}
	return d.StringFixed(f.scale)
}

// Format renders the amount with its currency code.
func (f Formatter) Format(d decimal.Decimal) string {
	return f.unit.String() + " " + f.Amount(d)
}
