package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Fields reported by ValidationError.
const (
	FieldName  = "name"
	FieldPrice = "price"
)

// Price bounds. Exponent notation is not accepted, so these also bound the
// cost of rendering a price.
const (
	MaxPriceIntegerDigits  = 12
	MaxPriceFractionDigits = 6

	maxPriceTextLen = 32
)

// ValidationError reports rejected input for a new catalog entry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParsePrice parses operator input into a price.
// The text must be a plain decimal number (surrounding spaces allowed) and
// the value must be greater than zero, with at most MaxPriceIntegerDigits
// digits before the point and MaxPriceFractionDigits after it.
func ParsePrice(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Decimal{}, priceError("must not be empty")
	}
	if len(text) > maxPriceTextLen {
		return decimal.Decimal{}, priceError(fmt.Sprintf("must be at most %d characters", maxPriceTextLen))
	}
	if strings.ContainsAny(text, "eE") {
		return decimal.Decimal{}, priceError(fmt.Sprintf("%q is not a plain decimal number", text))
	}

	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, priceError(fmt.Sprintf("%q is not a number", text))
	}

	if err := checkPrice(price); err != nil {
		return decimal.Decimal{}, err
	}
	return price, nil
}

// checkPrice enforces the sign and digit bounds on a parsed price.
func checkPrice(price decimal.Decimal) *ValidationError {
	if !price.IsPositive() {
		return priceError("must be greater than zero")
	}
	if -price.Exponent() > MaxPriceFractionDigits {
		return priceError(fmt.Sprintf("must have at most %d decimal places", MaxPriceFractionDigits))
	}
	if price.NumDigits()+int(price.Exponent()) > MaxPriceIntegerDigits {
		return priceError(fmt.Sprintf("must have at most %d digits before the decimal point", MaxPriceIntegerDigits))
	}
	return nil
}

func priceError(reason string) *ValidationError {
	return &ValidationError{Field: FieldPrice, Reason: reason}
}

// Valid reports whether p could have been created by Add: a positive id, a
// non-blank name and a price within bounds. Used to screen stored data.
func (p Product) Valid() bool {
	return p.ID >= 1 && strings.TrimSpace(p.Name) != "" && checkPrice(p.Price) == nil
}
