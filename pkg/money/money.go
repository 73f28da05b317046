// Package money centralizes decimal arithmetic and display formatting for
// storefront amounts. All monetary values flow through shopspring decimals so
// percentage discounts and subtotals never accumulate float drift.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FromFloat converts a provider-supplied amount into a decimal.
func FromFloat(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// Percent returns amount * percent / 100.
func Percent(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// ClampMax caps value at max when max is positive.
func ClampMax(value, max decimal.Decimal) decimal.Decimal {
	if max.IsPositive() && value.GreaterThan(max) {
		return max
	}
	return value
}

// Format renders a USD display string, or "FREE" for a zero amount.
func Format(amount decimal.Decimal) string {
	if amount.IsZero() {
		return "FREE"
	}
	return fmt.Sprintf("$%s", amount.StringFixed(2))
}
