package decimal

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Mul multiplies two decimals, rounds to 2 places
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(2)
}

// Div divides a by b, rounds to 2 places
func Div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b).Round(2)
}

// CalculateTax computes amount * (rate/100) rounded to cents
func CalculateTax(amount, ratePercent decimal.Decimal) decimal.Decimal {
	if ratePercent.IsZero() {
		return decimal.Zero
	}
	return amount.Mul(ratePercent).Div(hundred).Round(2)
}

// Amount formats a monetary amount the way the XML schemas expect: two decimals, no grouping
func Amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Quantity formats a quantity, keeping up to ten decimals and no trailing zeros
func Quantity(d decimal.Decimal) string {
	return d.Round(10).String()
}

// Rate formats a percentage or exchange factor
func Rate(d decimal.Decimal) string {
	if d.Exponent() >= 0 {
		return d.String()
	}
	return d.Round(6).String()
}
