// Package currency holds the fixed-precision money helpers every settlement
// formula goes through. Amounts are shopspring decimals rounded to the base
// unit's smallest denomination.
package currency

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits of the base currency unit.
const Precision int32 = 2

// Tolerance is ACCOUNTING_TOLERANCE: two amounts closer than this are equal.
var Tolerance = decimal.RequireFromString("0.01")

// Round rounds an amount to Precision digits, half away from zero.
// Example: 100.456 -> 100.46, 100.455 -> 100.46, -0.005 -> -0.01
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Precision)
}

// Add returns round(a + b).
func Add(a, b decimal.Decimal) decimal.Decimal {
	return Round(a.Add(b))
}

// Sub returns round(a - b).
func Sub(a, b decimal.Decimal) decimal.Decimal {
	return Round(a.Sub(b))
}

// Mul returns round(a * b).
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return Round(a.Mul(b))
}

// Div returns round(a / b). Division by zero is an error rather than a panic.
func Div(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, fmt.Errorf("currency: division of %s by zero", a.String())
	}
	return a.DivRound(b, Precision), nil
}

// Sum adds and rounds every amount.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round(total)
}

// ClampZero floors an amount at zero.
func ClampZero(amount decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Equal reports whether a and b differ by less than Tolerance.
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(Tolerance)
}

// IsZero reports whether amount is within Tolerance of zero.
func IsZero(amount decimal.Decimal) bool {
	return Equal(amount, decimal.Zero)
}

// IsPositive reports whether amount is greater than zero by at least Tolerance.
func IsPositive(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(Tolerance)
}

// GreaterOrEqual reports a >= b, treating values within Tolerance as equal.
func GreaterOrEqual(a, b decimal.Decimal) bool {
	return a.GreaterThan(b) || Equal(a, b)
}

// FromFloat converts a float amount coming from an external caller.
// NaN and infinities are rejected.
func FromFloat(value float64) (decimal.Decimal, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero, fmt.Errorf("currency: amount %v is not finite", value)
	}
	return Round(decimal.NewFromFloat(value)), nil
}

// Parse parses a decimal string and rounds it.
func Parse(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("currency: invalid amount %q: %w", value, err)
	}
	return Round(d), nil
}

// Format renders an amount with exactly Precision fractional digits.
// Example: 12.3 -> "12.30"
func Format(amount decimal.Decimal) string {
	return amount.StringFixed(Precision)
}

// FormatWithPrecision formats an amount with the given precision.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
