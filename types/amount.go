// Package types provides common types used across Messbill.
package types

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount represents a monetary or meal-unit quantity with exact decimal
// arithmetic. Meal counts can be fractional (a half meal is 0.5), so an
// integer smallest-unit representation is not enough here.
//
// All derived figures (meal rate, meal cost, bill components) are rounded
// to 2 decimal places with Round2, which rounds half away from zero.
type Amount struct {
	dec decimal.Decimal
}

// AmountZero is the zero Amount.
var AmountZero = Amount{}

// NewAmount creates an Amount from an integer value.
func NewAmount(v int64) Amount {
	return Amount{dec: decimal.NewFromInt(v)}
}

// NewAmountFromFloat creates an Amount from a float64.
// Intended for values that originate as JSON numbers.
func NewAmountFromFloat(v float64) Amount {
	return Amount{dec: decimal.NewFromFloat(v)}
}

// ParseAmount parses a decimal string (e.g., "4500", "12.5") into an Amount.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return AmountZero, fmt.Errorf("types: parse amount %q: %w", s, err)
	}

	return Amount{dec: d}, nil
}

// MustParseAmount is like ParseAmount but panics on error.
// Use for hardcoded values in tests and examples.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}

	return a
}

// Arithmetic operations

// Add returns a + other.
func (a Amount) Add(other Amount) Amount {
	return Amount{dec: a.dec.Add(other.dec)}
}

// Sub returns a - other.
func (a Amount) Sub(other Amount) Amount {
	return Amount{dec: a.dec.Sub(other.dec)}
}

// Mul returns a * other.
func (a Amount) Mul(other Amount) Amount {
	return Amount{dec: a.dec.Mul(other.dec)}
}

// Div returns a / other with decimal division. Panics if other is zero.
func (a Amount) Div(other Amount) Amount {
	if other.dec.IsZero() {
		panic("amount: division by zero")
	}

	return Amount{dec: a.dec.Div(other.dec)}
}

// Neg returns the negative of the Amount.
func (a Amount) Neg() Amount {
	return Amount{dec: a.dec.Neg()}
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	return Amount{dec: a.dec.Abs()}
}

// Round2 rounds to 2 decimal places, half away from zero.
// Every derived billing figure passes through this before being stored
// or compared.
func (a Amount) Round2() Amount {
	return Amount{dec: a.dec.Round(2)}
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (a Amount) IsZero() bool { return a.dec.IsZero() }

// IsPositive returns true if the amount is greater than zero.
func (a Amount) IsPositive() bool { return a.dec.IsPositive() }

// IsNegative returns true if the amount is less than zero.
func (a Amount) IsNegative() bool { return a.dec.IsNegative() }

// Equal returns true if both Amounts represent the same value.
func (a Amount) Equal(other Amount) bool {
	return a.dec.Equal(other.dec)
}

// LessThan returns true if a < other.
func (a Amount) LessThan(other Amount) bool {
	return a.dec.LessThan(other.dec)
}

// GreaterThan returns true if a > other.
func (a Amount) GreaterThan(other Amount) bool {
	return a.dec.GreaterThan(other.dec)
}

// Cmp compares a and other, returning -1, 0, or 1.
func (a Amount) Cmp(other Amount) int {
	return a.dec.Cmp(other.dec)
}

// Min returns the smaller of two Amounts.
func (a Amount) Min(other Amount) Amount {
	if a.dec.LessThan(other.dec) {
		return a
	}

	return other
}

// Max returns the larger of two Amounts.
func (a Amount) Max(other Amount) Amount {
	if a.dec.GreaterThan(other.dec) {
		return a
	}

	return other
}

// Conversion and formatting

// Float64 returns the amount as a float64. Exactness is not guaranteed;
// use for display and reporting only.
func (a Amount) Float64() float64 {
	f, _ := a.dec.Float64()

	return f
}

// String returns the canonical decimal string, e.g. "4500" or "52.78".
func (a Amount) String() string {
	return a.dec.String()
}

// StringFixed2 returns the amount formatted with exactly 2 decimal places,
// e.g. "4500.00".
func (a Amount) StringFixed2() string {
	return a.dec.StringFixed(2)
}

// MarshalJSON implements json.Marshaler. Amounts serialize as JSON numbers.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.dec.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler. Accepts JSON numbers and
// quoted decimal strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("types: unmarshal amount: %w", err)
	}

	a.dec = d

	return nil
}

// Decimal returns the underlying decimal value for store drivers that
// persist decimals natively.
func (a Amount) Decimal() decimal.Decimal {
	return a.dec
}

// AmountFromDecimal wraps a raw decimal in an Amount.
func AmountFromDecimal(d decimal.Decimal) Amount {
	return Amount{dec: d}
}

// SumAmounts calculates the sum of amounts. Returns zero for no values.
func SumAmounts(values ...Amount) Amount {
	result := AmountZero
	for _, v := range values {
		result = result.Add(v)
	}

	return result
}
