package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Cents is a monetary amount in currency minor units (hundredths).
// All arithmetic and threshold comparisons happen on this integer type;
// decimal conversion is confined to parse and format boundaries.
type Cents int64

// Parse converts a decimal amount string (e.g. "20.00") to Cents.
// Amounts are rounded half-up to the nearest minor unit.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// FromDecimal converts a decimal amount to Cents, rounding half-up.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Shift(2).Round(0).IntPart())
}

// Decimal returns the amount as a decimal in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String formats the amount with two decimal places, e.g. "74.00".
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Percent returns the given fraction of the amount, rounded half-up
// to the nearest minor unit. A fraction of 0.10 takes 10 percent.
func (c Cents) Percent(fraction decimal.Decimal) Cents {
	return Cents(decimal.New(int64(c), 0).Mul(fraction).Round(0).IntPart())
}

// MarshalJSON encodes the amount as a plain JSON number with two decimal
// places, preserving the persisted shape {"price": 30.00}.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
// Parsing goes through decimal so values like 0.10 convert exactly.
func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
