package kernel

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"groupbuy/internal/pkg/errs"
)

// Cents is a monetary amount in integer minor units (cents).
//
// All settlement arithmetic runs on Cents or on decimal intermediates derived
// from Cents. Rounding happens exactly once, when an intermediate decimal is
// materialized back into Cents via CentsFromDecimal, never on intermediate
// results. This keeps repeated recomputation of the same snapshot stable.
type Cents int64

// Add returns the sum of two amounts.
func (c Cents) Add(other Cents) Cents {
	return c + other
}

// Sub returns the difference of two amounts.
func (c Cents) Sub(other Cents) Cents {
	return c - other
}

// MulInt returns the amount multiplied by an integer quantity.
func (c Cents) MulInt(n int64) Cents {
	return c * Cents(n)
}

// IsNegative reports whether the amount is below zero.
func (c Cents) IsNegative() bool {
	return c < 0
}

// Validate rejects negative amounts. Money fields on persisted entities are
// always non-negative.
func (c Cents) Validate() error {
	if c.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("cents", fmt.Errorf("%d is negative", c))
	}
	return nil
}

// Decimal returns the amount as an exact decimal in minor units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c))
}

// CentsFromDecimal rounds a minor-unit decimal to whole cents.
// This is the single rounding point of a computation chain.
func CentsFromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Round(0).IntPart())
}

// Format renders the amount in major units with a fixed two-decimal fraction
// and thousands grouping, e.g. 123456789 -> "1,234,567.89".
func (c Cents) Format() string {
	major := c.Decimal().Div(decimal.NewFromInt(100)).StringFixed(2)

	neg := strings.HasPrefix(major, "-")
	major = strings.TrimPrefix(major, "-")

	intPart, frac, _ := strings.Cut(major, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// Currency is an ISO 4217 currency code.
type Currency string

// Validate checks the code is three upper-case letters.
func (cur Currency) Validate() error {
	if len(cur) != 3 || strings.ToUpper(string(cur)) != string(cur) {
		return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not a 3-letter code", cur))
	}
	return nil
}

// SafeFloat maps non-finite values to 0 so malformed numeric input degrades
// to a renderable zero instead of poisoning a settlement view.
func SafeFloat(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
