package kernel

import (
	"fmt"
	"math"

	"groupbuy/internal/pkg/errs"
)

// Kilograms is an order or item weight. Weights are floating kilograms,
// displayed to two decimals.
type Kilograms float64

// NewKilograms validates a raw weight value. Non-finite and negative inputs
// are rejected; the zero value is returned as a safe fallback alongside the
// error so callers can keep a view renderable.
func NewKilograms(v float64) (Kilograms, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%v is not finite", v))
	}
	if v < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%v is negative", v))
	}
	return Kilograms(v), nil
}

// SafeKilograms clamps malformed input to zero without an error.
// Used where a settlement figure must stay renderable.
func SafeKilograms(v float64) Kilograms {
	w, err := NewKilograms(v)
	if err != nil {
		return 0
	}
	return w
}

// Add returns the sum of two weights.
func (w Kilograms) Add(other Kilograms) Kilograms {
	return w + other
}

// MulInt returns the weight multiplied by an integer quantity.
func (w Kilograms) MulInt(n int64) Kilograms {
	return w * Kilograms(n)
}

// IsZero reports whether the weight is exactly zero.
func (w Kilograms) IsZero() bool {
	return w == 0
}

// Format renders the weight to two decimals, e.g. "41.50".
func (w Kilograms) Format() string {
	return fmt.Sprintf("%.2f", float64(w))
}
