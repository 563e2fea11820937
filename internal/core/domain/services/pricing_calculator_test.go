package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/services"
)

func TestPricingCalculator_PricingWeight(t *testing.T) {
	calc := services.NewPricingCalculator()
	maxThreshold := kernel.Kilograms(80)

	t.Run("should add selected weight on top of locked weight", func(t *testing.T) {
		got := calc.PricingWeight(40, 2, &maxThreshold)

		assert.Equal(t, kernel.Kilograms(42), got)
	})

	t.Run("should clamp to the maximum threshold", func(t *testing.T) {
		got := calc.PricingWeight(70, 30, &maxThreshold)

		assert.Equal(t, maxThreshold, got)
	})

	t.Run("should never shrink below the locked weight", func(t *testing.T) {
		got := calc.PricingWeight(40, -5, &maxThreshold)

		assert.Equal(t, kernel.Kilograms(40), got)
	})

	t.Run("should work without a maximum threshold", func(t *testing.T) {
		got := calc.PricingWeight(100, 50, nil)

		assert.Equal(t, kernel.Kilograms(150), got)
	})
}

func TestPricingCalculator_FeePerKg(t *testing.T) {
	calc := services.NewPricingCalculator()

	t.Run("should decline as pricing weight grows", func(t *testing.T) {
		at40 := calc.FeePerKg(4000, 40)
		at42 := calc.FeePerKg(4000, 42)

		assert.True(t, at42.LessThan(at40), "fee per kg must fall when weight rises")
	})

	t.Run("should be zero for zero weight", func(t *testing.T) {
		assert.True(t, calc.FeePerKg(4000, 0).IsZero())
	})
}

func TestPricingCalculator_SharerFeeFraction(t *testing.T) {
	calc := services.NewPricingCalculator()

	t.Run("should be pct over remainder", func(t *testing.T) {
		got := calc.SharerFeeFraction(10)

		want := decimal.NewFromInt(10).Div(decimal.NewFromInt(90))
		assert.True(t, got.Equal(want))
	})

	t.Run("should degrade to zero outside the valid range", func(t *testing.T) {
		assert.True(t, calc.SharerFeeFraction(0).IsZero())
		assert.True(t, calc.SharerFeeFraction(100).IsZero())
		assert.True(t, calc.SharerFeeFraction(-3).IsZero())
	})
}

func TestPricingCalculator_UnitPrice(t *testing.T) {
	calc := services.NewPricingCalculator()

	t.Run("should price the 42kg order example", func(t *testing.T) {
		// 40kg locked, participant adds 4 units of 0.5kg at 500c base,
		// 4000c logistics fee, 10% take rate.
		maxThreshold := kernel.Kilograms(80)
		pricingWeight := calc.PricingWeight(40, 2, &maxThreshold)
		feePerKg := calc.FeePerKg(4000, pricingWeight)

		got := calc.UnitPrice(500, 0.5, feePerKg, 10)

		assert.Equal(t, kernel.Cents(548), got.BasePlusDelivery)
		assert.Equal(t, kernel.Cents(61), got.SharerFee)
		assert.Equal(t, kernel.Cents(609), got.Final)
	})

	t.Run("should keep final equal to base plus fee", func(t *testing.T) {
		feePerKg := calc.FeePerKg(3517, 37)

		for _, base := range []kernel.Cents{1, 99, 500, 12345} {
			got := calc.UnitPrice(base, 0.73, feePerKg, 17)

			assert.Equal(t, got.BasePlusDelivery.Add(got.SharerFee), got.Final)
		}
	})

	t.Run("should charge no sharer fee at zero take rate", func(t *testing.T) {
		got := calc.UnitPrice(500, 1, decimal.Zero, 0)

		assert.Equal(t, kernel.Cents(0), got.SharerFee)
		assert.Equal(t, got.BasePlusDelivery, got.Final)
	})
}

func TestPricingCalculator_ClampQuantity(t *testing.T) {
	calc := services.NewPricingCalculator()
	maxThreshold := kernel.Kilograms(80)

	t.Run("should keep a quantity that fits", func(t *testing.T) {
		got := calc.ClampQuantity(4, 0, 0.5, 40, 0, &maxThreshold)

		assert.Equal(t, 4, got)
	})

	t.Run("should cut the quantity at the threshold", func(t *testing.T) {
		// 78kg taken, 2kg left, 0.5kg per unit: at most 4 units fit.
		got := calc.ClampQuantity(10, 0, 0.5, 70, 8, &maxThreshold)

		assert.Equal(t, 4, got)
	})

	t.Run("should never go below the last confirmed quantity", func(t *testing.T) {
		got := calc.ClampQuantity(10, 6, 0.5, 79, 0, &maxThreshold)

		assert.Equal(t, 6, got)
	})

	t.Run("should allow any quantity without a threshold", func(t *testing.T) {
		got := calc.ClampQuantity(1000, 0, 0.5, 40, 0, nil)

		assert.Equal(t, 1000, got)
	})

	t.Run("selected weight never exceeds the threshold after clamping", func(t *testing.T) {
		cases := []struct {
			requested     int
			unitWeight    kernel.Kilograms
			locked, other kernel.Kilograms
		}{
			{requested: 7, unitWeight: 1.3, locked: 60, other: 10},
			{requested: 100, unitWeight: 0.25, locked: 0, other: 79},
			{requested: 3, unitWeight: 2, locked: 75, other: 0},
		}
		for _, tc := range cases {
			got := calc.ClampQuantity(tc.requested, 0, tc.unitWeight, tc.locked, tc.other, &maxThreshold)

			total := tc.locked + tc.other + tc.unitWeight.MulInt(int64(got))
			assert.LessOrEqual(t, float64(total), float64(maxThreshold)+1e-9)
		}
	})
}
