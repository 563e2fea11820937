package services

import (
	"github.com/shopspring/decimal"

	"groupbuy/internal/core/domain/model/kernel"
)

// PricingCalculator is a domain service that derives per-unit prices from
// the projected aggregate order weight.
//
// The per-kilogram logistics fee declines as the order fills: the full
// logistics cost is spread over the pricing weight, so every added kilogram
// makes each unit cheaper. This is the core fill incentive of a group-buy.
//
// All intermediate arithmetic stays in decimals; rounding to whole cents
// happens once per derived figure, never on intermediate results, so
// recomputing from the same snapshot always yields the same cents.
type PricingCalculator struct{}

// NewPricingCalculator creates a new PricingCalculator instance.
func NewPricingCalculator() PricingCalculator {
	return PricingCalculator{}
}

// UnitPrice is the per-unit pricing snapshot for one product line.
type UnitPrice struct {
	// BasePlusDelivery is the producer base price plus this unit's share
	// of the logistics fee.
	BasePlusDelivery kernel.Cents

	// SharerFee is the organizer's per-unit fee derived from the take rate.
	SharerFee kernel.Cents

	// Final is BasePlusDelivery plus SharerFee.
	Final kernel.Cents
}

// PricingWeight projects the weight used for pricing:
//
//	clamp(max(locked, locked+selected), maxThreshold)
//
// Committed (locked) weight never shrinks through a candidate selection, and
// the result never exceeds the configured maximum threshold. Non-finite
// inputs degrade to zero.
func (PricingCalculator) PricingWeight(locked, selected kernel.Kilograms, maxThreshold *kernel.Kilograms) kernel.Kilograms {
	locked = kernel.SafeKilograms(float64(locked))
	candidate := locked + kernel.Kilograms(kernel.SafeFloat(float64(selected)))
	if candidate < locked {
		candidate = locked
	}
	if maxThreshold != nil && candidate > *maxThreshold {
		candidate = *maxThreshold
	}
	return candidate
}

// FeePerKg spreads the order's total logistics fee over the pricing weight,
// in cents per kilogram. Zero weight yields a zero fee.
func (PricingCalculator) FeePerKg(logisticsFee kernel.Cents, pricingWeight kernel.Kilograms) decimal.Decimal {
	if pricingWeight.IsZero() || pricingWeight < 0 {
		return decimal.Zero
	}
	return logisticsFee.Decimal().Div(decimal.NewFromFloat(float64(pricingWeight)))
}

// SharerFeeFraction converts the take-rate percentage into the fraction
// applied on top of the pre-fee price: pct/(100-pct).
//
// A take rate of 0 yields 0. So does 100: the fraction would be undefined
// and 100 is not a valid business state, so it degrades to 0 rather than
// poisoning the price.
func (PricingCalculator) SharerFeeFraction(takeRatePct int) decimal.Decimal {
	if takeRatePct <= 0 || takeRatePct >= 100 {
		return decimal.Zero
	}
	pct := decimal.NewFromInt(int64(takeRatePct))
	return pct.Div(decimal.NewFromInt(100).Sub(pct))
}

// UnitPrice derives the per-unit price for one product:
//
//	basePlusDelivery = base + unitWeight * feePerKg
//	sharerFee        = basePlusDelivery * pct/(100-pct)
//	final            = basePlusDelivery + sharerFee
//
// Each cents figure is rounded exactly once, from the unrounded decimal
// chain.
func (c PricingCalculator) UnitPrice(
	baseUnitPrice kernel.Cents,
	unitWeight kernel.Kilograms,
	feePerKg decimal.Decimal,
	takeRatePct int,
) UnitPrice {
	weight := decimal.NewFromFloat(kernel.SafeFloat(float64(unitWeight)))
	basePlusDeliveryExact := baseUnitPrice.Decimal().Add(weight.Mul(feePerKg))
	sharerFeeExact := basePlusDeliveryExact.Mul(c.SharerFeeFraction(takeRatePct))

	basePlusDelivery := kernel.CentsFromDecimal(basePlusDeliveryExact)
	sharerFee := kernel.CentsFromDecimal(sharerFeeExact)

	return UnitPrice{
		BasePlusDelivery: basePlusDelivery,
		SharerFee:        sharerFee,
		Final:            basePlusDelivery.Add(sharerFee),
	}
}

// ClampQuantity bounds a candidate quantity for one product so the total
// selected weight cannot cross the maximum threshold.
//
// Given the weight already locked in, the weight currently selected on all
// other lines, and the unit weight of this product, the candidate is
// reduced to the largest quantity that still fits under the threshold,
// but never below the participant's last confirmed quantity.
func (PricingCalculator) ClampQuantity(
	requested, lastConfirmed int,
	unitWeight kernel.Kilograms,
	locked, otherSelected kernel.Kilograms,
	maxThreshold *kernel.Kilograms,
) int {
	if maxThreshold == nil || unitWeight <= 0 {
		return max(requested, lastConfirmed)
	}

	available := float64(*maxThreshold) - kernel.SafeFloat(float64(locked)) - kernel.SafeFloat(float64(otherSelected))
	if available < 0 {
		available = 0
	}

	// Round(6) shakes off float representation noise before flooring, so
	// an exact fit like 2.0kg / 0.5kg stays 4 units.
	fits := int(decimal.NewFromFloat(available).
		Div(decimal.NewFromFloat(float64(unitWeight))).
		Round(6).
		IntPart())

	clamped := requested
	if clamped > fits {
		clamped = fits
	}
	return max(clamped, lastConfirmed)
}
