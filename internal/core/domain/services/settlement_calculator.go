package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"groupbuy/internal/core/domain/model/kernel"
)

// CommissionKind discriminates how a platform commission line is computed.
type CommissionKind int

const (
	// CommissionPercentOfBase charges a percentage of the line's base turnover.
	CommissionPercentOfBase CommissionKind = iota + 1

	// CommissionFlatPerUnit charges a fixed amount per purchased unit.
	CommissionFlatPerUnit
)

// CommissionLine is one configured platform fee line for a product or lot.
// Lines tagged PaymentProcessing are not commission: they are tracked
// separately as payment fees.
type CommissionLine struct {
	Kind CommissionKind

	// RatePct applies for CommissionPercentOfBase.
	RatePct float64

	// FlatPerUnit applies for CommissionFlatPerUnit.
	FlatPerUnit kernel.Cents

	// BaseAmount is the line's base turnover (percent kind).
	BaseAmount kernel.Cents

	// Quantity is the purchased unit count (flat kind).
	Quantity int64

	// PaymentProcessing marks the line as a payment-processing cost.
	PaymentProcessing bool
}

// amount computes the line's value, rounded once.
func (l CommissionLine) amount() kernel.Cents {
	switch l.Kind {
	case CommissionPercentOfBase:
		rate := decimal.NewFromFloat(kernel.SafeFloat(l.RatePct)).Div(decimal.NewFromInt(100))
		return kernel.CentsFromDecimal(l.BaseAmount.Decimal().Mul(rate))
	case CommissionFlatPerUnit:
		return l.FlatPerUnit.MulInt(l.Quantity)
	default:
		return 0
	}
}

// Snapshot is the settlement input: a consistent view over the order's
// payment and item rows. Building the snapshot is the caller's job; the
// split itself is a pure function of it.
type Snapshot struct {
	// TotalCollected is the sum of paid and authorized payment rows.
	TotalCollected kernel.Cents

	// CommissionLines are the configured platform fee lines.
	CommissionLines []CommissionLine

	// ParticipantTurnover is the participant totals excluding the sharer's
	// own purchases.
	ParticipantTurnover kernel.Cents

	// TakeRatePct is the sharer's take-rate percentage.
	TakeRatePct int

	// DeliveryFee is the carrier fee of the order's delivery option.
	DeliveryFee kernel.Cents

	// DeliveryFeeOnSharer is true when the delivery option places the
	// carrier cost on the sharer, who is then reimbursed in full.
	DeliveryFeeOnSharer bool

	// SharerOwnCost is the cost of the sharer's own purchased products.
	SharerOwnCost kernel.Cents

	// ParticipantCoopGains is the cooperative-gain credit participants
	// consumed on this order.
	ParticipantCoopGains kernel.Cents

	// PaymentProcessingFees is the sum of provider processing fees and
	// their VAT from the payment rows.
	PaymentProcessingFees kernel.Cents
}

// Split is the settlement output. The conservation law holds for every
// valid input:
//
//	PlatformCommission + SharerDiscount + CoopSurplus + ParticipantCoopGains
//	  + PaymentFees + ProducerTransfer == TotalCollected
type Split struct {
	// PlatformCommission is the platform's configured fee total.
	PlatformCommission kernel.Cents

	// SharerShare is what the sharer earned: the take rate applied to
	// participant turnover plus the delivery reimbursement.
	SharerShare kernel.Cents

	// SharerDiscount is the part of the sharer's own cost covered by
	// SharerShare.
	SharerDiscount kernel.Cents

	// SharerDeficit is what the sharer still owes when earnings do not
	// cover their own cost. The order cannot be locked while it is unpaid.
	SharerDeficit kernel.Cents

	// CoopSurplus is the earnings beyond the sharer's own cost, credited
	// to the cooperative-gain pool for future orders.
	CoopSurplus kernel.Cents

	// ParticipantCoopGains echoes the consumed participant credits.
	ParticipantCoopGains kernel.Cents

	// PaymentFees is the payment-processing cost total.
	PaymentFees kernel.Cents

	// ProducerTransfer is what is forwarded to the producer. Never negative.
	ProducerTransfer kernel.Cents
}

// SettlementCalculator is a domain service that splits collected revenue
// among producer, sharer, platform and the cooperative-gain pool.
//
// The calculation is pure and idempotent: recomputing from the same
// payment/item snapshot always yields the same cent values, which makes it
// safe to re-run during recovery after partial failures.
type SettlementCalculator struct{}

// NewSettlementCalculator creates a new SettlementCalculator instance.
func NewSettlementCalculator() SettlementCalculator {
	return SettlementCalculator{}
}

// Split computes the revenue split for a snapshot.
//
// Returns an error when the inputs are inconsistent: a negative collected
// total, or deductions exceeding what was collected (which would make the
// producer transfer negative).
func (SettlementCalculator) Split(snap Snapshot) (Split, error) {
	if snap.TotalCollected.IsNegative() {
		return Split{}, snap.TotalCollected.Validate()
	}

	var commission, paymentFees kernel.Cents
	for _, line := range snap.CommissionLines {
		if line.PaymentProcessing {
			paymentFees = paymentFees.Add(line.amount())
			continue
		}
		commission = commission.Add(line.amount())
	}
	paymentFees = paymentFees.Add(snap.PaymentProcessingFees)

	sharerShare := sharerShare(snap)

	split := Split{
		PlatformCommission:   commission,
		SharerShare:          sharerShare,
		ParticipantCoopGains: snap.ParticipantCoopGains,
		PaymentFees:          paymentFees,
	}

	if sharerShare >= snap.SharerOwnCost {
		// The sharer is reimbursed in full; the surplus becomes a
		// cooperative-gain credit for future orders.
		split.SharerDiscount = snap.SharerOwnCost
		split.CoopSurplus = sharerShare.Sub(snap.SharerOwnCost)
	} else {
		split.SharerDiscount = sharerShare
		split.SharerDeficit = snap.SharerOwnCost.Sub(sharerShare)
	}

	transfer := snap.TotalCollected.
		Sub(split.PlatformCommission).
		Sub(split.SharerDiscount).
		Sub(split.CoopSurplus).
		Sub(split.ParticipantCoopGains).
		Sub(split.PaymentFees)
	if transfer.IsNegative() {
		return Split{}, fmt.Errorf(
			"producer transfer is negative: deductions exceed collected total %d", snap.TotalCollected)
	}
	split.ProducerTransfer = transfer

	return split, nil
}

// Deficit computes only the sharer's outstanding deficit for a snapshot.
//
// Unlike Split, the deficit stays meaningful while payments are still being
// collected: it compares the sharer's earnings against their own remaining
// cost and never looks at the collected total. The lock guard and the
// deficit-settlement operation run on it before the order is fully paid.
func (SettlementCalculator) Deficit(snap Snapshot) kernel.Cents {
	share := sharerShare(snap)
	if share >= snap.SharerOwnCost {
		return 0
	}
	return snap.SharerOwnCost.Sub(share)
}

// sharerShare is the take rate applied to participant turnover, plus the
// delivery reimbursement when the carrier cost sits on the sharer.
func sharerShare(snap Snapshot) kernel.Cents {
	takeRate := decimal.NewFromInt(int64(snap.TakeRatePct)).Div(decimal.NewFromInt(100))
	share := kernel.CentsFromDecimal(snap.ParticipantTurnover.Decimal().Mul(takeRate))
	if snap.DeliveryFeeOnSharer {
		share = share.Add(snap.DeliveryFee)
	}
	return share
}
