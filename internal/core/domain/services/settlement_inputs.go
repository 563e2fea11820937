package services

import (
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/core/domain/model/participant"
	"groupbuy/internal/core/domain/model/payment"
)

// CommittedWeight sums the purchased weight of all accepted participants,
// the sharer's own row included. This is the weight measured against the
// order's minimum threshold at lock time.
func CommittedWeight(participants []*participant.Participant) kernel.Kilograms {
	var total kernel.Kilograms
	for _, p := range participants {
		if !p.IsAccepted() {
			continue
		}
		total = total.Add(p.TotalWeight())
	}
	return total
}

// BuildSnapshot derives the settlement input from the order's persisted
// aggregates.
//
// Platform commission lines are derived from the order's configured fees:
// the percentage applies to the base turnover of all accepted rows (the
// sharer's own included) and the flat fee to their purchased unit count.
//
// The sharer's own cost is netted against the sharer's already-collected
// payments (deficit settlements), so re-running the split after a settlement
// sees the remaining exposure, not the original one. Cooperative-gain
// credits consumed on this order are not derivable from the aggregates and
// are passed in by the caller.
func BuildSnapshot(
	o *order.Order,
	participants []*participant.Participant,
	payments []*payment.Payment,
	participantCoopGains kernel.Cents,
) Snapshot {
	snap := Snapshot{
		TakeRatePct:          o.Settings().TakeRatePct,
		DeliveryFee:          o.Settings().Delivery.Fee(),
		DeliveryFeeOnSharer:  o.Settings().Delivery.FeeOnSharer(),
		ParticipantCoopGains: participantCoopGains,
	}

	var (
		sharerRowID  *kernel.UUID
		baseTurnover kernel.Cents
		units        int64
	)
	for _, p := range participants {
		if p.IsSharer() {
			id := p.ID()
			sharerRowID = &id
			snap.SharerOwnCost = p.TotalAmount()
			baseTurnover = baseTurnover.Add(p.TotalBaseAmount())
			units += int64(p.TotalQuantity())
			continue
		}
		if p.IsAccepted() {
			snap.ParticipantTurnover = snap.ParticipantTurnover.Add(p.TotalAmount())
			baseTurnover = baseTurnover.Add(p.TotalBaseAmount())
			units += int64(p.TotalQuantity())
		}
	}

	if pct := o.Settings().PlatformFeePct; pct > 0 {
		snap.CommissionLines = append(snap.CommissionLines, CommissionLine{
			Kind:       CommissionPercentOfBase,
			RatePct:    pct,
			BaseAmount: baseTurnover,
		})
	}
	if flat := o.Settings().PlatformFlatFeePerUnit; flat > 0 {
		snap.CommissionLines = append(snap.CommissionLines, CommissionLine{
			Kind:        CommissionFlatPerUnit,
			FlatPerUnit: flat,
			Quantity:    units,
		})
	}

	var sharerPaid kernel.Cents
	for _, pay := range payments {
		if !pay.Status().IsCollected() {
			continue
		}
		snap.TotalCollected = snap.TotalCollected.Add(pay.Amount())
		snap.PaymentProcessingFees = snap.PaymentProcessingFees.
			Add(pay.ProcessingFee()).
			Add(pay.FeeVAT())
		if sharerRowID != nil && pay.ParticipantID().IsEqual(*sharerRowID) {
			sharerPaid = sharerPaid.Add(pay.Amount())
		}
	}

	if sharerPaid > snap.SharerOwnCost {
		sharerPaid = snap.SharerOwnCost
	}
	snap.SharerOwnCost = snap.SharerOwnCost.Sub(sharerPaid)

	return snap
}
