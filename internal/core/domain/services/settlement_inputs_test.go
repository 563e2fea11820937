package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/core/domain/model/participant"
	"groupbuy/internal/core/domain/model/payment"
	"groupbuy/internal/core/domain/services"
)

func snapshotOrder(t *testing.T, pct float64, flat kernel.Cents) *order.Order {
	t.Helper()

	now := time.Now().UTC()
	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(), "GB-2026-002",
		kernel.NewUUID(), kernel.NewUUID(),
		order.Settings{
			Visibility:             order.Public,
			MinWeight:              50,
			Delivery:               order.NewProducerPickupOption(),
			TakeRatePct:            10,
			Currency:               "EUR",
			LogisticsFee:           4000,
			PlatformFeePct:         pct,
			PlatformFlatFeePerUnit: flat,
		},
		order.Delivered, 0, "", nil,
		now, now,
	)
	require.NoError(t, err)
	return aggregate
}

func snapshotRow(t *testing.T, o *order.Order, role order.Role, accepted bool, quantity int) *participant.Participant {
	t.Helper()

	now := time.Now().UTC()
	row, err := participant.NewParticipant(
		kernel.NewUUID(), o.ID(), kernel.NewUUID(), role, accepted, now,
	)
	require.NoError(t, err)

	if quantity > 0 {
		item, itemErr := participant.NewOrderItem(
			kernel.NewUUID(), kernel.NewUUID(), nil,
			quantity, 0.5, 548, 61, 609,
		)
		require.NoError(t, itemErr)
		require.NoError(t, row.UpsertItem(item, true, now))
	}
	return row
}

func snapshotPayment(t *testing.T, o *order.Order, participantID kernel.UUID, amount, fee, vat kernel.Cents, status payment.Status) *payment.Payment {
	t.Helper()

	now := time.Now().UTC()
	pay, err := payment.RestorePayment(
		kernel.NewUUID(), o.ID(), participantID,
		amount, status, "pi_"+kernel.NewUUID().String(), kernel.NewUUID().String(),
		fee, vat, 1, now, now,
	)
	require.NoError(t, err)
	return pay
}

func TestBuildSnapshot(t *testing.T) {
	t.Run("derives commission lines from the configured fees", func(t *testing.T) {
		o := snapshotOrder(t, 5, 10)
		sharer := snapshotRow(t, o, order.RoleSharer, true, 10)
		buyer := snapshotRow(t, o, order.RoleParticipant, true, 80)

		snap := services.BuildSnapshot(o,
			[]*participant.Participant{sharer, buyer}, nil, 0)

		// 90 units at 548c base across both rows.
		require.Len(t, snap.CommissionLines, 2)
		assert.Equal(t, services.CommissionLine{
			Kind:       services.CommissionPercentOfBase,
			RatePct:    5,
			BaseAmount: 90 * 548,
		}, snap.CommissionLines[0])
		assert.Equal(t, services.CommissionLine{
			Kind:        services.CommissionFlatPerUnit,
			FlatPerUnit: 10,
			Quantity:    90,
		}, snap.CommissionLines[1])
	})

	t.Run("no configured fees means no commission lines", func(t *testing.T) {
		o := snapshotOrder(t, 0, 0)
		buyer := snapshotRow(t, o, order.RoleParticipant, true, 80)

		snap := services.BuildSnapshot(o, []*participant.Participant{buyer}, nil, 0)

		assert.Empty(t, snap.CommissionLines)
	})

	t.Run("pending rows stay out of the fee base", func(t *testing.T) {
		o := snapshotOrder(t, 5, 0)
		accepted := snapshotRow(t, o, order.RoleParticipant, true, 80)
		waiting := snapshotRow(t, o, order.RoleParticipant, false, 20)

		snap := services.BuildSnapshot(o,
			[]*participant.Participant{accepted, waiting}, nil, 0)

		require.Len(t, snap.CommissionLines, 1)
		assert.Equal(t, kernel.Cents(80*548), snap.CommissionLines[0].BaseAmount)
		assert.Equal(t, kernel.Cents(80*609), snap.ParticipantTurnover)
	})

	t.Run("sums collected payments and fees", func(t *testing.T) {
		o := snapshotOrder(t, 0, 0)
		buyer := snapshotRow(t, o, order.RoleParticipant, true, 80)
		paid := snapshotPayment(t, o, buyer.ID(), 80*609, 18, 4, payment.Paid)
		pending := snapshotPayment(t, o, buyer.ID(), 500, 0, 0, payment.Pending)

		snap := services.BuildSnapshot(o,
			[]*participant.Participant{buyer},
			[]*payment.Payment{paid, pending}, 0)

		assert.Equal(t, kernel.Cents(80*609), snap.TotalCollected)
		assert.Equal(t, kernel.Cents(22), snap.PaymentProcessingFees)
	})

	t.Run("nets the sharer's settlements against the own cost", func(t *testing.T) {
		o := snapshotOrder(t, 0, 0)
		sharer := snapshotRow(t, o, order.RoleSharer, true, 10)
		settled := snapshotPayment(t, o, sharer.ID(), 2000, 0, 0, payment.Paid)

		snap := services.BuildSnapshot(o,
			[]*participant.Participant{sharer},
			[]*payment.Payment{settled}, 0)

		assert.Equal(t, kernel.Cents(10*609-2000), snap.SharerOwnCost)
	})

	t.Run("caps the netting at the own cost", func(t *testing.T) {
		o := snapshotOrder(t, 0, 0)
		sharer := snapshotRow(t, o, order.RoleSharer, true, 10)
		settled := snapshotPayment(t, o, sharer.ID(), 50_000, 0, 0, payment.Paid)

		snap := services.BuildSnapshot(o,
			[]*participant.Participant{sharer},
			[]*payment.Payment{settled}, 0)

		assert.Equal(t, kernel.Cents(0), snap.SharerOwnCost)
	})

	t.Run("passes the consumed cooperative gains through", func(t *testing.T) {
		o := snapshotOrder(t, 0, 0)

		snap := services.BuildSnapshot(o, nil, nil, 2436)

		assert.Equal(t, kernel.Cents(2436), snap.ParticipantCoopGains)
	})
}
