package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/domain/model/coop"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/core/domain/model/participant"
	"groupbuy/internal/core/domain/model/payment"
)

const testOrderCode = "GB-2026-001"

type fixture struct {
	store           *memStore
	order           *order.Order
	sharerProfile   kernel.UUID
	producerProfile kernel.UUID
	sharerRow       *participant.Participant
}

func testSettings() order.Settings {
	maxWeight := kernel.Kilograms(80)
	return order.Settings{
		Visibility:              order.Public,
		MinWeight:               50,
		MaxWeight:               &maxWeight,
		Delivery:                order.NewProducerPickupOption(),
		TakeRatePct:             10,
		Currency:                "EUR",
		LogisticsFee:            4000,
		PlatformFeePct:          5,
		AutoApproveParticipants: true,
		AutoApprovePickups:      true,
	}
}

// newFixture seeds the store with an order in the given status and the
// sharer's own participant row.
func newFixture(t *testing.T, status order.Status) *fixture {
	t.Helper()

	f := &fixture{
		store:           newMemStore(),
		sharerProfile:   kernel.NewUUID(),
		producerProfile: kernel.NewUUID(),
	}
	now := time.Now().UTC()

	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(), testOrderCode,
		f.sharerProfile, f.producerProfile,
		testSettings(), status, 0, "", nil,
		now, now,
	)
	require.NoError(t, err)
	f.order = aggregate
	f.store.orders.byID[aggregate.ID()] = aggregate

	f.sharerRow, err = participant.NewParticipant(
		kernel.NewUUID(), aggregate.ID(), f.sharerProfile,
		order.RoleSharer, false, now,
	)
	require.NoError(t, err)
	f.store.participants.byID[f.sharerRow.ID()] = f.sharerRow

	return f
}

// addParticipant seeds an accepted participant with one priced item line of
// the given quantity (0.5kg units at 548+61=609 cents).
func (f *fixture) addParticipant(t *testing.T, quantity int) *participant.Participant {
	t.Helper()

	row, err := participant.NewParticipant(
		kernel.NewUUID(), f.order.ID(), kernel.NewUUID(),
		order.RoleParticipant, true, time.Now().UTC(),
	)
	require.NoError(t, err)

	if quantity > 0 {
		item, itemErr := participant.NewOrderItem(
			kernel.NewUUID(), kernel.NewUUID(), nil,
			quantity, 0.5, 548, 61, 609,
		)
		require.NoError(t, itemErr)
		require.NoError(t, row.UpsertItem(item, true, time.Now().UTC()))
	}

	f.store.participants.byID[row.ID()] = row
	return row
}

// sharerItems puts one priced item line of the given quantity on the
// sharer's own row.
func (f *fixture) sharerItems(quantity int) (participant.OrderItem, error) {
	item, err := participant.NewOrderItem(
		kernel.NewUUID(), kernel.NewUUID(), nil,
		quantity, 0.5, 548, 61, 609,
	)
	if err != nil {
		return participant.OrderItem{}, err
	}
	if err = f.sharerRow.UpsertItem(item, true, time.Now().UTC()); err != nil {
		return participant.OrderItem{}, err
	}
	return item, nil
}

// addCoopCredit seeds a cooperative-gain credit for a profile, earned on an
// earlier order.
func (f *fixture) addCoopCredit(t *testing.T, profileID kernel.UUID, amount kernel.Cents) *coop.Entry {
	t.Helper()

	entry, err := coop.NewCredit(kernel.NewUUID(), profileID, kernel.NewUUID(), amount, time.Now().UTC())
	require.NoError(t, err)
	f.store.coops.byID[entry.ID()] = entry
	return entry
}

// addCollectedPayment seeds a paid payment row for a participant.
func (f *fixture) addCollectedPayment(t *testing.T, participantID kernel.UUID, amount kernel.Cents) *payment.Payment {
	t.Helper()

	now := time.Now().UTC()
	pay, err := payment.RestorePayment(
		kernel.NewUUID(), f.order.ID(), participantID,
		amount, payment.Paid, "pi_"+kernel.NewUUID().String(), kernel.NewUUID().String(),
		0, 0, 1, now, now,
	)
	require.NoError(t, err)
	f.store.payments.byID[pay.ID()] = pay
	return pay
}
