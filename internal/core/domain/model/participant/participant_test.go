package participant_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/core/domain/model/participant"
	"groupbuy/internal/pkg/errs"
)

func newParticipant(t *testing.T, role order.Role, autoApprove bool) *participant.Participant {
	t.Helper()
	p, err := participant.NewParticipant(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		role, autoApprove, time.Now(),
	)
	require.NoError(t, err)
	return p
}

func newItem(t *testing.T, quantity int) participant.OrderItem {
	t.Helper()
	item, err := participant.NewOrderItem(
		kernel.NewUUID(), kernel.NewUUID(), nil,
		quantity, 0.5, 548, 61, 609,
	)
	require.NoError(t, err)
	return item
}

func TestNewParticipant(t *testing.T) {
	t.Run("participants start as requested", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, false)

		assert.Equal(t, participant.ParticipationRequested, p.Participation())
		assert.False(t, p.IsAccepted())
		assert.False(t, p.HasActivity())
	})

	t.Run("auto-approval accepts new participants directly", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)

		assert.True(t, p.IsAccepted())
	})

	t.Run("the sharer row is always accepted", func(t *testing.T) {
		p := newParticipant(t, order.RoleSharer, false)

		assert.True(t, p.IsAccepted())
		assert.True(t, p.IsSharer())
	})

	t.Run("a producer cannot be a participant row", func(t *testing.T) {
		_, err := participant.NewParticipant(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			order.RoleProducer, false, time.Now(),
		)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestReviewParticipation(t *testing.T) {
	t.Run("should accept a requested participation", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, false)

		require.NoError(t, p.ReviewParticipation(true, time.Now()))
		assert.True(t, p.IsAccepted())
	})

	t.Run("should reject a requested participation", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, false)

		require.NoError(t, p.ReviewParticipation(false, time.Now()))
		assert.Equal(t, participant.ParticipationRejected, p.Participation())
	})

	t.Run("resolved participations cannot be reviewed again", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)

		err := p.ReviewParticipation(true, time.Now())

		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestParticipantItems(t *testing.T) {
	t.Run("upsert adds a line while the order is open", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)
		item := newItem(t, 4)

		require.NoError(t, p.UpsertItem(item, true, time.Now()))

		assert.Len(t, p.Items(), 1)
		assert.True(t, p.HasActivity())
	})

	t.Run("upsert replaces the line for the same product", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)
		first := newItem(t, 4)
		require.NoError(t, p.UpsertItem(first, true, time.Now()))

		replacement, err := participant.NewOrderItem(
			kernel.NewUUID(), first.ProductID(), nil,
			6, 0.5, 548, 61, 609,
		)
		require.NoError(t, err)
		require.NoError(t, p.UpsertItem(replacement, true, time.Now()))

		require.Len(t, p.Items(), 1)
		assert.Equal(t, 6, p.Items()[0].Quantity())
	})

	t.Run("items freeze once the order leaves open", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)

		err := p.UpsertItem(newItem(t, 4), false, time.Now())

		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("remove deletes a line by id", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)
		item := newItem(t, 4)
		require.NoError(t, p.UpsertItem(item, true, time.Now()))

		require.NoError(t, p.RemoveItem(item.ID(), time.Now()))
		assert.Empty(t, p.Items())
	})

	t.Run("removing an unknown line is not found", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)

		err := p.RemoveItem(kernel.NewUUID(), time.Now())

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("totals are recomputed from the lines", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)
		require.NoError(t, p.UpsertItem(newItem(t, 4), true, time.Now()))
		require.NoError(t, p.UpsertItem(newItem(t, 2), true, time.Now()))

		assert.Equal(t, kernel.Kilograms(3), p.TotalWeight())
		assert.Equal(t, kernel.Cents(6*609), p.TotalAmount())
		assert.Equal(t, kernel.Cents(6*548), p.TotalBaseAmount())
		assert.Equal(t, 6, p.TotalQuantity())
	})
}

func TestSelectPickupSlot(t *testing.T) {
	// Window 17:00-19:00 every Wednesday; 2026-09-02 is a Wednesday.
	now := time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC)
	nextWeek := now.AddDate(0, 0, 7)

	newSlot := func(t *testing.T) order.PickupSlot {
		t.Helper()
		slot, err := order.NewWeeklyPickupSlot(kernel.NewUUID(), time.Wednesday, 17*60, 19*60, 0)
		require.NoError(t, err)
		return slot
	}

	t.Run("should reserve a bookable slot", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)
		slot := newSlot(t)

		err := p.SelectPickupSlot(slot, nextWeek, order.Delivered, false, now)

		require.NoError(t, err)
		require.NotNil(t, p.PickupSlotID())
		assert.True(t, p.PickupSlotID().IsEqual(slot.ID()))
		assert.Equal(t, participant.PickupRequested, p.PickupStatus())
		require.NotNil(t, p.PickupSlotTime())
		assert.Equal(t, slot.StartOn(nextWeek), *p.PickupSlotTime())
	})

	t.Run("auto-approval accepts the selection directly", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)

		err := p.SelectPickupSlot(newSlot(t), nextWeek, order.Delivered, true, now)

		require.NoError(t, err)
		assert.Equal(t, participant.PickupAccepted, p.PickupStatus())
	})

	t.Run("a new selection releases the previous slot", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)
		first := newSlot(t)
		second := newSlot(t)
		require.NoError(t, p.SelectPickupSlot(first, nextWeek, order.Delivered, true, now))

		require.NoError(t, p.SelectPickupSlot(second, nextWeek, order.Delivered, false, now))

		assert.True(t, p.PickupSlotID().IsEqual(second.ID()))
		assert.Equal(t, participant.PickupRequested, p.PickupStatus())
	})

	t.Run("slots open up only from delivered on", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)

		err := p.SelectPickupSlot(newSlot(t), nextWeek, order.Prepared, false, now)

		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("unaccepted participations cannot book", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, false)

		err := p.SelectPickupSlot(newSlot(t), nextWeek, order.Delivered, false, now)

		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("disabled slots cannot be booked", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)
		slot := newSlot(t)
		slot.Disable()

		err := p.SelectPickupSlot(slot, nextWeek, order.Delivered, false, now)

		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestReviewPickupSlot(t *testing.T) {
	now := time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC)
	nextWeek := now.AddDate(0, 0, 7)

	requested := func(t *testing.T) *participant.Participant {
		t.Helper()
		p := newParticipant(t, order.RoleParticipant, true)
		slot, err := order.NewWeeklyPickupSlot(kernel.NewUUID(), time.Wednesday, 17*60, 19*60, 0)
		require.NoError(t, err)
		require.NoError(t, p.SelectPickupSlot(slot, nextWeek, order.Delivered, false, now))
		return p
	}

	t.Run("should accept a requested selection", func(t *testing.T) {
		p := requested(t)

		require.NoError(t, p.ReviewPickupSlot(true, now))
		assert.Equal(t, participant.PickupAccepted, p.PickupStatus())
	})

	t.Run("should reject a requested selection", func(t *testing.T) {
		p := requested(t)

		require.NoError(t, p.ReviewPickupSlot(false, now))
		assert.Equal(t, participant.PickupRejected, p.PickupStatus())
	})

	t.Run("nothing to review without a selection", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)

		err := p.ReviewPickupSlot(true, now)

		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestIssuePickupCode(t *testing.T) {
	t.Run("should issue once and stay idempotent", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)

		require.NoError(t, p.IssuePickupCode("4711", time.Now()))
		assert.Equal(t, "4711", p.PickupCode())

		assert.NoError(t, p.IssuePickupCode("4711", time.Now()), "same code is a no-op")

		err := p.IssuePickupCode("9999", time.Now())
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, "4711", p.PickupCode())
	})

	t.Run("should require a code", func(t *testing.T) {
		p := newParticipant(t, order.RoleParticipant, true)

		err := p.IssuePickupCode("", time.Now())

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRestoreParticipant(t *testing.T) {
	t.Run("should restore statuses and items", func(t *testing.T) {
		slotID := kernel.NewUUID()
		slotTime := time.Date(2026, time.September, 9, 17, 0, 0, 0, time.UTC)
		item := newItem(t, 4)

		p, err := participant.RestoreParticipant(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			order.RoleParticipant,
			participant.ParticipationAccepted,
			&slotID, &slotTime, participant.PickupAccepted, "4711",
			[]participant.OrderItem{item},
			time.Now().Add(-time.Hour), time.Now(),
		)

		require.NoError(t, err)
		assert.True(t, p.IsAccepted())
		assert.Equal(t, participant.PickupAccepted, p.PickupStatus())
		assert.Equal(t, "4711", p.PickupCode())
		assert.Len(t, p.Items(), 1)
	})

	t.Run("should reject unconstructed items", func(t *testing.T) {
		_, err := participant.RestoreParticipant(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			order.RoleParticipant,
			participant.ParticipationAccepted,
			nil, nil, participant.PickupNone, "",
			[]participant.OrderItem{{}},
			time.Now(), time.Now(),
		)

		assert.ErrorIs(t, err, participant.ErrOrderItemIsNotConstructed)
	})
}
