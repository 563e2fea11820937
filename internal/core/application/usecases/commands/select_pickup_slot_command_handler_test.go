package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/application/usecases/commands"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/core/domain/model/participant"
	"groupbuy/internal/pkg/errs"
)

// addDatedSlot configures a one-off slot on the fixture order.
func addDatedSlot(t *testing.T, f *fixture, date time.Time, startMinute, endMinute int) order.PickupSlot {
	t.Helper()

	slot, err := order.NewDatedPickupSlot(kernel.NewUUID(), date, startMinute, endMinute, 0)
	require.NoError(t, err)
	require.NoError(t, f.order.AddPickupSlot(order.RoleSharer, slot, time.Now().UTC()))
	return slot
}

func TestSelectPickupSlotCommandHandler_Handle(t *testing.T) {
	handle := func(t *testing.T, f *fixture, profileID, slotID kernel.UUID, day time.Time) error {
		t.Helper()
		cmd, err := commands.NewSelectPickupSlotCommand(testOrderCode, profileID, slotID, day)
		require.NoError(t, err)
		h := commands.NewSelectPickupSlotCommandHandler(memParticipationUoWFactory{f.store})
		return h.Handle(t.Context(), cmd)
	}

	t.Run("should reserve the window under auto-approval", func(t *testing.T) {
		f := newFixture(t, order.Delivered)
		day := time.Now().UTC().AddDate(0, 0, 2)
		slot := addDatedSlot(t, f, day, 10*60, 12*60)
		row := f.addParticipant(t, 0)

		require.NoError(t, handle(t, f, row.ProfileID(), slot.ID(), day))

		assert.Equal(t, participant.PickupAccepted, row.PickupStatus())
		require.NotNil(t, row.PickupSlotTime())
		assert.Equal(t, 10, row.PickupSlotTime().Hour())
	})

	t.Run("slots open up at delivery, not before", func(t *testing.T) {
		f := newFixture(t, order.Prepared)
		day := time.Now().UTC().AddDate(0, 0, 2)
		slot := addDatedSlot(t, f, day, 10*60, 12*60)
		row := f.addParticipant(t, 0)

		err := handle(t, f, row.ProfileID(), slot.ID(), day)

		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, participant.PickupNone, row.PickupStatus())
	})

	t.Run("an unknown slot is not found", func(t *testing.T) {
		f := newFixture(t, order.Delivered)
		row := f.addParticipant(t, 0)

		err := handle(t, f, row.ProfileID(), kernel.NewUUID(), time.Now().UTC().AddDate(0, 0, 2))

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("a day the slot does not cover is rejected", func(t *testing.T) {
		f := newFixture(t, order.Delivered)
		day := time.Now().UTC().AddDate(0, 0, 2)
		slot := addDatedSlot(t, f, day, 10*60, 12*60)
		row := f.addParticipant(t, 0)

		err := handle(t, f, row.ProfileID(), slot.ID(), day.AddDate(0, 0, 1))

		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("a new selection releases the previous one", func(t *testing.T) {
		f := newFixture(t, order.Delivered)
		day := time.Now().UTC().AddDate(0, 0, 2)
		first := addDatedSlot(t, f, day, 10*60, 12*60)
		second := addDatedSlot(t, f, day, 14*60, 16*60)
		row := f.addParticipant(t, 0)

		require.NoError(t, handle(t, f, row.ProfileID(), first.ID(), day))
		require.NoError(t, handle(t, f, row.ProfileID(), second.ID(), day))

		require.NotNil(t, row.PickupSlotID())
		assert.True(t, row.PickupSlotID().IsEqual(second.ID()))
		assert.Equal(t, 14, row.PickupSlotTime().Hour())
	})
}
