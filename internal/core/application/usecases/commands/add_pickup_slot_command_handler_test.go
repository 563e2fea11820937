package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/application/usecases/commands"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/pkg/errs"
)

func TestAddPickupSlotCommandHandler_Handle(t *testing.T) {
	t.Run("sharer adds a weekly slot", func(t *testing.T) {
		f := newFixture(t, order.Draft)
		cmd, err := commands.NewWeeklyAddPickupSlotCommand(
			testOrderCode, f.sharerProfile, time.Wednesday, 17*60, 19*60, 0)
		require.NoError(t, err)

		h := commands.NewAddPickupSlotCommandHandler(memOrderUoWFactory{f.store})
		require.NoError(t, h.Handle(t.Context(), cmd))

		require.Len(t, f.order.PickupSlots(), 1)
		slot := f.order.PickupSlots()[0]
		require.NotNil(t, slot.Weekday())
		assert.Equal(t, time.Wednesday, *slot.Weekday())
		assert.Equal(t, 17*60, slot.StartMinute())
	})

	t.Run("sharer adds a dated slot", func(t *testing.T) {
		f := newFixture(t, order.Open)
		day := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
		cmd, err := commands.NewDatedAddPickupSlotCommand(
			testOrderCode, f.sharerProfile, day, 10*60, 12*60, 1)
		require.NoError(t, err)

		h := commands.NewAddPickupSlotCommandHandler(memOrderUoWFactory{f.store})
		require.NoError(t, h.Handle(t.Context(), cmd))

		require.Len(t, f.order.PickupSlots(), 1)
		slot := f.order.PickupSlots()[0]
		require.NotNil(t, slot.Date())
		assert.True(t, slot.OccursOn(day))
	})

	t.Run("only the sharer configures slots", func(t *testing.T) {
		f := newFixture(t, order.Open)
		cmd, err := commands.NewWeeklyAddPickupSlotCommand(
			testOrderCode, f.producerProfile, time.Monday, 9*60, 11*60, 0)
		require.NoError(t, err)

		h := commands.NewAddPickupSlotCommandHandler(memOrderUoWFactory{f.store})
		err = h.Handle(t.Context(), cmd)

		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Empty(t, f.order.PickupSlots())
	})

	t.Run("invalid window is rejected before any read", func(t *testing.T) {
		f := newFixture(t, order.Open)
		cmd, err := commands.NewWeeklyAddPickupSlotCommand(
			testOrderCode, f.sharerProfile, time.Monday, 12*60, 10*60, 0)
		require.NoError(t, err)

		h := commands.NewAddPickupSlotCommandHandler(memOrderUoWFactory{f.store})
		err = h.Handle(t.Context(), cmd)

		require.Error(t, err)
		assert.Empty(t, f.order.PickupSlots())
	})
}
