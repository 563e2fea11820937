package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/application/usecases/commands"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/pkg/errs"
)

func TestLockOrderCommandHandler_Handle(t *testing.T) {
	handle := func(t *testing.T, f *fixture, actor kernel.UUID) error {
		t.Helper()
		cmd, err := commands.NewLockOrderCommand(testOrderCode, actor)
		require.NoError(t, err)
		h := commands.NewLockOrderCommandHandler(memUoWFactory{f.store})
		return h.Handle(t.Context(), cmd)
	}

	t.Run("should lock once the minimum weight is committed", func(t *testing.T) {
		f := newFixture(t, order.Open)
		// 110 units of 0.5kg = 55kg, above the 50kg minimum.
		f.addParticipant(t, 110)

		require.NoError(t, handle(t, f, f.sharerProfile))

		assert.Equal(t, order.Locked, f.order.Status())
		assert.Equal(t, kernel.Kilograms(55), f.order.EffectiveWeight())
	})

	t.Run("should reject a lock below the minimum weight", func(t *testing.T) {
		f := newFixture(t, order.Open)
		f.addParticipant(t, 10)

		err := handle(t, f, f.sharerProfile)

		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, order.Open, f.order.Status())
	})

	t.Run("should reject a lock while the sharer deficit is unpaid", func(t *testing.T) {
		f := newFixture(t, order.Open)
		f.addParticipant(t, 110)

		// Participant turnover of 110*609=66990c earns the sharer 6699c at
		// 10%. 200 own units cost 121800c, far beyond the earnings.
		_, err := f.sharerItems(200)
		require.NoError(t, err)

		lockErr := handle(t, f, f.sharerProfile)

		assert.ErrorIs(t, lockErr, errs.ErrConflict)
		assert.Equal(t, order.Open, f.order.Status())
	})

	t.Run("a settled deficit unblocks the lock", func(t *testing.T) {
		f := newFixture(t, order.Open)
		f.addParticipant(t, 110)
		_, err := f.sharerItems(200)
		require.NoError(t, err)

		// 200 units * 609c = 121800c own cost, earnings 6699c: the deficit
		// is 115101c. Settle it in full.
		f.addCollectedPayment(t, f.sharerRow.ID(), 115101)

		require.NoError(t, handle(t, f, f.sharerProfile))
		assert.Equal(t, order.Locked, f.order.Status())
	})

	t.Run("only the sharer locks", func(t *testing.T) {
		f := newFixture(t, order.Open)
		f.addParticipant(t, 110)

		err := handle(t, f, f.producerProfile)

		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}
