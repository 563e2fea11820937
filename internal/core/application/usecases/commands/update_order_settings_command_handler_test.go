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

func TestUpdateOrderSettingsCommandHandler_Handle(t *testing.T) {
	handle := func(t *testing.T, f *fixture, actor kernel.UUID, settings order.Settings) error {
		t.Helper()
		cmd, err := commands.NewUpdateOrderSettingsCommand(testOrderCode, actor, settings)
		require.NoError(t, err)
		h := commands.NewUpdateOrderSettingsCommandHandler(memOrderUoWFactory{f.store})
		return h.Handle(t.Context(), cmd)
	}

	t.Run("sharer raises the minimum weight on an open order", func(t *testing.T) {
		f := newFixture(t, order.Open)
		settings := testSettings()
		settings.MinWeight = 60

		require.NoError(t, handle(t, f, f.sharerProfile, settings))
		assert.Equal(t, kernel.Kilograms(60), f.order.Settings().MinWeight)
	})

	t.Run("producer may not change settings", func(t *testing.T) {
		f := newFixture(t, order.Open)
		settings := testSettings()
		settings.TakeRatePct = 0

		err := handle(t, f, f.producerProfile, settings)

		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, 10, f.order.Settings().TakeRatePct)
	})

	t.Run("locked orders are frozen", func(t *testing.T) {
		f := newFixture(t, order.Locked)
		settings := testSettings()
		settings.LogisticsFee = 5000

		err := handle(t, f, f.sharerProfile, settings)

		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, kernel.Cents(4000), f.order.Settings().LogisticsFee)
	})
}
