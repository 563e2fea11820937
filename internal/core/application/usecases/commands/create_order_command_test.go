package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groupbuy/internal/core/application/usecases/commands"
	"groupbuy/internal/core/domain/model/kernel"
)

func TestNewCreateOrderCommand(t *testing.T) {
	t.Run("should construct with valid inputs", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), testOrderCode,
			kernel.NewUUID(), kernel.NewUUID(),
			testSettings(),
		)

		require.NoError(t, err)
		assert.NoError(t, cmd.Validate())
		assert.Equal(t, testOrderCode, cmd.Code())
	})

	t.Run("should require a code", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.NewUUID(), "",
			kernel.NewUUID(), kernel.NewUUID(),
			testSettings(),
		)

		assert.ErrorIs(t, err, commands.ErrOrderCodeIsRequired)
	})

	t.Run("should reject invalid identities", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(
			kernel.UUID{}, testOrderCode,
			kernel.NewUUID(), kernel.NewUUID(),
			testSettings(),
		)

		assert.Error(t, err)
	})

	t.Run("zero-value commands fail validation", func(t *testing.T) {
		var cmd commands.CreateOrderCommand
		assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
	})
}
