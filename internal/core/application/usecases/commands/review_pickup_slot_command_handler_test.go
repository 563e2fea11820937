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

// addRequestedPickup seeds an accepted participant whose slot selection still
// awaits the sharer's review.
func addRequestedPickup(t *testing.T, f *fixture) *participant.Participant {
	t.Helper()

	now := time.Now().UTC()
	slotID := kernel.NewUUID()
	slotTime := now.AddDate(0, 0, 2)

	row, err := participant.RestoreParticipant(
		kernel.NewUUID(), f.order.ID(), kernel.NewUUID(),
		order.RoleParticipant, participant.ParticipationAccepted,
		&slotID, &slotTime, participant.PickupRequested,
		"", nil, now, now,
	)
	require.NoError(t, err)

	f.store.participants.byID[row.ID()] = row
	return row
}

func TestReviewPickupSlotCommandHandler_Handle(t *testing.T) {
	handle := func(t *testing.T, f *fixture, actor, participantID kernel.UUID, approve bool) error {
		t.Helper()
		cmd, err := commands.NewReviewPickupSlotCommand(testOrderCode, actor, participantID, approve)
		require.NoError(t, err)
		h := commands.NewReviewPickupSlotCommandHandler(memParticipationUoWFactory{f.store})
		return h.Handle(t.Context(), cmd)
	}

	t.Run("sharer confirms a requested slot", func(t *testing.T) {
		f := newFixture(t, order.Delivered)
		row := addRequestedPickup(t, f)

		require.NoError(t, handle(t, f, f.sharerProfile, row.ID(), true))
		assert.Equal(t, participant.PickupAccepted, row.PickupStatus())
	})

	t.Run("sharer declines a requested slot", func(t *testing.T) {
		f := newFixture(t, order.Delivered)
		row := addRequestedPickup(t, f)

		require.NoError(t, handle(t, f, f.sharerProfile, row.ID(), false))
		assert.Equal(t, participant.PickupRejected, row.PickupStatus())
	})

	t.Run("only the sharer reviews", func(t *testing.T) {
		f := newFixture(t, order.Delivered)
		row := addRequestedPickup(t, f)

		err := handle(t, f, row.ProfileID(), row.ID(), true)

		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("a row without a requested slot cannot be reviewed", func(t *testing.T) {
		f := newFixture(t, order.Delivered)
		row := f.addParticipant(t, 0)

		err := handle(t, f, f.sharerProfile, row.ID(), true)

		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}
