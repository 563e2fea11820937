package commands

import (
	"context"
	"time"
)

// SelectPickupSlotCommandHandler reserves a retrieval window for a
// participant. The booking rules run against the freshly loaded order and
// participant rows, never against the client's snapshot.
type SelectPickupSlotCommandHandler struct {
	uowFactory ParticipationUoWFactory
}

// NewSelectPickupSlotCommandHandler creates a handler for slot reservations.
func NewSelectPickupSlotCommandHandler(uowFactory ParticipationUoWFactory) SelectPickupSlotCommandHandler {
	return SelectPickupSlotCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the slot selection command.
func (h *SelectPickupSlotCommandHandler) Handle(ctx context.Context, cmd SelectPickupSlotCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().GetByCode(ctx, cmd.OrderCode())
	if err != nil {
		return err
	}

	slot, err := aggregate.SlotByID(cmd.SlotID())
	if err != nil {
		return err
	}

	participantRepo := uow.ParticipantRepository()
	row, err := participantRepo.GetByOrderAndProfile(ctx, aggregate.ID(), cmd.ProfileID())
	if err != nil {
		return err
	}

	err = row.SelectPickupSlot(
		slot, cmd.RequestedDay(),
		aggregate.Status(),
		aggregate.Settings().AutoApprovePickups,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	if err = participantRepo.Update(ctx, row); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
