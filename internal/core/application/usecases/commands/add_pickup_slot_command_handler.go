package commands

import (
	"context"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
)

// AddPickupSlotCommandHandler handles adding retrieval windows to an order.
type AddPickupSlotCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAddPickupSlotCommandHandler creates a handler for slot configuration.
func NewAddPickupSlotCommandHandler(uowFactory OrderUoWFactory) AddPickupSlotCommandHandler {
	return AddPickupSlotCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the add-slot command. The aggregate rejects the write
// when the actor is not the sharer or the order is already locked.
func (h *AddPickupSlotCommandHandler) Handle(ctx context.Context, cmd AddPickupSlotCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var slot order.PickupSlot
	var err error
	if cmd.Weekday() != nil {
		slot, err = order.NewWeeklyPickupSlot(
			kernel.NewUUID(), *cmd.Weekday(), cmd.StartMinute(), cmd.EndMinute(), cmd.Position())
	} else {
		slot, err = order.NewDatedPickupSlot(
			kernel.NewUUID(), *cmd.Date(), cmd.StartMinute(), cmd.EndMinute(), cmd.Position())
	}
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetByCode(ctx, cmd.OrderCode())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	actor := aggregate.RoleOf(cmd.ActorProfileID())
	if err = aggregate.AddPickupSlot(actor, slot, now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
