package commands

import (
	"context"
	"time"
)

// UpdateOrderSettingsCommandHandler handles settings changes on draft and
// open orders.
type UpdateOrderSettingsCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewUpdateOrderSettingsCommandHandler creates a handler for settings updates.
func NewUpdateOrderSettingsCommandHandler(uowFactory OrderUoWFactory) UpdateOrderSettingsCommandHandler {
	return UpdateOrderSettingsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the settings update command.
func (h *UpdateOrderSettingsCommandHandler) Handle(ctx context.Context, cmd UpdateOrderSettingsCommand) error {
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

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetByCode(ctx, cmd.OrderCode())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	actor := aggregate.RoleOf(cmd.ActorProfileID())
	if err = aggregate.UpdateSettings(actor, cmd.Settings(), now); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
