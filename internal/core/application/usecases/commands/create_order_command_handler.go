package commands

import (
	"context"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/core/domain/model/participant"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Creates the draft order and the sharer's own participant row in one
// transaction, so the sharer can purchase on their own order like anyone
// else.
type CreateOrderCommandHandler struct {
	uowFactory ParticipationUoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory ParticipationUoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	aggregate, err := order.NewOrder(
		cmd.OrderID(), cmd.Code(),
		cmd.SharerID(), cmd.ProducerID(),
		cmd.Settings(), now,
	)
	if err != nil {
		return err
	}

	sharerRow, err := participant.NewParticipant(
		kernel.NewUUID(), aggregate.ID(), cmd.SharerID(),
		order.RoleSharer, false, now,
	)
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

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.ParticipantRepository().Add(ctx, sharerRow); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
