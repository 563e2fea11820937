package commands

import (
	"context"
	"time"

	"groupbuy/internal/core/domain/model/order"
)

// AdvanceOrderCommandHandler handles lifecycle transitions without guards:
// open, the producer's fulfilment chain, delivery, finish and cancel.
type AdvanceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAdvanceOrderCommandHandler creates a handler for order lifecycle transitions.
func NewAdvanceOrderCommandHandler(uowFactory OrderUoWFactory) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the advance command. The actor's role is resolved from
// the order itself; the status machine rejects transitions the actor may
// not drive.
func (h *AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) error {
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

	switch cmd.Target() {
	case order.Open:
		err = aggregate.Open(actor, now)
	case order.Cancelled:
		err = aggregate.Cancel(actor, now)
	default:
		err = aggregate.Advance(actor, cmd.Target(), now)
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
