package commands

import (
	"context"
	"time"

	"groupbuy/internal/core/domain/model/coop"
	"groupbuy/internal/core/domain/services"
)

// LockOrderCommandHandler freezes an open order for purchasing.
//
// The committed weight and the sharer's outstanding deficit are both
// recomputed inside the transaction from the latest participant and payment
// rows, so a stale client view can never lock an order that no longer
// qualifies.
type LockOrderCommandHandler struct {
	uowFactory UoWFactory
	settlement services.SettlementCalculator
}

// NewLockOrderCommandHandler creates a handler for order locking.
func NewLockOrderCommandHandler(uowFactory UoWFactory) LockOrderCommandHandler {
	return LockOrderCommandHandler{
		uowFactory: uowFactory,
		settlement: services.NewSettlementCalculator(),
	}
}

// Handle processes the lock command.
func (h *LockOrderCommandHandler) Handle(ctx context.Context, cmd LockOrderCommand) error {
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

	participants, err := uow.ParticipantRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return err
	}
	payments, err := uow.PaymentRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return err
	}

	ledger, err := uow.CoopRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return err
	}

	// The full split needs every payment collected; at lock time only the
	// sharer's outstanding deficit matters.
	snapshot := services.BuildSnapshot(aggregate, participants, payments, coop.ConsumedTotal(ledger))

	err = aggregate.Lock(
		aggregate.RoleOf(cmd.ActorProfileID()),
		services.CommittedWeight(participants),
		h.settlement.Deficit(snapshot),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
