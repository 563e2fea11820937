package commands

import (
	"context"
	"fmt"
	"time"

	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/pkg/errs"
)

// ReviewPickupSlotCommandHandler resolves requested slot reservations.
type ReviewPickupSlotCommandHandler struct {
	uowFactory ParticipationUoWFactory
}

// NewReviewPickupSlotCommandHandler creates a handler for slot reviews.
func NewReviewPickupSlotCommandHandler(uowFactory ParticipationUoWFactory) ReviewPickupSlotCommandHandler {
	return ReviewPickupSlotCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the review command. Only the order's sharer reviews.
func (h *ReviewPickupSlotCommandHandler) Handle(ctx context.Context, cmd ReviewPickupSlotCommand) error {
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
	if actor := aggregate.RoleOf(cmd.ActorProfileID()); actor != order.RoleSharer {
		return errs.NewConflictError("review pickup slot",
			fmt.Sprintf("reviews are driven by the sharer, not the %s", actor))
	}

	participantRepo := uow.ParticipantRepository()
	row, err := participantRepo.Get(ctx, cmd.ParticipantID())
	if err != nil {
		return err
	}
	if !row.OrderID().IsEqual(aggregate.ID()) {
		return errs.NewObjectNotFoundError("participantId", cmd.ParticipantID().String())
	}

	if err = row.ReviewPickupSlot(cmd.Approve(), time.Now().UTC()); err != nil {
		return err
	}

	if err = participantRepo.Update(ctx, row); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
