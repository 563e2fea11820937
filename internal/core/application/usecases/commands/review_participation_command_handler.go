package commands

import (
	"context"
	"fmt"
	"time"

	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/pkg/errs"
)

// ReviewParticipationCommandHandler resolves requested participations.
type ReviewParticipationCommandHandler struct {
	uowFactory ParticipationUoWFactory
}

// NewReviewParticipationCommandHandler creates a handler for participation reviews.
func NewReviewParticipationCommandHandler(uowFactory ParticipationUoWFactory) ReviewParticipationCommandHandler {
	return ReviewParticipationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the review command. Only the order's sharer reviews.
func (h *ReviewParticipationCommandHandler) Handle(ctx context.Context, cmd ReviewParticipationCommand) error {
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
		return errs.NewConflictError("review participation",
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

	if err = row.ReviewParticipation(cmd.Approve(), time.Now().UTC()); err != nil {
		return err
	}

	if err = participantRepo.Update(ctx, row); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
