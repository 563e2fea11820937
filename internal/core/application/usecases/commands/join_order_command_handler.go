package commands

import (
	"context"
	"errors"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/participant"
	"groupbuy/internal/pkg/errs"
)

// JoinOrderCommandHandler creates the participant row for a joining profile.
type JoinOrderCommandHandler struct {
	uowFactory ParticipationUoWFactory
}

// NewJoinOrderCommandHandler creates a handler for join requests.
func NewJoinOrderCommandHandler(uowFactory ParticipationUoWFactory) JoinOrderCommandHandler {
	return JoinOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the join command. The order must be open, the profile
// must not be the producer and must not have joined already.
func (h *JoinOrderCommandHandler) Handle(ctx context.Context, cmd JoinOrderCommand) error {
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
	if !aggregate.IsOpen() {
		return errs.NewConflictError("join order", "order is not open for participation")
	}

	participantRepo := uow.ParticipantRepository()
	existing, err := participantRepo.GetByOrderAndProfile(ctx, aggregate.ID(), cmd.ProfileID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if existing != nil {
		return errs.NewConflictError("join order", "profile has already joined this order")
	}

	// The sharer's own row is created with the order, so a sharer profile is
	// caught by the duplicate check above. The producer is rejected by the
	// participant constructor.
	row, err := participant.NewParticipant(
		kernel.NewUUID(), aggregate.ID(), cmd.ProfileID(),
		aggregate.RoleOf(cmd.ProfileID()),
		aggregate.Settings().AutoApproveParticipants,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	if err = participantRepo.Add(ctx, row); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
