package commands

import (
	"errors"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/guard"
)

var ErrReviewPickupSlotCommandIsNotConstructed = errors.New(
	"ReviewPickupSlotCommand must be created via NewReviewPickupSlotCommand constructor",
)

// ReviewPickupSlotCommand represents the sharer's decision on a requested
// slot reservation.
type ReviewPickupSlotCommand struct { //nolint:recvcheck //using for validation
	orderCode      string
	actorProfileID kernel.UUID
	participantID  kernel.UUID
	approve        bool

	guard guard.ConstructorGuard
}

// NewReviewPickupSlotCommand creates a command to review a slot reservation.
func NewReviewPickupSlotCommand(
	orderCode string,
	actorProfileID kernel.UUID,
	participantID kernel.UUID,
	approve bool,
) (ReviewPickupSlotCommand, error) {
	cmd := ReviewPickupSlotCommand{
		approve: approve,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setActor(actorProfileID),
		cmd.setParticipantID(participantID),
	); err != nil {
		return ReviewPickupSlotCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReviewPickupSlotCommand) Validate() error {
	return c.guard.Validate(ErrReviewPickupSlotCommandIsNotConstructed)
}

// OrderCode returns the order's short code.
func (c ReviewPickupSlotCommand) OrderCode() string {
	return c.orderCode
}

// ActorProfileID returns the reviewing profile.
func (c ReviewPickupSlotCommand) ActorProfileID() kernel.UUID {
	return c.actorProfileID
}

// ParticipantID returns the participant row under review.
func (c ReviewPickupSlotCommand) ParticipantID() kernel.UUID {
	return c.participantID
}

// Approve reports whether the reservation is accepted.
func (c ReviewPickupSlotCommand) Approve() bool {
	return c.approve
}

func (c *ReviewPickupSlotCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *ReviewPickupSlotCommand) setActor(actorProfileID kernel.UUID) error {
	if err := actorProfileID.Validate(); err != nil {
		return err
	}

	c.actorProfileID = actorProfileID
	return nil
}

func (c *ReviewPickupSlotCommand) setParticipantID(participantID kernel.UUID) error {
	if err := participantID.Validate(); err != nil {
		return err
	}

	c.participantID = participantID
	return nil
}
