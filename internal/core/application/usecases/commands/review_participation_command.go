package commands

import (
	"errors"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/guard"
)

var ErrReviewParticipationCommandIsNotConstructed = errors.New(
	"ReviewParticipationCommand must be created via NewReviewParticipationCommand constructor",
)

// ReviewParticipationCommand represents the sharer's decision on a
// requested participation.
type ReviewParticipationCommand struct { //nolint:recvcheck //using for validation
	orderCode      string
	actorProfileID kernel.UUID
	participantID  kernel.UUID
	approve        bool

	guard guard.ConstructorGuard
}

// NewReviewParticipationCommand creates a command to review a participation request.
func NewReviewParticipationCommand(
	orderCode string,
	actorProfileID kernel.UUID,
	participantID kernel.UUID,
	approve bool,
) (ReviewParticipationCommand, error) {
	cmd := ReviewParticipationCommand{
		approve: approve,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setActor(actorProfileID),
		cmd.setParticipantID(participantID),
	); err != nil {
		return ReviewParticipationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReviewParticipationCommand) Validate() error {
	return c.guard.Validate(ErrReviewParticipationCommandIsNotConstructed)
}

// OrderCode returns the order's short code.
func (c ReviewParticipationCommand) OrderCode() string {
	return c.orderCode
}

// ActorProfileID returns the reviewing profile.
func (c ReviewParticipationCommand) ActorProfileID() kernel.UUID {
	return c.actorProfileID
}

// ParticipantID returns the participant row under review.
func (c ReviewParticipationCommand) ParticipantID() kernel.UUID {
	return c.participantID
}

// Approve reports whether the request is accepted.
func (c ReviewParticipationCommand) Approve() bool {
	return c.approve
}

func (c *ReviewParticipationCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *ReviewParticipationCommand) setActor(actorProfileID kernel.UUID) error {
	if err := actorProfileID.Validate(); err != nil {
		return err
	}

	c.actorProfileID = actorProfileID
	return nil
}

func (c *ReviewParticipationCommand) setParticipantID(participantID kernel.UUID) error {
	if err := participantID.Validate(); err != nil {
		return err
	}

	c.participantID = participantID
	return nil
}
