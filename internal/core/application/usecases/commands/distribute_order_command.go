package commands

import (
	"errors"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/guard"
)

var ErrDistributeOrderCommandIsNotConstructed = errors.New(
	"DistributeOrderCommand must be created via NewDistributeOrderCommand constructor",
)

// DistributeOrderCommand represents the sharer's confirmation that all
// participants have retrieved their shares. Entering Distributed issues the
// platform commission invoice to the producer exactly once.
type DistributeOrderCommand struct { //nolint:recvcheck //using for validation
	orderCode      string
	actorProfileID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDistributeOrderCommand creates a command to distribute an order.
func NewDistributeOrderCommand(orderCode string, actorProfileID kernel.UUID) (DistributeOrderCommand, error) {
	cmd := DistributeOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setActor(actorProfileID),
	); err != nil {
		return DistributeOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DistributeOrderCommand) Validate() error {
	return c.guard.Validate(ErrDistributeOrderCommandIsNotConstructed)
}

// OrderCode returns the order's short code.
func (c DistributeOrderCommand) OrderCode() string {
	return c.orderCode
}

// ActorProfileID returns the profile attempting the distribution.
func (c DistributeOrderCommand) ActorProfileID() kernel.UUID {
	return c.actorProfileID
}

func (c *DistributeOrderCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *DistributeOrderCommand) setActor(actorProfileID kernel.UUID) error {
	if err := actorProfileID.Validate(); err != nil {
		return err
	}

	c.actorProfileID = actorProfileID
	return nil
}
