package commands

import (
	"errors"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/guard"
)

var ErrJoinOrderCommandIsNotConstructed = errors.New(
	"JoinOrderCommand must be created via NewJoinOrderCommand constructor",
)

// JoinOrderCommand represents a profile's request to participate in an open
// order. Depending on the order's settings the participation is accepted
// immediately or awaits the sharer's review.
type JoinOrderCommand struct { //nolint:recvcheck //using for validation
	orderCode string
	profileID kernel.UUID

	guard guard.ConstructorGuard
}

// NewJoinOrderCommand creates a command to join an order.
func NewJoinOrderCommand(orderCode string, profileID kernel.UUID) (JoinOrderCommand, error) {
	cmd := JoinOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setProfileID(profileID),
	); err != nil {
		return JoinOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c JoinOrderCommand) Validate() error {
	return c.guard.Validate(ErrJoinOrderCommandIsNotConstructed)
}

// OrderCode returns the order's short code.
func (c JoinOrderCommand) OrderCode() string {
	return c.orderCode
}

// ProfileID returns the joining profile's id.
func (c JoinOrderCommand) ProfileID() kernel.UUID {
	return c.profileID
}

func (c *JoinOrderCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *JoinOrderCommand) setProfileID(profileID kernel.UUID) error {
	if err := profileID.Validate(); err != nil {
		return err
	}

	c.profileID = profileID
	return nil
}
