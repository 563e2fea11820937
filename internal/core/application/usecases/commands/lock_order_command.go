package commands

import (
	"errors"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/guard"
)

var ErrLockOrderCommandIsNotConstructed = errors.New(
	"LockOrderCommand must be created via NewLockOrderCommand constructor",
)

// LockOrderCommand represents the sharer's request to freeze an open order
// for purchasing. Locking verifies the minimum-weight threshold and that the
// sharer carries no unpaid deficit, then snapshots the effective weight.
type LockOrderCommand struct { //nolint:recvcheck //using for validation
	orderCode      string
	actorProfileID kernel.UUID

	guard guard.ConstructorGuard
}

// NewLockOrderCommand creates a command to lock an order.
func NewLockOrderCommand(orderCode string, actorProfileID kernel.UUID) (LockOrderCommand, error) {
	cmd := LockOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setActor(actorProfileID),
	); err != nil {
		return LockOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c LockOrderCommand) Validate() error {
	return c.guard.Validate(ErrLockOrderCommandIsNotConstructed)
}

// OrderCode returns the order's short code.
func (c LockOrderCommand) OrderCode() string {
	return c.orderCode
}

// ActorProfileID returns the profile attempting the lock.
func (c LockOrderCommand) ActorProfileID() kernel.UUID {
	return c.actorProfileID
}

func (c *LockOrderCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *LockOrderCommand) setActor(actorProfileID kernel.UUID) error {
	if err := actorProfileID.Validate(); err != nil {
		return err
	}

	c.actorProfileID = actorProfileID
	return nil
}
