package commands

import (
	"errors"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand represents a request to move an order along its
// lifecycle: publishing it, the producer's fulfilment steps, delivery,
// finishing and cancellation. Locking and distribution carry guards and
// side effects and have dedicated commands.
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	orderCode      string
	actorProfileID kernel.UUID
	target         order.Status

	guard guard.ConstructorGuard
}

// NewAdvanceOrderCommand creates a command to advance an order's status.
// The actor's role on the order is resolved by the handler; transition
// authority is enforced by the status machine.
func NewAdvanceOrderCommand(orderCode string, actorProfileID kernel.UUID, target order.Status) (AdvanceOrderCommand, error) {
	cmd := AdvanceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setActor(actorProfileID),
		cmd.setTarget(target),
	); err != nil {
		return AdvanceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

// OrderCode returns the order's short code.
func (c AdvanceOrderCommand) OrderCode() string {
	return c.orderCode
}

// ActorProfileID returns the profile attempting the transition.
func (c AdvanceOrderCommand) ActorProfileID() kernel.UUID {
	return c.actorProfileID
}

// Target returns the requested lifecycle status.
func (c AdvanceOrderCommand) Target() order.Status {
	return c.target
}

func (c *AdvanceOrderCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *AdvanceOrderCommand) setActor(actorProfileID kernel.UUID) error {
	if err := actorProfileID.Validate(); err != nil {
		return err
	}

	c.actorProfileID = actorProfileID
	return nil
}

func (c *AdvanceOrderCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return err
	}

	c.target = target
	return nil
}
