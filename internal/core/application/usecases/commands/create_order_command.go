package commands

import (
	"errors"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderCodeIsRequired = errors.New("order code is required")
)

// CreateOrderCommand represents a request to create a new group-buy order.
// The order is created in Draft status together with the sharer's own
// participant row; publishing it for participation is a separate operation.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), "GB-2026-001", sharerID, producerID, settings)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	code       string
	sharerID   kernel.UUID
	producerID kernel.UUID
	settings   order.Settings

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new group-buy order.
// The settings are validated in depth by the order aggregate; the command
// only checks identities and the code.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	code string,
	sharerID kernel.UUID,
	producerID kernel.UUID,
	settings order.Settings,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		settings: settings,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCode(code),
		cmd.setParties(sharerID, producerID),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Code returns the short human-readable order code.
func (c CreateOrderCommand) Code() string {
	return c.code
}

// SharerID returns the organizing sharer's profile id.
func (c CreateOrderCommand) SharerID() kernel.UUID {
	return c.sharerID
}

// ProducerID returns the fulfilling producer's profile id.
func (c CreateOrderCommand) ProducerID() kernel.UUID {
	return c.producerID
}

// Settings returns the sharer-configured order parameters.
func (c CreateOrderCommand) Settings() order.Settings {
	return c.settings
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.code = code
	return nil
}

func (c *CreateOrderCommand) setParties(sharerID, producerID kernel.UUID) error {
	if err := sharerID.Validate(); err != nil {
		return err
	}
	if err := producerID.Validate(); err != nil {
		return err
	}

	c.sharerID = sharerID
	c.producerID = producerID
	return nil
}
