package commands

import (
	"errors"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/pkg/guard"
)

var ErrUpdateOrderSettingsCommandIsNotConstructed = errors.New(
	"UpdateOrderSettingsCommand must be created via NewUpdateOrderSettingsCommand constructor",
)

// UpdateOrderSettingsCommand represents the sharer's request to change the
// order parameters. Settings are mutable only until the order is locked;
// the aggregate enforces both the actor and the status.
type UpdateOrderSettingsCommand struct { //nolint:recvcheck //using for validation
	orderCode      string
	actorProfileID kernel.UUID
	settings       order.Settings

	guard guard.ConstructorGuard
}

// NewUpdateOrderSettingsCommand creates a command to replace the order
// settings. The settings are validated in depth by the aggregate.
func NewUpdateOrderSettingsCommand(
	orderCode string,
	actorProfileID kernel.UUID,
	settings order.Settings,
) (UpdateOrderSettingsCommand, error) {
	cmd := UpdateOrderSettingsCommand{
		settings: settings,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setActor(actorProfileID),
	); err != nil {
		return UpdateOrderSettingsCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderSettingsCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderSettingsCommandIsNotConstructed)
}

// OrderCode returns the order's short code.
func (c UpdateOrderSettingsCommand) OrderCode() string {
	return c.orderCode
}

// ActorProfileID returns the profile attempting the change.
func (c UpdateOrderSettingsCommand) ActorProfileID() kernel.UUID {
	return c.actorProfileID
}

// Settings returns the replacement order parameters.
func (c UpdateOrderSettingsCommand) Settings() order.Settings {
	return c.settings
}

func (c *UpdateOrderSettingsCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *UpdateOrderSettingsCommand) setActor(actorProfileID kernel.UUID) error {
	if err := actorProfileID.Validate(); err != nil {
		return err
	}

	c.actorProfileID = actorProfileID
	return nil
}
