package commands

import (
	"errors"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/errs"
	"groupbuy/internal/pkg/guard"
)

var ErrAddPickupSlotCommandIsNotConstructed = errors.New(
	"AddPickupSlotCommand must be created via NewAddPickupSlotCommand constructor",
)

// AddPickupSlotCommand represents the sharer's request to add a retrieval
// window to an order. Recurring slots carry a weekday, one-off slots carry
// an explicit date; exactly one of the two is set.
type AddPickupSlotCommand struct { //nolint:recvcheck //using for validation
	orderCode      string
	actorProfileID kernel.UUID

	weekday *time.Weekday
	date    *time.Time

	startMinute int
	endMinute   int
	position    int

	guard guard.ConstructorGuard
}

// NewWeeklyAddPickupSlotCommand creates a command for a recurring slot.
func NewWeeklyAddPickupSlotCommand(
	orderCode string,
	actorProfileID kernel.UUID,
	weekday time.Weekday,
	startMinute, endMinute, position int,
) (AddPickupSlotCommand, error) {
	cmd := AddPickupSlotCommand{
		weekday:     &weekday,
		startMinute: startMinute,
		endMinute:   endMinute,
		position:    position,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setActor(actorProfileID),
		cmd.checkWeekday(weekday),
	); err != nil {
		return AddPickupSlotCommand{}, err
	}

	return cmd, nil
}

// NewDatedAddPickupSlotCommand creates a command for a one-off slot.
func NewDatedAddPickupSlotCommand(
	orderCode string,
	actorProfileID kernel.UUID,
	date time.Time,
	startMinute, endMinute, position int,
) (AddPickupSlotCommand, error) {
	cmd := AddPickupSlotCommand{
		date:        &date,
		startMinute: startMinute,
		endMinute:   endMinute,
		position:    position,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setActor(actorProfileID),
	); err != nil {
		return AddPickupSlotCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through a constructor.
func (c AddPickupSlotCommand) Validate() error {
	return c.guard.Validate(ErrAddPickupSlotCommandIsNotConstructed)
}

// OrderCode returns the order's short code.
func (c AddPickupSlotCommand) OrderCode() string {
	return c.orderCode
}

// ActorProfileID returns the profile adding the slot.
func (c AddPickupSlotCommand) ActorProfileID() kernel.UUID {
	return c.actorProfileID
}

// Weekday returns the recurring weekday, or nil for dated slots.
func (c AddPickupSlotCommand) Weekday() *time.Weekday {
	return c.weekday
}

// Date returns the explicit date, or nil for weekly slots.
func (c AddPickupSlotCommand) Date() *time.Time {
	return c.date
}

// StartMinute returns the window start in minutes from midnight.
func (c AddPickupSlotCommand) StartMinute() int {
	return c.startMinute
}

// EndMinute returns the window end in minutes from midnight.
func (c AddPickupSlotCommand) EndMinute() int {
	return c.endMinute
}

// Position returns the display ordering of the slot.
func (c AddPickupSlotCommand) Position() int {
	return c.position
}

func (c *AddPickupSlotCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *AddPickupSlotCommand) setActor(actorProfileID kernel.UUID) error {
	if err := actorProfileID.Validate(); err != nil {
		return err
	}

	c.actorProfileID = actorProfileID
	return nil
}

func (c *AddPickupSlotCommand) checkWeekday(weekday time.Weekday) error {
	if weekday < time.Sunday || weekday > time.Saturday {
		return errs.NewValueIsOutOfRangeError("weekday", int(weekday), int(time.Sunday), int(time.Saturday))
	}
	return nil
}
