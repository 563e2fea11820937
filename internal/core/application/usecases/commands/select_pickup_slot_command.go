package commands

import (
	"errors"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/guard"
)

var (
	ErrSelectPickupSlotCommandIsNotConstructed = errors.New(
		"SelectPickupSlotCommand must be created via NewSelectPickupSlotCommand constructor",
	)
	ErrPickupDayIsRequired = errors.New("pickup day is required")
)

// SelectPickupSlotCommand represents a participant's request to reserve a
// retrieval window on a delivered order. The client validates the slot
// against its snapshot; the handler revalidates against the latest state.
type SelectPickupSlotCommand struct { //nolint:recvcheck //using for validation
	orderCode    string
	profileID    kernel.UUID
	slotID       kernel.UUID
	requestedDay time.Time

	guard guard.ConstructorGuard
}

// NewSelectPickupSlotCommand creates a command to reserve a pickup slot.
func NewSelectPickupSlotCommand(
	orderCode string,
	profileID kernel.UUID,
	slotID kernel.UUID,
	requestedDay time.Time,
) (SelectPickupSlotCommand, error) {
	cmd := SelectPickupSlotCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setProfileID(profileID),
		cmd.setSlotID(slotID),
		cmd.setRequestedDay(requestedDay),
	); err != nil {
		return SelectPickupSlotCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SelectPickupSlotCommand) Validate() error {
	return c.guard.Validate(ErrSelectPickupSlotCommandIsNotConstructed)
}

// OrderCode returns the order's short code.
func (c SelectPickupSlotCommand) OrderCode() string {
	return c.orderCode
}

// ProfileID returns the booking profile.
func (c SelectPickupSlotCommand) ProfileID() kernel.UUID {
	return c.profileID
}

// SlotID returns the requested slot.
func (c SelectPickupSlotCommand) SlotID() kernel.UUID {
	return c.slotID
}

// RequestedDay returns the calendar day to book the slot on.
func (c SelectPickupSlotCommand) RequestedDay() time.Time {
	return c.requestedDay
}

func (c *SelectPickupSlotCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *SelectPickupSlotCommand) setProfileID(profileID kernel.UUID) error {
	if err := profileID.Validate(); err != nil {
		return err
	}

	c.profileID = profileID
	return nil
}

func (c *SelectPickupSlotCommand) setSlotID(slotID kernel.UUID) error {
	if err := slotID.Validate(); err != nil {
		return err
	}

	c.slotID = slotID
	return nil
}

func (c *SelectPickupSlotCommand) setRequestedDay(day time.Time) error {
	if day.IsZero() {
		return ErrPickupDayIsRequired
	}

	c.requestedDay = day
	return nil
}
