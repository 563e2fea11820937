package commands

import (
	"errors"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/guard"
)

var ErrSettleSharerDeficitCommandIsNotConstructed = errors.New(
	"SettleSharerDeficitCommand must be created via NewSettleSharerDeficitCommand constructor",
)

// SettleSharerDeficitCommand represents the sharer paying the gap between
// their own purchase cost and their earned share. The order cannot be locked
// while this deficit is outstanding.
type SettleSharerDeficitCommand struct { //nolint:recvcheck //using for validation
	orderCode      string
	actorProfileID kernel.UUID
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewSettleSharerDeficitCommand creates a command to settle the sharer's deficit.
func NewSettleSharerDeficitCommand(
	orderCode string,
	actorProfileID kernel.UUID,
	idempotencyKey string,
) (SettleSharerDeficitCommand, error) {
	cmd := SettleSharerDeficitCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setActor(actorProfileID),
		cmd.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return SettleSharerDeficitCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SettleSharerDeficitCommand) Validate() error {
	return c.guard.Validate(ErrSettleSharerDeficitCommandIsNotConstructed)
}

// OrderCode returns the order's short code.
func (c SettleSharerDeficitCommand) OrderCode() string {
	return c.orderCode
}

// ActorProfileID returns the paying sharer's profile.
func (c SettleSharerDeficitCommand) ActorProfileID() kernel.UUID {
	return c.actorProfileID
}

// IdempotencyKey returns the key identifying this payment attempt.
func (c SettleSharerDeficitCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

func (c *SettleSharerDeficitCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *SettleSharerDeficitCommand) setActor(actorProfileID kernel.UUID) error {
	if err := actorProfileID.Validate(); err != nil {
		return err
	}

	c.actorProfileID = actorProfileID
	return nil
}

func (c *SettleSharerDeficitCommand) setIdempotencyKey(key string) error {
	if key == "" {
		return ErrIdempotencyKeyIsRequired
	}

	c.idempotencyKey = key
	return nil
}
