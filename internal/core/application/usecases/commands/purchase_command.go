package commands

import (
	"errors"
	"fmt"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/guard"
)

var (
	ErrPurchaseCommandIsNotConstructed = errors.New(
		"PurchaseCommand must be created via NewPurchaseCommand constructor",
	)
	ErrIdempotencyKeyIsRequired = errors.New("idempotency key is required")
	ErrPurchaseLinesAreRequired = errors.New("at least one purchase line is required")
)

// PurchaseLine is one requested product line of a purchase.
type PurchaseLine struct {
	ProductID kernel.UUID
	LotID     *kernel.UUID
	Quantity  int
}

func (l PurchaseLine) validate() error {
	if err := l.ProductID.Validate(); err != nil {
		return err
	}
	if l.LotID != nil {
		if err := l.LotID.Validate(); err != nil {
			return err
		}
	}
	if l.Quantity <= 0 {
		return fmt.Errorf("quantity %d must be greater than 0", l.Quantity)
	}
	return nil
}

// PurchaseCommand represents a participant's purchase on an open order:
// a set of product lines priced at the current projected weight, paid in one
// payment attempt identified by the idempotency key.
//
// Retrying a purchase after a network failure reuses the same key; the saga
// recognizes the already-created payment and never charges twice.
type PurchaseCommand struct { //nolint:recvcheck //using for validation
	orderCode      string
	profileID      kernel.UUID
	idempotencyKey string
	lines          []PurchaseLine

	guard guard.ConstructorGuard
}

// NewPurchaseCommand creates a command to purchase product lines.
func NewPurchaseCommand(
	orderCode string,
	profileID kernel.UUID,
	idempotencyKey string,
	lines []PurchaseLine,
) (PurchaseCommand, error) {
	cmd := PurchaseCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderCode(orderCode),
		cmd.setProfileID(profileID),
		cmd.setIdempotencyKey(idempotencyKey),
		cmd.setLines(lines),
	); err != nil {
		return PurchaseCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PurchaseCommand) Validate() error {
	return c.guard.Validate(ErrPurchaseCommandIsNotConstructed)
}

// OrderCode returns the order's short code.
func (c PurchaseCommand) OrderCode() string {
	return c.orderCode
}

// ProfileID returns the purchasing profile.
func (c PurchaseCommand) ProfileID() kernel.UUID {
	return c.profileID
}

// IdempotencyKey returns the key identifying this logical payment attempt.
func (c PurchaseCommand) IdempotencyKey() string {
	return c.idempotencyKey
}

// Lines returns the requested product lines.
func (c PurchaseCommand) Lines() []PurchaseLine {
	return c.lines
}

func (c *PurchaseCommand) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	c.orderCode = code
	return nil
}

func (c *PurchaseCommand) setProfileID(profileID kernel.UUID) error {
	if err := profileID.Validate(); err != nil {
		return err
	}

	c.profileID = profileID
	return nil
}

func (c *PurchaseCommand) setIdempotencyKey(key string) error {
	if key == "" {
		return ErrIdempotencyKeyIsRequired
	}

	c.idempotencyKey = key
	return nil
}

func (c *PurchaseCommand) setLines(lines []PurchaseLine) error {
	if len(lines) == 0 {
		return ErrPurchaseLinesAreRequired
	}
	for _, line := range lines {
		if err := line.validate(); err != nil {
			return err
		}
	}

	c.lines = lines
	return nil
}
