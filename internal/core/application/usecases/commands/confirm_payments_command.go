package commands

import (
	"errors"

	"groupbuy/internal/pkg/guard"
)

var ErrConfirmPaymentsCommandIsNotConstructed = errors.New(
	"ConfirmPaymentsCommand must be created via NewConfirmPaymentsCommand constructor",
)

// ConfirmPaymentsCommand triggers one confirmation sweep over all pending
// payments. The provider is polled for each pending intent and the rows are
// moved to their terminal status, or abandoned after the attempt bound.
type ConfirmPaymentsCommand struct {
	guard guard.ConstructorGuard
}

// NewConfirmPaymentsCommand creates a command to poll pending payments.
func NewConfirmPaymentsCommand() ConfirmPaymentsCommand {
	return ConfirmPaymentsCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *ConfirmPaymentsCommand) Validate() error {
	return c.guard.Validate(ErrConfirmPaymentsCommandIsNotConstructed)
}
