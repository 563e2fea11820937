package commands

import (
	"errors"

	"groupbuy/internal/pkg/guard"
)

var ErrRecoverCommissionInvoicesCommandIsNotConstructed = errors.New(
	"RecoverCommissionInvoicesCommand must be created via NewRecoverCommissionInvoicesCommand constructor",
)

// RecoverCommissionInvoicesCommand triggers one recovery sweep over orders
// that are distributed but still unbilled. This happens when the process
// died between marking an order distributed and recording its invoice, or
// when the billing service was down at distribution time.
type RecoverCommissionInvoicesCommand struct {
	guard guard.ConstructorGuard
}

// NewRecoverCommissionInvoicesCommand creates a command to re-issue missing
// commission invoices.
func NewRecoverCommissionInvoicesCommand() RecoverCommissionInvoicesCommand {
	return RecoverCommissionInvoicesCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *RecoverCommissionInvoicesCommand) Validate() error {
	return c.guard.Validate(ErrRecoverCommissionInvoicesCommandIsNotConstructed)
}
