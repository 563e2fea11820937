package ports

import (
	"context"

	"groupbuy/internal/core/domain/model/kernel"
)

// InvoiceIssuer issues billing documents against the invoice service.
//
// IssueCommissionInvoice is idempotent on the order id: re-invoking it for
// the same order returns the id of the already-issued invoice. This lets the
// distribute operation and the recovery job share one code path.
//
// IssueParticipantInvoice documents a purchase settled from a participant's
// cooperative-gain balance instead of a provider charge. It is idempotent on
// the purchase's idempotency key.
type InvoiceIssuer interface {
	IssueCommissionInvoice(ctx context.Context, orderID kernel.UUID, amount kernel.Cents, currency kernel.Currency) (invoiceID string, err error)

	IssueParticipantInvoice(ctx context.Context, idempotencyKey string, orderID, participantID kernel.UUID, amount kernel.Cents, currency kernel.Currency) (invoiceID string, err error)
}
