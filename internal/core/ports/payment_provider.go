package ports

import (
	"context"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/payment"
)

// PaymentIntent is the provider's handle for a created charge.
type PaymentIntent struct {
	// ProviderRef is the provider-side identifier, stored on the payment row.
	ProviderRef string

	// Status is the provider's initial status mapped to the domain machine.
	Status payment.Status
}

// PaymentConfirmation is the provider's answer to a status poll.
type PaymentConfirmation struct {
	Status payment.Status

	// ProcessingFee and FeeVAT are only set on terminal confirmations.
	ProcessingFee kernel.Cents
	FeeVAT        kernel.Cents
}

// PaymentProvider is the external payment service.
//
// CreatePaymentIntent is idempotent on the key: re-invoking it with the same
// key returns the already-created intent instead of charging twice. The key
// is the payment row's idempotency key.
type PaymentProvider interface {
	// CreatePaymentIntent opens a charge for the given amount.
	// Returns an ExternalProviderError when the provider cannot be reached
	// or rejects the request.
	CreatePaymentIntent(ctx context.Context, idempotencyKey string, amount kernel.Cents, currency kernel.Currency) (PaymentIntent, error)

	// GetPaymentStatus polls the provider for the current intent status.
	GetPaymentStatus(ctx context.Context, providerRef string) (PaymentConfirmation, error)
}
