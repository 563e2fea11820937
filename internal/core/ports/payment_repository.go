package ports

import (
	"context"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/payment"
)

// PaymentRepository defines the persistence contract for payment entities.
// Payments are append-mostly: rows are created by the purchase saga and
// updated by provider confirmation, never deleted.
type PaymentRepository interface {
	// Add persists a new payment to storage.
	Add(ctx context.Context, aggregate *payment.Payment) error

	// Update persists changes to an existing payment.
	Update(ctx context.Context, aggregate *payment.Payment) error

	// Get retrieves a payment by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error)

	// GetByIdempotencyKey retrieves the payment created for a logical
	// attempt, if one exists. Lets a retried purchase reuse its row instead
	// of charging twice.
	GetByIdempotencyKey(ctx context.Context, key string) (*payment.Payment, error)

	// GetAllByOrder retrieves every payment of an order.
	GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*payment.Payment, error)

	// GetAllPending retrieves payments awaiting provider confirmation.
	// Used by the confirmation polling job.
	GetAllPending(ctx context.Context) ([]*payment.Payment, error)
}
