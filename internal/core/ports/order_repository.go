// Package ports defines the persistence and external-service contracts of
// the group-buy core. These interfaces establish contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its settings and pickup slots.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByCode retrieves an order aggregate by its short order code.
	GetByCode(ctx context.Context, code string) (*order.Order, error)

	// GetAllNeedingCommissionInvoice retrieves distributed orders whose
	// platform commission invoice has not been recorded yet. Used by the
	// invoice recovery job to complete interrupted distributions.
	GetAllNeedingCommissionInvoice(ctx context.Context) ([]*order.Order, error)
}
