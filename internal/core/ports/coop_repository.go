package ports

import (
	"context"

	"groupbuy/internal/core/domain/model/coop"
	"groupbuy/internal/core/domain/model/kernel"
)

// CoopRepository defines the persistence contract for cooperative-gain
// ledger entries. Entries are immutable: they are created and, when a
// purchase saga compensates, deleted. There is no update.
type CoopRepository interface {
	// Add persists a new ledger entry to storage.
	Add(ctx context.Context, entry *coop.Entry) error

	// Delete removes a ledger entry. Only the purchase saga's compensation
	// step does this, to undo a debit of a failed attempt.
	Delete(ctx context.Context, id kernel.UUID) error

	// GetAllByProfile retrieves every entry moving a profile's balance.
	GetAllByProfile(ctx context.Context, profileID kernel.UUID) ([]*coop.Entry, error)

	// GetAllByOrder retrieves every entry written on an order.
	GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*coop.Entry, error)
}
