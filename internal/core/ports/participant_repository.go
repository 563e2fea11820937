package ports

import (
	"context"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/participant"
)

// ParticipantRepository defines the persistence contract for participant
// aggregates, including their item lines.
type ParticipantRepository interface {
	// Add persists a new participant aggregate to storage.
	Add(ctx context.Context, aggregate *participant.Participant) error

	// Update persists changes to an existing participant aggregate.
	// Item lines are reconciled against the stored rows: added, replaced
	// and removed lines are all reflected.
	Update(ctx context.Context, aggregate *participant.Participant) error

	// Delete removes a participant aggregate. Only used by the purchase
	// rollback for freshly created rows without any activity.
	Delete(ctx context.Context, id kernel.UUID) error

	// Get retrieves a participant aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*participant.Participant, error)

	// GetByOrderAndProfile retrieves the participant row of a profile inside
	// an order, if the profile has joined.
	GetByOrderAndProfile(ctx context.Context, orderID, profileID kernel.UUID) (*participant.Participant, error)

	// GetAllByOrder retrieves every participant of an order, the sharer's
	// own row included.
	GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*participant.Participant, error)
}
