package ports

import (
	"context"

	"groupbuy/internal/core/domain/model/kernel"
)

// Profile is the identity service's view of a platform user.
type Profile struct {
	ID          kernel.UUID
	DisplayName string
}

// IdentityClient resolves profile ids to display data for the aggregate
// read model. Missing profiles degrade to an anonymous placeholder at the
// call site; they never fail a read.
type IdentityClient interface {
	// GetProfiles resolves a batch of profile ids.
	// The result maps every id that could be resolved; absent ids were
	// unknown to the identity service.
	GetProfiles(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]Profile, error)
}
