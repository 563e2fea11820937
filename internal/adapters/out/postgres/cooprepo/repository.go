package cooprepo

import (
	"context"

	"gorm.io/gorm"

	"groupbuy/internal/core/domain/model/coop"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/errs"
)

// GormCoopRepository implements ports.CoopRepository using GORM.
type GormCoopRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormCoopRepository creates a new GORM ledger repository.
func NewGormCoopRepository(db *gorm.DB, tracker aggregateTracker) *GormCoopRepository {
	return &GormCoopRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new ledger entry to the database.
func (r *GormCoopRepository) Add(ctx context.Context, entry *coop.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	dto := fromDomain(entry)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(entry.ID(), entry)
	return nil
}

// Delete removes a ledger entry. The purchase saga's compensation step uses
// this to undo a debit of a failed attempt.
func (r *GormCoopRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&EntryDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("coopEntry", id.String())
	}
	return nil
}

// GetAllByProfile retrieves every entry moving a profile's balance, oldest
// first.
func (r *GormCoopRepository) GetAllByProfile(ctx context.Context, profileID kernel.UUID) ([]*coop.Entry, error) {
	if err := profileID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&dtos, "profile_id = ?", profileID.Bytes()).
		Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetAllByOrder retrieves every entry written on an order.
func (r *GormCoopRepository) GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*coop.Entry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EntryDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func toDomainAll(dtos []EntryDTO) ([]*coop.Entry, error) {
	entries := make([]*coop.Entry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
