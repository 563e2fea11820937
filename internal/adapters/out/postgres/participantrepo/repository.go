package participantrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/participant"
	"groupbuy/internal/pkg/errs"
)

// GormParticipantRepository implements ports.ParticipantRepository using GORM.
type GormParticipantRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormParticipantRepository creates a new GORM participant repository.
func NewGormParticipantRepository(db *gorm.DB, tracker aggregateTracker) *GormParticipantRepository {
	return &GormParticipantRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new participant row to the database.
func (r *GormParticipantRepository) Add(ctx context.Context, row *participant.Participant) error {
	if err := row.Validate(); err != nil {
		return err
	}

	dto := fromDomain(row)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(row.ID(), row)
	return nil
}

// Update saves an existing participant row, replacing its item lines.
// Item lines are few per row and always written as a whole, so replacement
// is simpler than diffing.
func (r *GormParticipantRepository) Update(ctx context.Context, row *participant.Participant) error {
	if err := row.Validate(); err != nil {
		return err
	}

	dto := fromDomain(row)
	result := r.db.WithContext(ctx).Model(&ParticipantDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.db.WithContext(ctx).Where("participant_id = ?", dto.ID).Delete(&OrderItemDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Items) > 0 {
		if err := r.db.WithContext(ctx).Create(&dto.Items).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(row.ID(), row)
	return nil
}

// Delete removes a participant row. Used only by the purchase saga's
// compensation for rows that never had any activity.
func (r *GormParticipantRepository) Delete(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Delete(&ParticipantDTO{}, "id = ?", id.Bytes())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("participant", id.String())
	}
	return nil
}

// Get retrieves a participant row by ID.
func (r *GormParticipantRepository) Get(ctx context.Context, id kernel.UUID) (*participant.Participant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ParticipantDTO
	err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("participant", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderAndProfile retrieves the row of one profile on one order.
func (r *GormParticipantRepository) GetByOrderAndProfile(ctx context.Context, orderID, profileID kernel.UUID) (*participant.Participant, error) {
	if err := errors.Join(orderID.Validate(), profileID.Validate()); err != nil {
		return nil, err
	}

	var dto ParticipantDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&dto, "order_id = ? AND profile_id = ?", orderID.Bytes(), profileID.Bytes()).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("participant", profileID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByOrder retrieves every participant row of an order.
func (r *GormParticipantRepository) GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*participant.Participant, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ParticipantDTO
	err := r.db.WithContext(ctx).Preload("Items").Find(&dtos, "order_id = ?", orderID.Bytes()).Error
	if err != nil {
		return nil, err
	}

	rows := make([]*participant.Participant, 0, len(dtos))
	for _, dto := range dtos {
		row, domErr := toDomain(dto)
		if domErr != nil {
			return nil, domErr
		}
		rows = append(rows, row)
	}

	return rows, nil
}
