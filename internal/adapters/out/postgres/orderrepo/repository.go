package orderrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/pkg/errs"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database, replacing its slot rows.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if err := r.db.WithContext(ctx).Where("order_id = ?", dto.ID).Delete(&PickupSlotDTO{}).Error; err != nil {
		return err
	}
	if len(dto.PickupSlots) > 0 {
		if err := r.db.WithContext(ctx).Create(&dto.PickupSlots).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("PickupSlots").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByCode retrieves an order by its short code.
func (r *GormOrderRepository) GetByCode(ctx context.Context, code string) (*order.Order, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("orderCode")
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("PickupSlots").First(&dto, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", code)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllNeedingCommissionInvoice retrieves distributed orders whose platform
// commission invoice has not been recorded yet.
func (r *GormOrderRepository) GetAllNeedingCommissionInvoice(ctx context.Context) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("PickupSlots").
		Find(&dtos, "status IN ? AND commission_invoice_id = ''", []int{int(order.Distributed), int(order.Finished)}).
		Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		aggregate, domErr := toDomain(dto)
		if domErr != nil {
			return nil, domErr
		}
		orders = append(orders, aggregate)
	}

	return orders, nil
}
