package paymentrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/payment"
	"groupbuy/internal/pkg/errs"
)

// GormPaymentRepository implements ports.PaymentRepository using GORM.
type GormPaymentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormPaymentRepository creates a new GORM payment repository.
func NewGormPaymentRepository(db *gorm.DB, tracker aggregateTracker) *GormPaymentRepository {
	return &GormPaymentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new payment to the database. The unique index on the
// idempotency key turns a concurrent duplicate attempt into a conflict.
func (r *GormPaymentRepository) Add(ctx context.Context, pay *payment.Payment) error {
	if err := pay.Validate(); err != nil {
		return err
	}

	dto := fromDomain(pay)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewConflictErrorWithCause("add payment",
				"a payment with this idempotency key already exists", err)
		}
		return err
	}

	r.tracker.TrackAggregate(pay.ID(), pay)
	return nil
}

// Update saves an existing payment to the database.
func (r *GormPaymentRepository) Update(ctx context.Context, pay *payment.Payment) error {
	if err := pay.Validate(); err != nil {
		return err
	}

	dto := fromDomain(pay)
	result := r.db.WithContext(ctx).Model(&PaymentDTO{}).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(pay.ID(), pay)
	return nil
}

// Get retrieves a payment by ID.
func (r *GormPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto PaymentDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByIdempotencyKey retrieves the payment bound to a logical attempt.
func (r *GormPaymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*payment.Payment, error) {
	if key == "" {
		return nil, errs.NewValueIsRequiredError("idempotencyKey")
	}

	var dto PaymentDTO
	if err := r.db.WithContext(ctx).First(&dto, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("payment", key)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByOrder retrieves every payment of an order.
func (r *GormPaymentRepository) GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*payment.Payment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PaymentDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetAllPending retrieves payments awaiting provider confirmation, oldest
// first, for the confirmation polling job.
func (r *GormPaymentRepository) GetAllPending(ctx context.Context) ([]*payment.Payment, error) {
	var dtos []PaymentDTO
	err := r.db.WithContext(ctx).
		Order("created_at").
		Find(&dtos, "status = ?", int(payment.Pending)).
		Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func toDomainAll(dtos []PaymentDTO) ([]*payment.Payment, error) {
	payments := make([]*payment.Payment, 0, len(dtos))
	for _, dto := range dtos {
		pay, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		payments = append(payments, pay)
	}
	return payments, nil
}
