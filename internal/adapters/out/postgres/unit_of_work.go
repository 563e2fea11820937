// Package postgres provides the GORM-based implementation of the Unit of
// Work pattern. A unit of work spans one business transaction across the
// order, participant and payment repositories, tracks the aggregates it
// touched and guarantees they are committed or rolled back together.
//
// Basic usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, order); err != nil {
//	    return err
//	}
//	if err := uow.PaymentRepository().Add(ctx, payment); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance owns its own transaction state; concurrent
// operations must use separate instances from the factory. The saga handlers
// deliberately create several short units of work per command so that no
// database transaction is ever open across an external provider call.
package postgres

import (
	"context"

	"gorm.io/gorm"

	"groupbuy/internal/adapters/out/postgres/cooprepo"
	"groupbuy/internal/adapters/out/postgres/orderrepo"
	"groupbuy/internal/adapters/out/postgres/participantrepo"
	"groupbuy/internal/adapters/out/postgres/paymentrepo"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/ports"
)

// trackedAggregate represents an aggregate modified during the unit of work.
// This is useful for implementing patterns like event sourcing or outbox pattern.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate interface{} // Will be changed to a common Aggregate interface in the future
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database
// connections. The factory ensures each business operation gets a fresh unit
// of work with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances. The provided database connection is shared by all created
// instances; the transactions are not.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for business transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the order,
// participant and payment repositories and tracks aggregate changes.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Repeated calls on the same instance are safe and will not nest.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// After commit the transaction is closed and cannot be reused.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Rolling back an already committed unit of work returns
// gorm.ErrInvalidTransaction, which deferred rollbacks ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// OrderRepository returns an order repository bound to the current
// transaction, or to the main connection when no transaction is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// ParticipantRepository returns a participant repository bound to the
// current transaction.
func (uow *GormUnitOfWork) ParticipantRepository() ports.ParticipantRepository {
	return participantrepo.NewGormParticipantRepository(uow.conn(), uow)
}

// PaymentRepository returns a payment repository bound to the current
// transaction.
func (uow *GormUnitOfWork) PaymentRepository() ports.PaymentRepository {
	return paymentrepo.NewGormPaymentRepository(uow.conn(), uow)
}

// CoopRepository returns a cooperative-gain ledger repository bound to the
// current transaction.
func (uow *GormUnitOfWork) CoopRepository() ports.CoopRepository {
	return cooprepo.NewGormCoopRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// TrackAggregate registers a domain aggregate as modified within this unit
// of work. Repository implementations call this on add and update; the
// tracked aggregates enable post-commit processing such as domain event
// publishing.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
