// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"groupbuy/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ParticipantRepoFactory provides access to the participant repository within a transaction.
	ParticipantRepoFactory interface {
		ParticipantRepository() ports.ParticipantRepository
	}

	// PaymentRepoFactory provides access to the payment repository within a transaction.
	PaymentRepoFactory interface {
		PaymentRepository() ports.PaymentRepository
	}

	// CoopRepoFactory provides access to the cooperative-gain ledger within a transaction.
	CoopRepoFactory interface {
		CoopRepository() ports.CoopRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// ParticipationUoW manages transactions spanning an order and its
	// participants. Used by join, review and slot commands.
	ParticipationUoW interface {
		TxManager
		OrderRepoFactory
		ParticipantRepoFactory
	}

	// ParticipationUoWFactory creates new participation unit of work instances.
	ParticipationUoWFactory interface {
		Create() ParticipationUoW
	}

	// UoW manages transactions across all aggregates and the ledger.
	// Used by the purchase saga and the settlement-driven commands.
	UoW interface {
		TxManager
		OrderRepoFactory
		ParticipantRepoFactory
		PaymentRepoFactory
		CoopRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)
