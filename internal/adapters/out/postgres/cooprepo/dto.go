// Package cooprepo provides data transfer objects and mapping functions for
// the cooperative-gain ledger. Entries are immutable rows: created on
// settlement or purchase, deleted only by saga compensation.
package cooprepo

import (
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain/model/coop"
	"groupbuy/internal/core/domain/model/kernel"
)

// EntryDTO represents the database structure for persisting ledger entries.
type EntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProfileID uuid.UUID `gorm:"type:uuid;index"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`

	Kind   int
	Amount int64

	CreatedAt time.Time
}

// TableName specifies the database table name for ledger rows.
func (EntryDTO) TableName() string {
	return "coop_entries"
}

// fromDomain converts a ledger entry to its database representation.
func fromDomain(entry *coop.Entry) EntryDTO {
	return EntryDTO{
		ID:        entry.ID().Bytes(),
		ProfileID: entry.ProfileID().Bytes(),
		OrderID:   entry.OrderID().Bytes(),

		Kind:   int(entry.Kind()),
		Amount: int64(entry.Amount()),

		CreatedAt: entry.CreatedAt(),
	}
}

// toDomain converts a database DTO to a ledger entry using RestoreEntry.
func toDomain(dto EntryDTO) (*coop.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	profileID, err := kernel.UUIDFromBytes(dto.ProfileID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	return coop.RestoreEntry(
		id, profileID, orderID,
		coop.Kind(dto.Kind),
		kernel.Cents(dto.Amount),
		dto.CreatedAt,
	)
}
