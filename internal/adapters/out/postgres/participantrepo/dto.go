// Package participantrepo provides data transfer objects and mapping
// functions for participant persistence, including the participant's item
// lines which are stored in their own table.
package participantrepo

import (
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/core/domain/model/participant"
)

// ParticipantDTO represents the database structure for persisting
// participant rows.
type ParticipantDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index:idx_participants_order_profile,unique"`
	ProfileID uuid.UUID `gorm:"type:uuid;index:idx_participants_order_profile,unique"`
	Role      int

	Participation int

	PickupSlotID   *uuid.UUID `gorm:"type:uuid"`
	PickupSlotTime *time.Time
	PickupStatus   int
	PickupCode     string

	Items []OrderItemDTO `gorm:"foreignKey:ParticipantID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for participant rows.
func (ParticipantDTO) TableName() string {
	return "participants"
}

// OrderItemDTO represents one purchased item line of a participant.
type OrderItemDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ParticipantID uuid.UUID  `gorm:"type:uuid;index"`
	ProductID     uuid.UUID  `gorm:"type:uuid"`
	LotID         *uuid.UUID `gorm:"type:uuid"`

	Quantity       int
	UnitWeight     float64
	UnitBasePrice  int64
	UnitSharerFee  int64
	UnitFinalPrice int64
}

// TableName specifies the database table name for item lines.
func (OrderItemDTO) TableName() string {
	return "participant_items"
}

// fromDomain converts a participant aggregate to its database representation.
func fromDomain(row *participant.Participant) ParticipantDTO {
	var pickupSlotID *uuid.UUID
	if id := row.PickupSlotID(); id != nil {
		raw := id.Bytes()
		pickupSlotID = &raw
	}

	items := make([]OrderItemDTO, 0, len(row.Items()))
	for _, item := range row.Items() {
		items = append(items, itemFromDomain(row.ID(), item))
	}

	return ParticipantDTO{
		ID:        row.ID().Bytes(),
		OrderID:   row.OrderID().Bytes(),
		ProfileID: row.ProfileID().Bytes(),
		Role:      int(row.Role()),

		Participation: int(row.Participation()),

		PickupSlotID:   pickupSlotID,
		PickupSlotTime: row.PickupSlotTime(),
		PickupStatus:   int(row.PickupStatus()),
		PickupCode:     row.PickupCode(),

		Items: items,

		CreatedAt: row.CreatedAt(),
		UpdatedAt: row.UpdatedAt(),
	}
}

func itemFromDomain(participantID kernel.UUID, item participant.OrderItem) OrderItemDTO {
	var lotID *uuid.UUID
	if id := item.LotID(); id != nil {
		raw := id.Bytes()
		lotID = &raw
	}

	return OrderItemDTO{
		ID:            item.ID().Bytes(),
		ParticipantID: participantID.Bytes(),
		ProductID:     item.ProductID().Bytes(),
		LotID:         lotID,

		Quantity:       item.Quantity(),
		UnitWeight:     float64(item.UnitWeight()),
		UnitBasePrice:  int64(item.UnitBasePrice()),
		UnitSharerFee:  int64(item.UnitSharerFee()),
		UnitFinalPrice: int64(item.UnitFinalPrice()),
	}
}

// toDomain converts a database DTO to a participant aggregate.
func toDomain(dto ParticipantDTO) (*participant.Participant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	profileID, err := kernel.UUIDFromBytes(dto.ProfileID[:])
	if err != nil {
		return nil, err
	}

	var pickupSlotID *kernel.UUID
	if dto.PickupSlotID != nil {
		slotID, slotErr := kernel.UUIDFromBytes((*dto.PickupSlotID)[:])
		if slotErr != nil {
			return nil, slotErr
		}
		pickupSlotID = &slotID
	}

	items := make([]participant.OrderItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return participant.RestoreParticipant(
		id, orderID, profileID,
		order.Role(dto.Role),
		participant.ParticipationStatus(dto.Participation),
		pickupSlotID, dto.PickupSlotTime,
		participant.PickupStatus(dto.PickupStatus),
		dto.PickupCode,
		items,
		dto.CreatedAt, dto.UpdatedAt,
	)
}

func itemToDomain(dto OrderItemDTO) (participant.OrderItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return participant.OrderItem{}, err
	}
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return participant.OrderItem{}, err
	}

	var lotID *kernel.UUID
	if dto.LotID != nil {
		lot, lotErr := kernel.UUIDFromBytes((*dto.LotID)[:])
		if lotErr != nil {
			return participant.OrderItem{}, lotErr
		}
		lotID = &lot
	}

	return participant.RestoreOrderItem(
		id, productID, lotID,
		dto.Quantity,
		kernel.Kilograms(dto.UnitWeight),
		kernel.Cents(dto.UnitBasePrice),
		kernel.Cents(dto.UnitSharerFee),
		kernel.Cents(dto.UnitFinalPrice),
	)
}
