// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The sharer-configured settings are flattened into the row; pickup slots
// live in their own table keyed by the order id.
type OrderDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code       string    `gorm:"uniqueIndex"`
	SharerID   uuid.UUID `gorm:"type:uuid;index"`
	ProducerID uuid.UUID `gorm:"type:uuid;index"`
	Status     int       `gorm:"index"`

	Visibility         int
	MinWeight          float64
	MaxWeight          *float64
	DeliveryKind       int
	DeliveryStreet     string
	DeliveryCity       string
	DeliveryPostalCode string
	DeliveryFee        int64
	TakeRatePct        int
	Currency           string
	LogisticsFee       int64

	PlatformFeePct         float64
	PlatformFlatFeePerUnit int64

	AutoApproveParticipants bool
	AutoApprovePickups      bool
	ShowParticipants        bool

	EffectiveWeight     float64
	CommissionInvoiceID string `gorm:"index"`

	PickupSlots []PickupSlotDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// PickupSlotDTO represents one configured retrieval window of an order.
// Exactly one of Weekday and Date is set.
type PickupSlotDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;index"`

	Weekday     *int
	Date        *time.Time
	StartMinute int
	EndMinute   int
	Enabled     bool
	Position    int
}

// TableName specifies the database table name for pickup slot rows.
func (PickupSlotDTO) TableName() string {
	return "order_pickup_slots"
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	settings := aggregate.Settings()

	var maxWeight *float64
	if settings.MaxWeight != nil {
		raw := float64(*settings.MaxWeight)
		maxWeight = &raw
	}

	slots := make([]PickupSlotDTO, 0, len(aggregate.PickupSlots()))
	for _, slot := range aggregate.PickupSlots() {
		slots = append(slots, slotFromDomain(aggregate.ID(), slot))
	}

	return OrderDTO{
		ID:         aggregate.ID().Bytes(),
		Code:       aggregate.Code(),
		SharerID:   aggregate.SharerID().Bytes(),
		ProducerID: aggregate.ProducerID().Bytes(),
		Status:     int(aggregate.Status()),

		Visibility:         int(settings.Visibility),
		MinWeight:          float64(settings.MinWeight),
		MaxWeight:          maxWeight,
		DeliveryKind:       int(settings.Delivery.Kind()),
		DeliveryStreet:     settings.Delivery.Address().Street,
		DeliveryCity:       settings.Delivery.Address().City,
		DeliveryPostalCode: settings.Delivery.Address().PostalCode,
		DeliveryFee:        int64(settings.Delivery.Fee()),
		TakeRatePct:        settings.TakeRatePct,
		Currency:           string(settings.Currency),
		LogisticsFee:       int64(settings.LogisticsFee),

		PlatformFeePct:         settings.PlatformFeePct,
		PlatformFlatFeePerUnit: int64(settings.PlatformFlatFeePerUnit),

		AutoApproveParticipants: settings.AutoApproveParticipants,
		AutoApprovePickups:      settings.AutoApprovePickups,
		ShowParticipants:        settings.ShowParticipants,

		EffectiveWeight:     float64(aggregate.EffectiveWeight()),
		CommissionInvoiceID: aggregate.CommissionInvoiceID(),

		PickupSlots: slots,

		CreatedAt: aggregate.CreatedAt(),
		UpdatedAt: aggregate.UpdatedAt(),
	}
}

func slotFromDomain(orderID kernel.UUID, slot order.PickupSlot) PickupSlotDTO {
	var weekday *int
	if slot.Weekday() != nil {
		raw := int(*slot.Weekday())
		weekday = &raw
	}

	return PickupSlotDTO{
		ID:          slot.ID().Bytes(),
		OrderID:     orderID.Bytes(),
		Weekday:     weekday,
		Date:        slot.Date(),
		StartMinute: slot.StartMinute(),
		EndMinute:   slot.EndMinute(),
		Enabled:     slot.Enabled(),
		Position:    slot.Position(),
	}
}

// toDomain converts a database DTO to an order aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	sharerID, err := kernel.UUIDFromBytes(dto.SharerID[:])
	if err != nil {
		return nil, err
	}
	producerID, err := kernel.UUIDFromBytes(dto.ProducerID[:])
	if err != nil {
		return nil, err
	}

	delivery, err := order.RestoreDeliveryOption(
		order.DeliveryKind(dto.DeliveryKind),
		order.Address{
			Street:     dto.DeliveryStreet,
			City:       dto.DeliveryCity,
			PostalCode: dto.DeliveryPostalCode,
		},
		kernel.Cents(dto.DeliveryFee),
	)
	if err != nil {
		return nil, err
	}

	var maxWeight *kernel.Kilograms
	if dto.MaxWeight != nil {
		raw := kernel.Kilograms(*dto.MaxWeight)
		maxWeight = &raw
	}

	slots := make([]order.PickupSlot, 0, len(dto.PickupSlots))
	for _, slotDTO := range dto.PickupSlots {
		slot, slotErr := slotToDomain(slotDTO)
		if slotErr != nil {
			return nil, slotErr
		}
		slots = append(slots, slot)
	}

	settings := order.Settings{
		Visibility:              order.Visibility(dto.Visibility),
		MinWeight:               kernel.Kilograms(dto.MinWeight),
		MaxWeight:               maxWeight,
		Delivery:                delivery,
		TakeRatePct:             dto.TakeRatePct,
		Currency:                kernel.Currency(dto.Currency),
		LogisticsFee:            kernel.Cents(dto.LogisticsFee),
		PlatformFeePct:          dto.PlatformFeePct,
		PlatformFlatFeePerUnit:  kernel.Cents(dto.PlatformFlatFeePerUnit),
		AutoApproveParticipants: dto.AutoApproveParticipants,
		AutoApprovePickups:      dto.AutoApprovePickups,
		ShowParticipants:        dto.ShowParticipants,
	}

	return order.RestoreOrder(
		id, dto.Code, sharerID, producerID,
		settings, order.Status(dto.Status),
		kernel.Kilograms(dto.EffectiveWeight),
		dto.CommissionInvoiceID,
		slots,
		dto.CreatedAt, dto.UpdatedAt,
	)
}

func slotToDomain(dto PickupSlotDTO) (order.PickupSlot, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.PickupSlot{}, err
	}

	var weekday *time.Weekday
	if dto.Weekday != nil {
		raw := time.Weekday(*dto.Weekday)
		weekday = &raw
	}

	return order.RestorePickupSlot(
		id, weekday, dto.Date,
		dto.StartMinute, dto.EndMinute, dto.Position,
		dto.Enabled,
	)
}
