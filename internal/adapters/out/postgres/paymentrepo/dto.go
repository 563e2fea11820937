// Package paymentrepo provides data transfer objects and mapping functions
// for payment persistence. Payment rows are append-mostly: they are created
// by the purchase saga and only updated by provider confirmations.
package paymentrepo

import (
	"time"

	"github.com/google/uuid"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/payment"
)

// PaymentDTO represents the database structure for persisting payments.
type PaymentDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;index"`
	ParticipantID uuid.UUID `gorm:"type:uuid;index"`

	Amount int64
	Status int `gorm:"index"`

	ProviderRef    string
	IdempotencyKey string `gorm:"uniqueIndex"`

	ProcessingFee int64
	FeeVAT        int64
	Attempts      int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for payment rows.
func (PaymentDTO) TableName() string {
	return "payments"
}

// fromDomain converts a payment entity to its database representation.
func fromDomain(pay *payment.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            pay.ID().Bytes(),
		OrderID:       pay.OrderID().Bytes(),
		ParticipantID: pay.ParticipantID().Bytes(),

		Amount: int64(pay.Amount()),
		Status: int(pay.Status()),

		ProviderRef:    pay.ProviderRef(),
		IdempotencyKey: pay.IdempotencyKey(),

		ProcessingFee: int64(pay.ProcessingFee()),
		FeeVAT:        int64(pay.FeeVAT()),
		Attempts:      pay.Attempts(),

		CreatedAt: pay.CreatedAt(),
		UpdatedAt: pay.UpdatedAt(),
	}
}

// toDomain converts a database DTO to a payment entity using RestorePayment.
func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	participantID, err := kernel.UUIDFromBytes(dto.ParticipantID[:])
	if err != nil {
		return nil, err
	}

	return payment.RestorePayment(
		id, orderID, participantID,
		kernel.Cents(dto.Amount),
		payment.Status(dto.Status),
		dto.ProviderRef,
		dto.IdempotencyKey,
		kernel.Cents(dto.ProcessingFee),
		kernel.Cents(dto.FeeVAT),
		dto.Attempts,
		dto.CreatedAt, dto.UpdatedAt,
	)
}
