// Package payment implements the payment entity created by the purchase
// saga. Payments are never deleted: a failed provider call marks the row
// Failed and keeps it for audit.
package payment

import (
	"errors"
	"fmt"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/errs"
)

var (
	// ErrPaymentIsNotConstructed is returned when a Payment was not created
	// through NewPayment or RestorePayment.
	ErrPaymentIsNotConstructed = errors.New("Payment must be created via NewPayment or RestorePayment")
)

// Status is the payment state machine:
//
//	Pending ──> Paid | Authorized | Failed
//
// Paid, Authorized and Failed are terminal; rows in a terminal state are
// only ever read, never updated again.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending awaits provider confirmation.
	Pending

	// Paid means the provider captured the amount.
	Paid

	// Authorized means the provider holds the amount for later capture.
	Authorized

	// Failed means the provider declined or the attempt was abandoned.
	Failed
)

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s < Pending || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus",
			fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Paid:
		return "Paid"
	case Authorized:
		return "Authorized"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether the status allows no further updates.
func (s Status) IsTerminal() bool {
	return s == Paid || s == Authorized || s == Failed
}

// IsCollected reports whether the amount counts as collected revenue.
func (s Status) IsCollected() bool {
	return s == Paid || s == Authorized
}

// Payment is one participant's payment attempt for an order. Created by the
// purchase saga with a caller-supplied idempotency key; updated only by
// provider confirmation.
type Payment struct {
	id            kernel.UUID
	orderID       kernel.UUID
	participantID kernel.UUID

	amount kernel.Cents
	status Status

	// providerRef is the payment provider's identifier for this intent.
	providerRef string

	// idempotencyKey is reused across retries of one logical attempt so
	// re-invoking the provider can never create a duplicate payment.
	idempotencyKey string

	processingFee kernel.Cents
	feeVAT        kernel.Cents

	// attempts counts provider status polls; polling stops after a bound.
	attempts int

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewPayment creates a pending payment for the given amount.
func NewPayment(
	id kernel.UUID,
	orderID kernel.UUID,
	participantID kernel.UUID,
	amount kernel.Cents,
	idempotencyKey string,
	now time.Time,
) (*Payment, error) {
	p := &Payment{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setIDs(id, orderID, participantID),
		p.setAmount(amount),
		p.setIdempotencyKey(idempotencyKey),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestorePayment reconstructs a payment from persistence.
func RestorePayment(
	id kernel.UUID,
	orderID kernel.UUID,
	participantID kernel.UUID,
	amount kernel.Cents,
	status Status,
	providerRef string,
	idempotencyKey string,
	processingFee, feeVAT kernel.Cents,
	attempts int,
	createdAt, updatedAt time.Time,
) (*Payment, error) {
	p, err := NewPayment(id, orderID, participantID, amount, idempotencyKey, createdAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	if err = errors.Join(processingFee.Validate(), feeVAT.Validate()); err != nil {
		return nil, err
	}

	p.status = status
	p.providerRef = providerRef
	p.processingFee = processingFee
	p.feeVAT = feeVAT
	p.attempts = attempts
	p.updatedAt = updatedAt
	return p, nil
}

// Validate ensures the payment was created through a constructor.
func (p *Payment) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPaymentIsNotConstructed
	}
	return nil
}

// ID returns the payment identifier.
func (p *Payment) ID() kernel.UUID { return p.id }

// OrderID returns the owning order id.
func (p *Payment) OrderID() kernel.UUID { return p.orderID }

// ParticipantID returns the paying participant's id.
func (p *Payment) ParticipantID() kernel.UUID { return p.participantID }

// Amount returns the charged amount.
func (p *Payment) Amount() kernel.Cents { return p.amount }

// Status returns the current payment status.
func (p *Payment) Status() Status { return p.status }

// ProviderRef returns the provider's intent identifier.
func (p *Payment) ProviderRef() string { return p.providerRef }

// IdempotencyKey returns the key reused across retries of this attempt.
func (p *Payment) IdempotencyKey() string { return p.idempotencyKey }

// ProcessingFee returns the provider's processing fee.
func (p *Payment) ProcessingFee() kernel.Cents { return p.processingFee }

// FeeVAT returns the VAT charged on the processing fee.
func (p *Payment) FeeVAT() kernel.Cents { return p.feeVAT }

// Attempts returns how many times the provider has been polled.
func (p *Payment) Attempts() int { return p.attempts }

// CreatedAt returns the creation timestamp.
func (p *Payment) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (p *Payment) UpdatedAt() time.Time { return p.updatedAt }

// AttachProviderRef stores the provider's intent id after intent creation.
func (p *Payment) AttachProviderRef(providerRef string, now time.Time) error {
	if providerRef == "" {
		return errs.NewValueIsRequiredError("providerRef")
	}
	if p.providerRef != "" && p.providerRef != providerRef {
		return errs.NewConflictError("attach provider ref",
			"payment is already bound to a different provider intent")
	}
	p.providerRef = providerRef
	p.updatedAt = now
	return nil
}

// ApplyProviderStatus applies a provider confirmation. Terminal rows reject
// further updates; applying the same terminal status again is a no-op.
func (p *Payment) ApplyProviderStatus(status Status, processingFee, feeVAT kernel.Cents, now time.Time) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if p.status.IsTerminal() {
		if p.status == status {
			return nil
		}
		return errs.NewConflictError("apply provider status",
			fmt.Sprintf("%s payment is terminal", p.status))
	}
	if err := errors.Join(processingFee.Validate(), feeVAT.Validate()); err != nil {
		return err
	}

	p.status = status
	p.processingFee = processingFee
	p.feeVAT = feeVAT
	p.updatedAt = now
	return nil
}

// MarkFailed moves the payment to Failed. The row is kept for audit.
func (p *Payment) MarkFailed(now time.Time) error {
	return p.ApplyProviderStatus(Failed, p.processingFee, p.feeVAT, now)
}

// RecordPollAttempt increments the bounded polling counter.
func (p *Payment) RecordPollAttempt(now time.Time) {
	p.attempts++
	p.updatedAt = now
}

func (p *Payment) setIDs(id, orderID, participantID kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := orderID.Validate(); err != nil {
		return err
	}
	if err := participantID.Validate(); err != nil {
		return err
	}
	p.id = id
	p.orderID = orderID
	p.participantID = participantID
	return nil
}

func (p *Payment) setAmount(amount kernel.Cents) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	p.amount = amount
	return nil
}

func (p *Payment) setIdempotencyKey(key string) error {
	if key == "" {
		return errs.NewValueIsRequiredError("idempotencyKey")
	}
	p.idempotencyKey = key
	return nil
}
