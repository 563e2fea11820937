package order

import (
	"errors"
	"fmt"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder or RestoreOrder factory functions.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")
)

// Visibility controls whether an order is discoverable by anyone or only by
// invited participants.
type Visibility int

const (
	// VisibilityUnknown represents an invalid or undefined visibility.
	VisibilityUnknown Visibility = iota

	// Public orders are discoverable by any profile.
	Public

	// Private orders are joinable by invitation only.
	Private
)

// Validate checks if the Visibility value is valid.
func (v Visibility) Validate() error {
	if v != Public && v != Private {
		return errs.NewValueIsInvalidErrorWithCause("visibility", fmt.Errorf("%d is not a valid visibility", v))
	}
	return nil
}

// Settings groups the sharer-configured parameters of an order. They are
// mutable only by the sharer and only until the order is locked.
type Settings struct {
	Visibility   Visibility
	MinWeight    kernel.Kilograms
	MaxWeight    *kernel.Kilograms
	Delivery     DeliveryOption
	TakeRatePct  int
	Currency     kernel.Currency
	LogisticsFee kernel.Cents

	// PlatformFeePct is the platform commission as a percentage of the
	// order's base turnover (product base prices, before delivery and
	// sharer fees).
	PlatformFeePct float64

	// PlatformFlatFeePerUnit is an additional flat platform fee charged
	// per purchased unit.
	PlatformFlatFeePerUnit kernel.Cents

	// AutoApproveParticipants creates new participants directly as accepted.
	AutoApproveParticipants bool

	// AutoApprovePickups makes slot selection transition directly to accepted.
	AutoApprovePickups bool

	// ShowParticipants exposes the participant list in the aggregate read.
	ShowParticipants bool
}

// Order is the aggregate root of a group-buy: one producer order filled by
// pooled participant purchases, organized by a sharer.
//
// Invariants:
//   - all money fields are non-negative integer cents
//   - the effective-weight snapshot is monotonic non-decreasing from Locked on
//   - status only moves along the adjacency declared by the Status machine
//   - settings are mutated only by the sharer, and only before Locked
type Order struct {
	id         kernel.UUID
	code       string
	sharerID   kernel.UUID
	producerID kernel.UUID
	status     Status

	settings Settings

	// effectiveWeight is the pricing-weight snapshot, clamped to the
	// maximum threshold. Monotonic non-decreasing once Locked.
	effectiveWeight kernel.Kilograms

	// commissionInvoiceID is set exactly once, when the platform commission
	// invoice is issued on entering Distributed.
	commissionInvoiceID string

	pickupSlots []PickupSlot

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewOrder creates a Draft order with validated settings.
func NewOrder(
	id kernel.UUID,
	code string,
	sharerID kernel.UUID,
	producerID kernel.UUID,
	settings Settings,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Draft,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCode(code),
		o.setParties(sharerID, producerID),
		o.setSettings(settings),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence, including its status,
// effective-weight snapshot, commission-invoice marker and pickup slots.
func RestoreOrder(
	id kernel.UUID,
	code string,
	sharerID kernel.UUID,
	producerID kernel.UUID,
	settings Settings,
	status Status,
	effectiveWeight kernel.Kilograms,
	commissionInvoiceID string,
	pickupSlots []PickupSlot,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	o, err := NewOrder(id, code, sharerID, producerID, settings, createdAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	for _, slot := range pickupSlots {
		if err = slot.Validate(); err != nil {
			return nil, err
		}
	}

	o.status = status
	o.effectiveWeight = effectiveWeight
	o.commissionInvoiceID = commissionInvoiceID
	o.pickupSlots = pickupSlots
	o.updatedAt = updatedAt
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// Code returns the short human-readable order code.
func (o *Order) Code() string { return o.code }

// SharerID returns the organizing sharer's profile id.
func (o *Order) SharerID() kernel.UUID { return o.sharerID }

// ProducerID returns the fulfilling producer's profile id.
func (o *Order) ProducerID() kernel.UUID { return o.producerID }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// Settings returns the sharer-configured order parameters.
func (o *Order) Settings() Settings { return o.settings }

// EffectiveWeight returns the pricing-weight snapshot.
func (o *Order) EffectiveWeight() kernel.Kilograms { return o.effectiveWeight }

// CommissionInvoiceID returns the issued commission invoice id, or "" when
// no invoice has been issued yet.
func (o *Order) CommissionInvoiceID() string { return o.commissionInvoiceID }

// PickupSlots returns the sharer-configured retrieval windows.
func (o *Order) PickupSlots() []PickupSlot { return o.pickupSlots }

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (o *Order) UpdatedAt() time.Time { return o.updatedAt }

// IsOpen reports whether participants may currently mutate their own items.
func (o *Order) IsOpen() bool { return o.status == Open }

// RoleOf resolves the order-level role of a profile id.
func (o *Order) RoleOf(profileID kernel.UUID) Role {
	switch {
	case profileID.IsEqual(o.sharerID):
		return RoleSharer
	case profileID.IsEqual(o.producerID):
		return RoleProducer
	default:
		return RoleParticipant
	}
}

// UpdateSettings replaces the order settings. Only the sharer may do this,
// and only before the order is locked.
func (o *Order) UpdateSettings(actor Role, settings Settings, now time.Time) error {
	if actor != RoleSharer {
		return errs.NewConflictError("update settings",
			fmt.Sprintf("settings are mutated by the sharer, not the %s", actor))
	}
	if o.status.AtLeast(Locked) {
		return errs.NewConflictError("update settings",
			fmt.Sprintf("%s order no longer accepts setting changes", o.status))
	}
	if err := o.setSettings(settings); err != nil {
		return err
	}
	o.updatedAt = now
	return nil
}

// AddPickupSlot appends a retrieval window. Sharer only.
func (o *Order) AddPickupSlot(actor Role, slot PickupSlot, now time.Time) error {
	if actor != RoleSharer {
		return errs.NewConflictError("add pickup slot",
			fmt.Sprintf("slots are configured by the sharer, not the %s", actor))
	}
	if err := slot.Validate(); err != nil {
		return err
	}
	for _, existing := range o.pickupSlots {
		if existing.ID().IsEqual(slot.ID()) {
			return errs.NewConflictError("add pickup slot", "slot id already exists")
		}
	}
	o.pickupSlots = append(o.pickupSlots, slot)
	o.updatedAt = now
	return nil
}

// SlotByID finds a configured pickup slot.
func (o *Order) SlotByID(id kernel.UUID) (PickupSlot, error) {
	for _, slot := range o.pickupSlots {
		if slot.ID().IsEqual(id) {
			return slot, nil
		}
	}
	return PickupSlot{}, errs.NewObjectNotFoundError("pickupSlotId", id.String())
}

// Open publishes a draft order for participation.
func (o *Order) Open(actor Role, now time.Time) error {
	newStatus, err := o.status.TransitionTo(Open, actor)
	if err != nil {
		return err
	}
	o.status = newStatus
	o.updatedAt = now
	return nil
}

// Lock freezes the order for purchasing and takes the effective-weight
// snapshot.
//
// Guards:
//   - the committed weight must reach the declared minimum threshold
//   - the sharer's computed deficit must be settled
func (o *Order) Lock(actor Role, committedWeight kernel.Kilograms, outstandingDeficit kernel.Cents, now time.Time) error {
	if committedWeight < o.settings.MinWeight {
		return errs.NewConflictError("lock order",
			fmt.Sprintf("committed weight %s is below the minimum %s",
				committedWeight.Format(), o.settings.MinWeight.Format()))
	}
	if outstandingDeficit > 0 {
		return errs.NewConflictError("lock order",
			fmt.Sprintf("sharer deficit of %s is unpaid", outstandingDeficit.Format()))
	}

	newStatus, err := o.status.TransitionTo(Locked, actor)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.effectiveWeight = o.clampToMax(committedWeight)
	o.updatedAt = now
	return nil
}

// Advance moves the order along one of the plain lifecycle edges
// (Confirmed, Preparing, Prepared, Delivered, Finished). Edges with guards
// or side effects have dedicated methods: Open, Lock, Distribute, Cancel.
func (o *Order) Advance(actor Role, target Status, now time.Time) error {
	switch target {
	case Open, Locked, Distributed, Cancelled:
		return errs.NewConflictError("advance order",
			fmt.Sprintf("%s requires its dedicated operation", target))
	}

	newStatus, err := o.status.TransitionTo(target, actor)
	if err != nil {
		return err
	}
	o.status = newStatus
	o.updatedAt = now
	return nil
}

// Distribute marks the order as distributed. Entering this state obliges
// the caller to issue the platform commission invoice exactly once; check
// NeedsCommissionInvoice afterwards.
func (o *Order) Distribute(actor Role, now time.Time) error {
	newStatus, err := o.status.TransitionTo(Distributed, actor)
	if err != nil {
		return err
	}
	o.status = newStatus
	o.updatedAt = now
	return nil
}

// NeedsCommissionInvoice reports whether the platform commission invoice to
// the producer is still outstanding.
func (o *Order) NeedsCommissionInvoice() bool {
	return o.status.AtLeast(Distributed) && o.commissionInvoiceID == ""
}

// RecordCommissionInvoice stores the issued commission invoice id.
// Idempotent: recording the same invoice again is a no-op, a different id is
// a conflict.
func (o *Order) RecordCommissionInvoice(invoiceID string, now time.Time) error {
	if invoiceID == "" {
		return errs.NewValueIsRequiredError("invoiceId")
	}
	if o.commissionInvoiceID != "" {
		if o.commissionInvoiceID == invoiceID {
			return nil
		}
		return errs.NewConflictError("record commission invoice",
			"a different commission invoice was already issued")
	}
	if !o.status.AtLeast(Distributed) {
		return errs.NewConflictError("record commission invoice",
			fmt.Sprintf("%s order has no commission invoice yet", o.status))
	}
	o.commissionInvoiceID = invoiceID
	o.updatedAt = now
	return nil
}

// Cancel aborts the order. Items and payments are kept for audit.
func (o *Order) Cancel(actor Role, now time.Time) error {
	newStatus, err := o.status.TransitionTo(Cancelled, actor)
	if err != nil {
		return err
	}
	o.status = newStatus
	o.updatedAt = now
	return nil
}

// UpdateEffectiveWeight refreshes the pricing-weight snapshot, clamped to
// the maximum threshold. From Locked onward the snapshot is monotonic
// non-decreasing; attempts to shrink it are rejected.
func (o *Order) UpdateEffectiveWeight(weight kernel.Kilograms, now time.Time) error {
	clamped := o.clampToMax(weight)
	if o.status.AtLeast(Locked) && clamped < o.effectiveWeight {
		return errs.NewConflictError("update effective weight",
			fmt.Sprintf("snapshot %s cannot shrink to %s after lock",
				o.effectiveWeight.Format(), clamped.Format()))
	}
	o.effectiveWeight = clamped
	o.updatedAt = now
	return nil
}

func (o *Order) clampToMax(weight kernel.Kilograms) kernel.Kilograms {
	if o.settings.MaxWeight != nil && weight > *o.settings.MaxWeight {
		return *o.settings.MaxWeight
	}
	return weight
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}
	o.code = code
	return nil
}

func (o *Order) setParties(sharerID, producerID kernel.UUID) error {
	if err := sharerID.Validate(); err != nil {
		return err
	}
	if err := producerID.Validate(); err != nil {
		return err
	}
	o.sharerID = sharerID
	o.producerID = producerID
	return nil
}

func (o *Order) setSettings(settings Settings) error {
	if err := settings.Visibility.Validate(); err != nil {
		return err
	}
	if settings.MinWeight <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("minWeightKg",
			fmt.Errorf("%v is not greater than 0", float64(settings.MinWeight)))
	}
	if settings.MaxWeight != nil && *settings.MaxWeight < settings.MinWeight {
		return errs.NewValueIsInvalidErrorWithCause("maxWeightKg",
			fmt.Errorf("%v is below the minimum %v",
				float64(*settings.MaxWeight), float64(settings.MinWeight)))
	}
	if err := settings.Delivery.Validate(); err != nil {
		return err
	}
	// 100 would make the sharer-fee fraction undefined; it is not a valid
	// business state.
	if settings.TakeRatePct < 0 || settings.TakeRatePct >= 100 {
		return errs.NewValueIsOutOfRangeError("sharerPercentage", settings.TakeRatePct, 0, 99)
	}
	if err := settings.Currency.Validate(); err != nil {
		return err
	}
	if err := settings.LogisticsFee.Validate(); err != nil {
		return err
	}
	if settings.PlatformFeePct < 0 || settings.PlatformFeePct >= 100 {
		return errs.NewValueIsOutOfRangeError("platformFeePct", settings.PlatformFeePct, 0, 99)
	}
	if err := settings.PlatformFlatFeePerUnit.Validate(); err != nil {
		return err
	}

	o.settings = settings
	return nil
}
