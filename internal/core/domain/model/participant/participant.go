package participant

import (
	"errors"
	"fmt"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/pkg/errs"
)

var (
	// ErrParticipantIsNotConstructed is returned when a Participant was not
	// created through NewParticipant or RestoreParticipant.
	ErrParticipantIsNotConstructed = errors.New("Participant must be created via NewParticipant or RestoreParticipant")
)

// Participant is one buyer inside a group-buy order: either the organizing
// sharer (exactly one per order) or a regular participant.
//
// Invariants:
//   - totals are always recomputable as a pure function of the item lines
//   - at most one active pickup slot; selecting a new one releases the old
//   - items are mutable only while the owning order is Open
type Participant struct {
	id        kernel.UUID
	orderID   kernel.UUID
	profileID kernel.UUID
	role      order.Role

	participation ParticipationStatus

	pickupSlotID   *kernel.UUID
	pickupSlotTime *time.Time
	pickupStatus   PickupStatus

	// pickupCode is issued once the participant's payment reaches a
	// terminal paid or authorized state.
	pickupCode string

	items []OrderItem

	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewParticipant creates a participant for an order. The sharer's own row is
// always created as accepted; regular participants start as requested unless
// the order auto-approves participation.
func NewParticipant(
	id kernel.UUID,
	orderID kernel.UUID,
	profileID kernel.UUID,
	role order.Role,
	autoApprove bool,
	now time.Time,
) (*Participant, error) {
	if role != order.RoleSharer && role != order.RoleParticipant {
		return nil, errs.NewValueIsInvalidErrorWithCause("role",
			fmt.Errorf("%s cannot be a participant row", role))
	}

	p := &Participant{
		role:          role,
		participation: ParticipationRequested,
		pickupStatus:  PickupNone,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}
	if role == order.RoleSharer || autoApprove {
		p.participation = ParticipationAccepted
	}

	if err := errors.Join(
		p.setID(id),
		p.setOrderID(orderID),
		p.setProfileID(profileID),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestoreParticipant reconstructs a participant from persistence.
func RestoreParticipant(
	id kernel.UUID,
	orderID kernel.UUID,
	profileID kernel.UUID,
	role order.Role,
	participation ParticipationStatus,
	pickupSlotID *kernel.UUID,
	pickupSlotTime *time.Time,
	pickupStatus PickupStatus,
	pickupCode string,
	items []OrderItem,
	createdAt, updatedAt time.Time,
) (*Participant, error) {
	p, err := NewParticipant(id, orderID, profileID, role, false, createdAt)
	if err != nil {
		return nil, err
	}
	if err = participation.Validate(); err != nil {
		return nil, err
	}
	for _, item := range items {
		if err = item.Validate(); err != nil {
			return nil, err
		}
	}

	p.participation = participation
	p.pickupSlotID = pickupSlotID
	p.pickupSlotTime = pickupSlotTime
	p.pickupStatus = pickupStatus
	p.pickupCode = pickupCode
	p.items = items
	p.updatedAt = updatedAt
	return p, nil
}

// Validate ensures the participant was created through a constructor.
func (p *Participant) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrParticipantIsNotConstructed
	}
	return nil
}

// ID returns the participant identifier.
func (p *Participant) ID() kernel.UUID { return p.id }

// OrderID returns the owning order id.
func (p *Participant) OrderID() kernel.UUID { return p.orderID }

// ProfileID returns the buyer's profile id.
func (p *Participant) ProfileID() kernel.UUID { return p.profileID }

// Role returns sharer or participant.
func (p *Participant) Role() order.Role { return p.role }

// Participation returns the participation sub-machine state.
func (p *Participant) Participation() ParticipationStatus { return p.participation }

// PickupSlotID returns the selected slot id, or nil.
func (p *Participant) PickupSlotID() *kernel.UUID { return p.pickupSlotID }

// PickupSlotTime returns the selected retrieval instant, or nil.
func (p *Participant) PickupSlotTime() *time.Time { return p.pickupSlotTime }

// PickupStatus returns the pickup sub-machine state.
func (p *Participant) PickupStatus() PickupStatus { return p.pickupStatus }

// PickupCode returns the retrieval code, or "" before payment.
func (p *Participant) PickupCode() string { return p.pickupCode }

// Items returns the participant's purchased lines.
func (p *Participant) Items() []OrderItem { return p.items }

// CreatedAt returns the creation timestamp.
func (p *Participant) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the last mutation timestamp.
func (p *Participant) UpdatedAt() time.Time { return p.updatedAt }

// IsAccepted reports whether the participation request was approved.
func (p *Participant) IsAccepted() bool {
	return p.participation == ParticipationAccepted
}

// IsSharer reports whether this is the order's sharer row.
func (p *Participant) IsSharer() bool {
	return p.role == order.RoleSharer
}

// HasActivity reports whether the participant carries any items or a slot
// selection. A freshly created row with no activity may be removed by the
// purchase saga's rollback.
func (p *Participant) HasActivity() bool {
	return len(p.items) > 0 || p.pickupStatus != PickupNone
}

// ReviewParticipation resolves a requested participation.
func (p *Participant) ReviewParticipation(approve bool, now time.Time) error {
	newStatus, err := p.participation.Review(approve)
	if err != nil {
		return err
	}
	p.participation = newStatus
	p.updatedAt = now
	return nil
}

// SelectPickupSlot reserves a retrieval window.
//
// Requirements:
//   - the participation must be accepted
//   - the order must be Delivered or later (slots cover post-delivery
//     retrieval)
//   - the slot must be bookable for the requested day (see
//     order.PickupSlot.ValidateBookable)
//
// At most one slot is active: a new selection releases the previous one.
// With auto-approval the selection lands directly in PickupAccepted.
func (p *Participant) SelectPickupSlot(
	slot order.PickupSlot,
	requestedDay time.Time,
	orderStatus order.Status,
	autoApprove bool,
	now time.Time,
) error {
	if !p.IsAccepted() {
		return errs.NewConflictError("select pickup slot",
			fmt.Sprintf("%s participation cannot book slots", p.participation))
	}
	if !orderStatus.AtLeast(order.Delivered) {
		return errs.NewConflictError("select pickup slot",
			fmt.Sprintf("%s order has no retrieval yet", orderStatus))
	}
	if err := slot.ValidateBookable(requestedDay, now); err != nil {
		return err
	}

	slotID := slot.ID()
	slotTime := slot.StartOn(requestedDay)

	p.pickupSlotID = &slotID
	p.pickupSlotTime = &slotTime
	p.pickupStatus = PickupRequested
	if autoApprove {
		p.pickupStatus = PickupAccepted
	}
	p.updatedAt = now
	return nil
}

// ReviewPickupSlot resolves a requested slot selection.
func (p *Participant) ReviewPickupSlot(approve bool, now time.Time) error {
	newStatus, err := p.pickupStatus.Review(approve)
	if err != nil {
		return err
	}
	p.pickupStatus = newStatus
	p.updatedAt = now
	return nil
}

// IssuePickupCode stores the retrieval code issued after payment.
// Idempotent for the same code.
func (p *Participant) IssuePickupCode(code string, now time.Time) error {
	if code == "" {
		return errs.NewValueIsRequiredError("pickupCode")
	}
	if p.pickupCode != "" {
		if p.pickupCode == code {
			return nil
		}
		return errs.NewConflictError("issue pickup code", "a different code was already issued")
	}
	p.pickupCode = code
	p.updatedAt = now
	return nil
}

// UpsertItem adds a line or replaces the line for the same product and lot.
// Items are mutable only while the owning order is Open.
func (p *Participant) UpsertItem(item OrderItem, orderOpen bool, now time.Time) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if !orderOpen {
		return errs.NewConflictError("upsert item", "order no longer accepts item changes")
	}

	for idx, existing := range p.items {
		if existing.SameProduct(item.ProductID(), item.LotID()) {
			p.items[idx] = item
			p.updatedAt = now
			return nil
		}
	}
	p.items = append(p.items, item)
	p.updatedAt = now
	return nil
}

// RemoveItem deletes a line by id. Used by purchase rollback and by the
// participant while the order is open.
func (p *Participant) RemoveItem(itemID kernel.UUID, now time.Time) error {
	for idx, existing := range p.items {
		if existing.ID().IsEqual(itemID) {
			p.items = append(p.items[:idx], p.items[idx+1:]...)
			p.updatedAt = now
			return nil
		}
	}
	return errs.NewObjectNotFoundError("orderItemId", itemID.String())
}

// ItemForProduct returns the line for a product and lot, if any.
func (p *Participant) ItemForProduct(productID kernel.UUID, lotID *kernel.UUID) (OrderItem, bool) {
	for _, item := range p.items {
		if item.SameProduct(productID, lotID) {
			return item, true
		}
	}
	return OrderItem{}, false
}

// TotalWeight recomputes the participant's weight from the item lines.
func (p *Participant) TotalWeight() kernel.Kilograms {
	var total kernel.Kilograms
	for _, item := range p.items {
		total = total.Add(item.LineWeight())
	}
	return total
}

// TotalAmount recomputes the participant's owed amount from the item lines.
func (p *Participant) TotalAmount() kernel.Cents {
	var total kernel.Cents
	for _, item := range p.items {
		total = total.Add(item.LineAmount())
	}
	return total
}

// TotalBaseAmount recomputes the pre-sharer-fee amount from the item lines.
func (p *Participant) TotalBaseAmount() kernel.Cents {
	var total kernel.Cents
	for _, item := range p.items {
		total = total.Add(item.LineBaseAmount())
	}
	return total
}

// TotalQuantity recomputes the unit count from the item lines.
func (p *Participant) TotalQuantity() int {
	total := 0
	for _, item := range p.items {
		total += item.Quantity()
	}
	return total
}

func (p *Participant) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Participant) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	p.orderID = orderID
	return nil
}

func (p *Participant) setProfileID(profileID kernel.UUID) error {
	if err := profileID.Validate(); err != nil {
		return err
	}
	p.profileID = profileID
	return nil
}
