// Package coop models the cooperative-gain ledger: credits earned by a
// sharer when their share exceeds their own product cost, and debits written
// when a participant spends that balance on a later purchase.
package coop

import (
	"errors"
	"fmt"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/errs"
)

// ErrEntryIsNotConstructed is returned when an Entry instance was not created
// through the NewCredit, NewDebit or RestoreEntry factory functions.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewCredit, NewDebit or RestoreEntry")

// Kind discriminates ledger entry directions.
type Kind int

const (
	// KindUnknown represents an invalid or undefined kind.
	KindUnknown Kind = iota

	// Credit adds to a profile's spendable balance.
	Credit

	// Debit consumes a profile's balance on an order.
	Debit
)

// Validate checks if the Kind value is valid.
func (k Kind) Validate() error {
	if k != Credit && k != Debit {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid ledger kind", k))
	}
	return nil
}

// Entry is one immutable row of the cooperative-gain ledger. Entries are
// never updated: a credit is written when an order's surplus is settled, a
// debit when the balance funds a purchase. A debit written inside a failed
// purchase saga is deleted by the compensation step.
type Entry struct {
	id        kernel.UUID
	profileID kernel.UUID
	orderID   kernel.UUID
	kind      Kind
	amount    kernel.Cents
	createdAt time.Time

	isConstructed bool
}

// NewCredit creates a credit entry for the surplus an order settled onto a
// profile.
func NewCredit(id, profileID, orderID kernel.UUID, amount kernel.Cents, now time.Time) (*Entry, error) {
	return newEntry(id, profileID, orderID, Credit, amount, now)
}

// NewDebit creates a debit entry consuming a profile's balance on an order.
func NewDebit(id, profileID, orderID kernel.UUID, amount kernel.Cents, now time.Time) (*Entry, error) {
	return newEntry(id, profileID, orderID, Debit, amount, now)
}

func newEntry(id, profileID, orderID kernel.UUID, kind Kind, amount kernel.Cents, now time.Time) (*Entry, error) {
	e := &Entry{
		kind:          kind,
		createdAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		e.setID(id),
		e.setProfileID(profileID),
		e.setOrderID(orderID),
		e.setAmount(amount),
	); err != nil {
		return nil, err
	}

	return e, nil
}

// RestoreEntry reconstructs a ledger entry from persistence.
func RestoreEntry(
	id, profileID, orderID kernel.UUID,
	kind Kind,
	amount kernel.Cents,
	createdAt time.Time,
) (*Entry, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	return newEntry(id, profileID, orderID, kind, amount, createdAt)
}

// Validate ensures the Entry instance was properly constructed.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() kernel.UUID { return e.id }

// ProfileID returns the profile whose balance the entry moves.
func (e *Entry) ProfileID() kernel.UUID { return e.profileID }

// OrderID returns the order the entry was written on: the order whose
// surplus funded a credit, or the order a debit was spent on.
func (e *Entry) OrderID() kernel.UUID { return e.orderID }

// Kind returns the entry direction.
func (e *Entry) Kind() Kind { return e.kind }

// Amount returns the entry's positive amount.
func (e *Entry) Amount() kernel.Cents { return e.amount }

// CreatedAt returns the creation timestamp.
func (e *Entry) CreatedAt() time.Time { return e.createdAt }

func (e *Entry) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	e.id = id
	return nil
}

func (e *Entry) setProfileID(profileID kernel.UUID) error {
	if err := profileID.Validate(); err != nil {
		return err
	}
	e.profileID = profileID
	return nil
}

func (e *Entry) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	e.orderID = orderID
	return nil
}

func (e *Entry) setAmount(amount kernel.Cents) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is not a positive ledger amount", amount))
	}
	e.amount = amount
	return nil
}

// Balance sums a profile's entries: credits minus debits.
func Balance(entries []*Entry) kernel.Cents {
	var total kernel.Cents
	for _, e := range entries {
		switch e.Kind() {
		case Credit:
			total = total.Add(e.Amount())
		case Debit:
			total = total.Sub(e.Amount())
		}
	}
	return total
}

// ConsumedTotal sums the debits of an order's entries: the cooperative-gain
// credit participants spent on that order. Credits are excluded, so surplus
// earned on the order itself does not count as consumption.
func ConsumedTotal(entries []*Entry) kernel.Cents {
	var total kernel.Cents
	for _, e := range entries {
		if e.Kind() == Debit {
			total = total.Add(e.Amount())
		}
	}
	return total
}
