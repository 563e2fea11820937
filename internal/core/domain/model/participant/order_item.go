package participant

import (
	"errors"
	"fmt"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/errs"
)

var (
	// ErrOrderItemIsNotConstructed is returned when an OrderItem was not
	// created through NewOrderItem or RestoreOrderItem.
	ErrOrderItemIsNotConstructed = errors.New("OrderItem must be created via NewOrderItem or RestoreOrderItem")
)

// OrderItem is one purchased product line of a participant. Items are
// created during the purchase saga; their quantity is mutable while the
// order is open and immutable once it leaves Open.
//
// The unit price fields are the pricing snapshot taken when the line was
// last written: base price, sharer fee and their sum. Together with the
// unit weight they make the participant totals recomputable as a pure
// function of the item rows.
type OrderItem struct {
	id        kernel.UUID
	productID kernel.UUID
	lotID     *kernel.UUID

	quantity int

	unitWeight     kernel.Kilograms
	unitBasePrice  kernel.Cents
	unitSharerFee  kernel.Cents
	unitFinalPrice kernel.Cents

	isConstructed bool
}

// NewOrderItem creates a validated item line.
func NewOrderItem(
	id kernel.UUID,
	productID kernel.UUID,
	lotID *kernel.UUID,
	quantity int,
	unitWeight kernel.Kilograms,
	unitBasePrice, unitSharerFee, unitFinalPrice kernel.Cents,
) (OrderItem, error) {
	item := OrderItem{isConstructed: true}

	if err := errors.Join(
		item.setIDs(id, productID, lotID),
		item.setQuantity(quantity),
		item.setPricing(unitWeight, unitBasePrice, unitSharerFee, unitFinalPrice),
	); err != nil {
		return OrderItem{}, err
	}

	return item, nil
}

// RestoreOrderItem reconstructs an item from persistence.
func RestoreOrderItem(
	id kernel.UUID,
	productID kernel.UUID,
	lotID *kernel.UUID,
	quantity int,
	unitWeight kernel.Kilograms,
	unitBasePrice, unitSharerFee, unitFinalPrice kernel.Cents,
) (OrderItem, error) {
	return NewOrderItem(id, productID, lotID, quantity, unitWeight, unitBasePrice, unitSharerFee, unitFinalPrice)
}

// Validate ensures the item was created through a constructor.
func (i OrderItem) Validate() error {
	if !i.isConstructed {
		return ErrOrderItemIsNotConstructed
	}
	return nil
}

// ID returns the item identifier.
func (i OrderItem) ID() kernel.UUID { return i.id }

// ProductID returns the purchased product id.
func (i OrderItem) ProductID() kernel.UUID { return i.productID }

// LotID returns the purchased lot id, or nil when the product has no lots.
func (i OrderItem) LotID() *kernel.UUID { return i.lotID }

// Quantity returns the purchased unit count.
func (i OrderItem) Quantity() int { return i.quantity }

// UnitWeight returns the weight of one unit.
func (i OrderItem) UnitWeight() kernel.Kilograms { return i.unitWeight }

// UnitBasePrice returns the producer base price of one unit.
func (i OrderItem) UnitBasePrice() kernel.Cents { return i.unitBasePrice }

// UnitSharerFee returns the sharer fee of one unit.
func (i OrderItem) UnitSharerFee() kernel.Cents { return i.unitSharerFee }

// UnitFinalPrice returns the full price of one unit.
func (i OrderItem) UnitFinalPrice() kernel.Cents { return i.unitFinalPrice }

// LineWeight returns quantity times unit weight.
func (i OrderItem) LineWeight() kernel.Kilograms {
	return i.unitWeight.MulInt(int64(i.quantity))
}

// LineAmount returns quantity times unit final price.
func (i OrderItem) LineAmount() kernel.Cents {
	return i.unitFinalPrice.MulInt(int64(i.quantity))
}

// LineBaseAmount returns quantity times unit base price.
func (i OrderItem) LineBaseAmount() kernel.Cents {
	return i.unitBasePrice.MulInt(int64(i.quantity))
}

// SameProduct reports whether the item covers the given product and lot.
func (i OrderItem) SameProduct(productID kernel.UUID, lotID *kernel.UUID) bool {
	if !i.productID.IsEqual(productID) {
		return false
	}
	if (i.lotID == nil) != (lotID == nil) {
		return false
	}
	return i.lotID == nil || i.lotID.IsEqual(*lotID)
}

func (i *OrderItem) setIDs(id, productID kernel.UUID, lotID *kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := productID.Validate(); err != nil {
		return err
	}
	if lotID != nil {
		if err := lotID.Validate(); err != nil {
			return err
		}
	}
	i.id = id
	i.productID = productID
	i.lotID = lotID
	return nil
}

func (i *OrderItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *OrderItem) setPricing(unitWeight kernel.Kilograms, base, sharerFee, final kernel.Cents) error {
	if _, err := kernel.NewKilograms(float64(unitWeight)); err != nil {
		return err
	}
	if err := errors.Join(base.Validate(), sharerFee.Validate(), final.Validate()); err != nil {
		return err
	}
	if final != base.Add(sharerFee) {
		return errs.NewValueIsInvalidErrorWithCause("unitFinalPriceCents",
			fmt.Errorf("%d is not base %d plus sharer fee %d", final, base, sharerFee))
	}
	i.unitWeight = unitWeight
	i.unitBasePrice = base
	i.unitSharerFee = sharerFee
	i.unitFinalPrice = final
	return nil
}
