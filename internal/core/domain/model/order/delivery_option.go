package order

import (
	"fmt"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/errs"
)

// DeliveryKind discriminates the delivery option union.
type DeliveryKind int

const (
	// DeliveryUnknown represents an invalid or undefined delivery option.
	DeliveryUnknown DeliveryKind = iota

	// ProducerPickup means the sharer collects the order at the producer.
	// There is no carrier fee.
	ProducerPickup

	// ProducerDelivery means the producer delivers to the sharer's address.
	// The carrier fee is fronted by the sharer and reimbursed in the
	// revenue split.
	ProducerDelivery

	// Chronofresh means a refrigerated carrier ships to the sharer's
	// address. The carrier fee is part of the order logistics cost and is
	// spread over participants through the per-kilogram fee.
	Chronofresh
)

// String returns the human-readable name of the delivery kind.
func (k DeliveryKind) String() string {
	switch k {
	case ProducerPickup:
		return "ProducerPickup"
	case ProducerDelivery:
		return "ProducerDelivery"
	case Chronofresh:
		return "Chronofresh"
	default:
		return "Unknown"
	}
}

// Address is the delivery destination for options that ship to the sharer.
type Address struct {
	Street     string
	City       string
	PostalCode string
}

func (a Address) validate() error {
	if a.Street == "" || a.City == "" || a.PostalCode == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	return nil
}

// DeliveryOption is a tagged union keyed by DeliveryKind. Address and fee
// fields only exist for the kinds that ship, which rules out invalid field
// combinations instead of relying on convention.
type DeliveryOption struct {
	kind    DeliveryKind
	address Address
	fee     kernel.Cents

	guard kernel.ConstructorGuard
}

// NewProducerPickupOption creates the pickup-at-producer option.
func NewProducerPickupOption() DeliveryOption {
	return DeliveryOption{
		kind:  ProducerPickup,
		guard: kernel.NewConstructorGuard(),
	}
}

// NewProducerDeliveryOption creates the producer-delivers option.
// The fee is fronted by the sharer and reimbursed in the revenue split.
func NewProducerDeliveryOption(address Address, fee kernel.Cents) (DeliveryOption, error) {
	if err := address.validate(); err != nil {
		return DeliveryOption{}, err
	}
	if err := fee.Validate(); err != nil {
		return DeliveryOption{}, err
	}
	return DeliveryOption{
		kind:    ProducerDelivery,
		address: address,
		fee:     fee,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// NewChronofreshOption creates the refrigerated-carrier option.
func NewChronofreshOption(address Address, fee kernel.Cents) (DeliveryOption, error) {
	if err := address.validate(); err != nil {
		return DeliveryOption{}, err
	}
	if err := fee.Validate(); err != nil {
		return DeliveryOption{}, err
	}
	return DeliveryOption{
		kind:    Chronofresh,
		address: address,
		fee:     fee,
		guard:   kernel.NewConstructorGuard(),
	}, nil
}

// RestoreDeliveryOption reconstructs a delivery option from persistence.
func RestoreDeliveryOption(kind DeliveryKind, address Address, fee kernel.Cents) (DeliveryOption, error) {
	switch kind {
	case ProducerPickup:
		return NewProducerPickupOption(), nil
	case ProducerDelivery:
		return NewProducerDeliveryOption(address, fee)
	case Chronofresh:
		return NewChronofreshOption(address, fee)
	default:
		return DeliveryOption{}, errs.NewValueIsInvalidErrorWithCause(
			"delivery kind", fmt.Errorf("%d is not a valid delivery kind", kind))
	}
}

// Validate ensures the option was created through a constructor.
func (d DeliveryOption) Validate() error {
	return d.guard.Validate(errs.NewValueIsRequiredError("delivery option"))
}

// Kind returns the union discriminator.
func (d DeliveryOption) Kind() DeliveryKind {
	return d.kind
}

// Address returns the destination address. Zero value for ProducerPickup.
func (d DeliveryOption) Address() Address {
	return d.address
}

// Fee returns the carrier fee in cents. Zero for ProducerPickup.
func (d DeliveryOption) Fee() kernel.Cents {
	return d.fee
}

// FeeOnSharer reports whether the carrier cost lands on the sharer and must
// be reimbursed in full by the revenue split.
func (d DeliveryOption) FeeOnSharer() bool {
	return d.kind == ProducerDelivery
}
