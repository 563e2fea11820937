package queries

import (
	"errors"
	"time"

	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
	ErrOrderCodeIsRequired = errors.New("order code is required")
)

// GetOrderQuery retrieves the aggregate view of one group-buy order as seen
// by a specific viewer. What the response contains depends on the viewer's
// role: the participant list is included for the sharer and producer always,
// for participants only when the order exposes it, and the settlement figures
// are reserved to the sharer and producer.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderCode       string
	viewerProfileID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the order aggregate view.
func NewGetOrderQuery(orderCode string, viewerProfileID kernel.UUID) (GetOrderQuery, error) {
	q := GetOrderQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setOrderCode(orderCode),
		q.setViewer(viewerProfileID),
	); err != nil {
		return GetOrderQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderCode returns the order's short code.
func (q GetOrderQuery) OrderCode() string {
	return q.orderCode
}

// ViewerProfileID returns the requesting profile.
func (q GetOrderQuery) ViewerProfileID() kernel.UUID {
	return q.viewerProfileID
}

func (q *GetOrderQuery) setOrderCode(code string) error {
	if code == "" {
		return ErrOrderCodeIsRequired
	}

	q.orderCode = code
	return nil
}

func (q *GetOrderQuery) setViewer(profileID kernel.UUID) error {
	if err := profileID.Validate(); err != nil {
		return err
	}

	q.viewerProfileID = profileID
	return nil
}

// ProfileView is the identity data shown for a platform user.
type ProfileView struct {
	ID          kernel.UUID
	DisplayName string
}

// PickupSlotView is one configured retrieval window.
type PickupSlotView struct {
	ID          kernel.UUID
	Weekday     *time.Weekday
	Date        *time.Time
	StartMinute int
	EndMinute   int
	Enabled     bool

	// Reservations is recomputed from participant rows on every read.
	Reservations int
}

// OrderItemView is one priced item line of a participant row.
type OrderItemView struct {
	ID        kernel.UUID
	ProductID kernel.UUID
	LotID     *kernel.UUID

	Quantity   int
	UnitWeight kernel.Kilograms

	UnitBasePrice  kernel.Cents
	UnitSharerFee  kernel.Cents
	UnitFinalPrice kernel.Cents
	LineAmount     kernel.Cents
}

// PaymentView is one payment row of the order.
type PaymentView struct {
	ID            kernel.UUID
	ParticipantID kernel.UUID
	Amount        kernel.Cents
	Status        string
	ProcessingFee kernel.Cents
	FeeVAT        kernel.Cents
	CreatedAt     time.Time
}

// ParticipantView is one participant row of the order.
type ParticipantView struct {
	ID            kernel.UUID
	Profile       ProfileView
	IsSharer      bool
	Participation string

	PickupSlotID   *kernel.UUID
	PickupSlotTime *time.Time
	PickupStatus   string

	// PickupCode is only filled on the viewer's own row, and on every row
	// for the sharer and the producer.
	PickupCode string

	Items []OrderItemView

	TotalQuantity int
	TotalWeight   kernel.Kilograms
	TotalAmount   kernel.Cents
}

// SettlementView is the revenue split preview, present only for the sharer
// and the producer.
type SettlementView struct {
	TotalCollected       kernel.Cents
	PlatformCommission   kernel.Cents
	SharerShare          kernel.Cents
	SharerDiscount       kernel.Cents
	SharerDeficit        kernel.Cents
	CoopSurplus          kernel.Cents
	ParticipantCoopGains kernel.Cents
	PaymentFees          kernel.Cents
	ProducerTransfer     kernel.Cents
}

// GetOrderQueryResponse is the assembled aggregate view.
type GetOrderQueryResponse struct {
	ID     kernel.UUID
	Code   string
	Status string

	Sharer   ProfileView
	Producer ProfileView

	Currency     kernel.Currency
	MinWeight    kernel.Kilograms
	MaxWeight    *kernel.Kilograms
	TakeRatePct  int
	LogisticsFee kernel.Cents

	// CommittedWeight is the live accepted-row total; EffectiveWeight is the
	// clamped snapshot taken at lock time, zero before that.
	CommittedWeight kernel.Kilograms
	EffectiveWeight kernel.Kilograms

	PickupSlots []PickupSlotView

	// Participants is nil when the viewer may not see the list. The viewer's
	// own row, when present, is always in ViewerRow.
	Participants []ParticipantView
	ViewerRow    *ParticipantView

	// Payments holds every payment for the sharer and the producer, and only
	// the viewer's own payments for a participant.
	Payments []PaymentView

	Settlement *SettlementView
}
