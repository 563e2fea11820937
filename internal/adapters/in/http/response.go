package http

import (
	"time"

	"groupbuy/internal/core/application/usecases/queries"
)

// ProfileResponse is the display data of a platform user.
type ProfileResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PickupSlotResponse is one configured retrieval window.
type PickupSlotResponse struct {
	ID           string  `json:"id"`
	Weekday      *int    `json:"weekday,omitempty"`
	Date         *string `json:"date,omitempty"`
	StartMinute  int     `json:"start_minute"`
	EndMinute    int     `json:"end_minute"`
	Enabled      bool    `json:"enabled"`
	Reservations int     `json:"reservations"`
}

// OrderItemResponse is one priced item line of a participant row.
type OrderItemResponse struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	LotID     *string `json:"lot_id,omitempty"`

	Quantity   int     `json:"quantity"`
	UnitWeight float64 `json:"unit_weight"`

	UnitBasePrice  int64 `json:"unit_base_price"`
	UnitSharerFee  int64 `json:"unit_sharer_fee"`
	UnitFinalPrice int64 `json:"unit_final_price"`
	LineAmount     int64 `json:"line_amount"`
}

// PaymentResponse is one payment row of the order.
type PaymentResponse struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participant_id"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	ProcessingFee int64     `json:"processing_fee"`
	FeeVAT        int64     `json:"fee_vat"`
	CreatedAt     time.Time `json:"created_at"`
}

// ParticipantResponse is one participant row of the order.
type ParticipantResponse struct {
	ID            string          `json:"id"`
	Profile       ProfileResponse `json:"profile"`
	IsSharer      bool            `json:"is_sharer"`
	Participation string          `json:"participation"`

	PickupSlotID   *string    `json:"pickup_slot_id,omitempty"`
	PickupSlotTime *time.Time `json:"pickup_slot_time,omitempty"`
	PickupStatus   string     `json:"pickup_status"`
	PickupCode     string     `json:"pickup_code,omitempty"`

	Items []OrderItemResponse `json:"items,omitempty"`

	TotalQuantity int     `json:"total_quantity"`
	TotalWeight   float64 `json:"total_weight"`
	TotalAmount   int64   `json:"total_amount"`
}

// SettlementResponse is the revenue split preview, present only for the
// sharer and the producer.
type SettlementResponse struct {
	TotalCollected       int64 `json:"total_collected"`
	PlatformCommission   int64 `json:"platform_commission"`
	SharerShare          int64 `json:"sharer_share"`
	SharerDiscount       int64 `json:"sharer_discount"`
	SharerDeficit        int64 `json:"sharer_deficit"`
	CoopSurplus          int64 `json:"coop_surplus"`
	ParticipantCoopGains int64 `json:"participant_coop_gains"`
	PaymentFees          int64 `json:"payment_fees"`
	ProducerTransfer     int64 `json:"producer_transfer"`
}

// OrderResponse is the assembled aggregate view scoped to the viewer.
type OrderResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Status string `json:"status"`

	Sharer   ProfileResponse `json:"sharer"`
	Producer ProfileResponse `json:"producer"`

	Currency     string   `json:"currency"`
	MinWeight    float64  `json:"min_weight"`
	MaxWeight    *float64 `json:"max_weight,omitempty"`
	TakeRatePct  int      `json:"take_rate_pct"`
	LogisticsFee int64    `json:"logistics_fee"`

	CommittedWeight float64 `json:"committed_weight"`
	EffectiveWeight float64 `json:"effective_weight"`

	PickupSlots []PickupSlotResponse `json:"pickup_slots"`

	Participants []ParticipantResponse `json:"participants,omitempty"`
	ViewerRow    *ParticipantResponse  `json:"viewer_row,omitempty"`

	Payments []PaymentResponse `json:"payments,omitempty"`

	Settlement *SettlementResponse `json:"settlement,omitempty"`
}

func toOrderResponse(view queries.GetOrderQueryResponse) OrderResponse {
	response := OrderResponse{
		ID:     view.ID.String(),
		Code:   view.Code,
		Status: view.Status,

		Sharer:   toProfileResponse(view.Sharer),
		Producer: toProfileResponse(view.Producer),

		Currency:     string(view.Currency),
		MinWeight:    float64(view.MinWeight),
		TakeRatePct:  view.TakeRatePct,
		LogisticsFee: int64(view.LogisticsFee),

		CommittedWeight: float64(view.CommittedWeight),
		EffectiveWeight: float64(view.EffectiveWeight),

		PickupSlots: make([]PickupSlotResponse, 0, len(view.PickupSlots)),
	}

	if view.MaxWeight != nil {
		weight := float64(*view.MaxWeight)
		response.MaxWeight = &weight
	}

	for _, slot := range view.PickupSlots {
		response.PickupSlots = append(response.PickupSlots, toSlotResponse(slot))
	}

	if view.Participants != nil {
		response.Participants = make([]ParticipantResponse, 0, len(view.Participants))
		for _, row := range view.Participants {
			response.Participants = append(response.Participants, toParticipantResponse(row))
		}
	}

	if view.ViewerRow != nil {
		row := toParticipantResponse(*view.ViewerRow)
		response.ViewerRow = &row
	}

	if view.Payments != nil {
		response.Payments = make([]PaymentResponse, 0, len(view.Payments))
		for _, pay := range view.Payments {
			response.Payments = append(response.Payments, toPaymentResponse(pay))
		}
	}

	if view.Settlement != nil {
		response.Settlement = &SettlementResponse{
			TotalCollected:       int64(view.Settlement.TotalCollected),
			PlatformCommission:   int64(view.Settlement.PlatformCommission),
			SharerShare:          int64(view.Settlement.SharerShare),
			SharerDiscount:       int64(view.Settlement.SharerDiscount),
			SharerDeficit:        int64(view.Settlement.SharerDeficit),
			CoopSurplus:          int64(view.Settlement.CoopSurplus),
			ParticipantCoopGains: int64(view.Settlement.ParticipantCoopGains),
			PaymentFees:          int64(view.Settlement.PaymentFees),
			ProducerTransfer:     int64(view.Settlement.ProducerTransfer),
		}
	}

	return response
}

func toProfileResponse(profile queries.ProfileView) ProfileResponse {
	return ProfileResponse{
		ID:          profile.ID.String(),
		DisplayName: profile.DisplayName,
	}
}

func toSlotResponse(slot queries.PickupSlotView) PickupSlotResponse {
	response := PickupSlotResponse{
		ID:           slot.ID.String(),
		StartMinute:  slot.StartMinute,
		EndMinute:    slot.EndMinute,
		Enabled:      slot.Enabled,
		Reservations: slot.Reservations,
	}
	if slot.Weekday != nil {
		weekday := int(*slot.Weekday)
		response.Weekday = &weekday
	}
	if slot.Date != nil {
		date := slot.Date.Format("2006-01-02")
		response.Date = &date
	}
	return response
}

func toParticipantResponse(row queries.ParticipantView) ParticipantResponse {
	response := ParticipantResponse{
		ID:            row.ID.String(),
		Profile:       toProfileResponse(row.Profile),
		IsSharer:      row.IsSharer,
		Participation: row.Participation,
		PickupStatus:  row.PickupStatus,
		PickupCode:    row.PickupCode,

		PickupSlotTime: row.PickupSlotTime,

		TotalQuantity: row.TotalQuantity,
		TotalWeight:   float64(row.TotalWeight),
		TotalAmount:   int64(row.TotalAmount),
	}
	if row.PickupSlotID != nil {
		slotID := row.PickupSlotID.String()
		response.PickupSlotID = &slotID
	}
	if len(row.Items) > 0 {
		response.Items = make([]OrderItemResponse, 0, len(row.Items))
		for _, item := range row.Items {
			response.Items = append(response.Items, toItemResponse(item))
		}
	}
	return response
}

func toItemResponse(item queries.OrderItemView) OrderItemResponse {
	response := OrderItemResponse{
		ID:        item.ID.String(),
		ProductID: item.ProductID.String(),

		Quantity:   item.Quantity,
		UnitWeight: float64(item.UnitWeight),

		UnitBasePrice:  int64(item.UnitBasePrice),
		UnitSharerFee:  int64(item.UnitSharerFee),
		UnitFinalPrice: int64(item.UnitFinalPrice),
		LineAmount:     int64(item.LineAmount),
	}
	if item.LotID != nil {
		lotID := item.LotID.String()
		response.LotID = &lotID
	}
	return response
}

func toPaymentResponse(pay queries.PaymentView) PaymentResponse {
	return PaymentResponse{
		ID:            pay.ID.String(),
		ParticipantID: pay.ParticipantID.String(),
		Amount:        int64(pay.Amount),
		Status:        pay.Status,
		ProcessingFee: int64(pay.ProcessingFee),
		FeeVAT:        int64(pay.FeeVAT),
		CreatedAt:     pay.CreatedAt,
	}
}
