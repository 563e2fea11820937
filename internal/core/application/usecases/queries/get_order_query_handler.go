package queries

import (
	"context"

	"groupbuy/internal/core/domain/model/coop"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/core/domain/model/participant"
	"groupbuy/internal/core/domain/services"
	"groupbuy/internal/core/ports"
)

// anonymousDisplayName is shown when the identity service does not know a
// profile or cannot be reached.
const anonymousDisplayName = "Anonymous"

// GetOrderQueryHandler assembles the order aggregate view from the order,
// participant and payment rows plus identity display data. Settlement figures
// are recomputed on every read; nothing in the view is cached.
type GetOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	identity   ports.IdentityClient
	settlement services.SettlementCalculator
}

// NewGetOrderQueryHandler creates a handler for order aggregate reads.
func NewGetOrderQueryHandler(uowFactory ports.UnitOfWorkFactory, identity ports.IdentityClient) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		uowFactory: uowFactory,
		identity:   identity,
		settlement: services.NewSettlementCalculator(),
	}
}

// Handle executes the query and assembles the viewer-scoped response.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return GetOrderQueryResponse{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().GetByCode(ctx, query.OrderCode())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	participants, err := uow.ParticipantRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	payments, err := uow.PaymentRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	ledger, err := uow.CoopRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	profiles := h.resolveProfiles(ctx, aggregate, participants)
	viewerRole := aggregate.RoleOf(query.ViewerProfileID())
	seesEverything := viewerRole != order.RoleParticipant

	resp := GetOrderQueryResponse{
		ID:              aggregate.ID(),
		Code:            aggregate.Code(),
		Status:          aggregate.Status().String(),
		Sharer:          profileView(aggregate.SharerID(), profiles),
		Producer:        profileView(aggregate.ProducerID(), profiles),
		Currency:        aggregate.Settings().Currency,
		MinWeight:       aggregate.Settings().MinWeight,
		MaxWeight:       aggregate.Settings().MaxWeight,
		TakeRatePct:     aggregate.Settings().TakeRatePct,
		LogisticsFee:    aggregate.Settings().LogisticsFee,
		CommittedWeight: services.CommittedWeight(participants),
		EffectiveWeight: aggregate.EffectiveWeight(),
		PickupSlots:     slotViews(aggregate, participants),
	}

	for _, row := range participants {
		if row.ProfileID().IsEqual(query.ViewerProfileID()) {
			view := participantView(row, profiles, true)
			resp.ViewerRow = &view
			break
		}
	}

	if seesEverything || aggregate.Settings().ShowParticipants {
		resp.Participants = make([]ParticipantView, 0, len(participants))
		for _, row := range participants {
			resp.Participants = append(resp.Participants, participantView(row, profiles, seesEverything))
		}
	}

	for _, pay := range payments {
		if !seesEverything && (resp.ViewerRow == nil || !pay.ParticipantID().IsEqual(resp.ViewerRow.ID)) {
			continue
		}
		resp.Payments = append(resp.Payments, PaymentView{
			ID:            pay.ID(),
			ParticipantID: pay.ParticipantID(),
			Amount:        pay.Amount(),
			Status:        pay.Status().String(),
			ProcessingFee: pay.ProcessingFee(),
			FeeVAT:        pay.FeeVAT(),
			CreatedAt:     pay.CreatedAt(),
		})
	}

	if seesEverything {
		snapshot := services.BuildSnapshot(aggregate, participants, payments, coop.ConsumedTotal(ledger))
		split, splitErr := h.settlement.Split(snapshot)
		if splitErr != nil {
			// Mid-collection snapshots have no consistent split yet; the
			// rest of the view stays renderable.
			return resp, nil
		}
		resp.Settlement = &SettlementView{
			TotalCollected:       snapshot.TotalCollected,
			PlatformCommission:   split.PlatformCommission,
			SharerShare:          split.SharerShare,
			SharerDiscount:       split.SharerDiscount,
			SharerDeficit:        split.SharerDeficit,
			CoopSurplus:          split.CoopSurplus,
			ParticipantCoopGains: split.ParticipantCoopGains,
			PaymentFees:          split.PaymentFees,
			ProducerTransfer:     split.ProducerTransfer,
		}
	}

	return resp, nil
}

// resolveProfiles fetches display data for every profile in the view.
// Identity failures degrade to anonymous names, they never fail the read.
func (h GetOrderQueryHandler) resolveProfiles(
	ctx context.Context,
	aggregate *order.Order,
	participants []*participant.Participant,
) map[kernel.UUID]ports.Profile {
	ids := make([]kernel.UUID, 0, len(participants)+2)
	ids = append(ids, aggregate.SharerID(), aggregate.ProducerID())
	for _, row := range participants {
		ids = append(ids, row.ProfileID())
	}

	profiles, err := h.identity.GetProfiles(ctx, ids)
	if err != nil {
		return nil
	}
	return profiles
}

func profileView(id kernel.UUID, profiles map[kernel.UUID]ports.Profile) ProfileView {
	if profile, ok := profiles[id]; ok {
		return ProfileView{ID: id, DisplayName: profile.DisplayName}
	}
	return ProfileView{ID: id, DisplayName: anonymousDisplayName}
}

func participantView(row *participant.Participant, profiles map[kernel.UUID]ports.Profile, withCode bool) ParticipantView {
	view := ParticipantView{
		ID:             row.ID(),
		Profile:        profileView(row.ProfileID(), profiles),
		IsSharer:       row.IsSharer(),
		Participation:  row.Participation().String(),
		PickupSlotID:   row.PickupSlotID(),
		PickupSlotTime: row.PickupSlotTime(),
		PickupStatus:   row.PickupStatus().String(),
		Items:          itemViews(row.Items()),
		TotalQuantity:  row.TotalQuantity(),
		TotalWeight:    row.TotalWeight(),
		TotalAmount:    row.TotalAmount(),
	}
	if withCode {
		view.PickupCode = row.PickupCode()
	}
	return view
}

func itemViews(items []participant.OrderItem) []OrderItemView {
	views := make([]OrderItemView, 0, len(items))
	for _, item := range items {
		views = append(views, OrderItemView{
			ID:             item.ID(),
			ProductID:      item.ProductID(),
			LotID:          item.LotID(),
			Quantity:       item.Quantity(),
			UnitWeight:     item.UnitWeight(),
			UnitBasePrice:  item.UnitBasePrice(),
			UnitSharerFee:  item.UnitSharerFee(),
			UnitFinalPrice: item.UnitFinalPrice(),
			LineAmount:     item.LineAmount(),
		})
	}
	return views
}

// slotViews projects the configured slots with their live reservation counts.
func slotViews(aggregate *order.Order, participants []*participant.Participant) []PickupSlotView {
	reservations := make(map[kernel.UUID]int)
	for _, row := range participants {
		if row.PickupSlotID() != nil && row.PickupStatus() != participant.PickupRejected {
			reservations[*row.PickupSlotID()]++
		}
	}

	views := make([]PickupSlotView, 0, len(aggregate.PickupSlots()))
	for _, slot := range aggregate.PickupSlots() {
		views = append(views, PickupSlotView{
			ID:           slot.ID(),
			Weekday:      slot.Weekday(),
			Date:         slot.Date(),
			StartMinute:  slot.StartMinute(),
			EndMinute:    slot.EndMinute(),
			Enabled:      slot.Enabled(),
			Reservations: reservations[slot.ID()],
		})
	}
	return views
}
