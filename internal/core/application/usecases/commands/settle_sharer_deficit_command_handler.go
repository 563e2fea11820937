package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"groupbuy/internal/core/domain/model/coop"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/core/domain/model/participant"
	"groupbuy/internal/core/domain/model/payment"
	"groupbuy/internal/core/domain/services"
	"groupbuy/internal/core/ports"
	"groupbuy/internal/pkg/errs"
)

// SettleSharerDeficitCommandHandler charges the sharer for their computed
// deficit. The amount is recomputed from the latest rows inside the
// transaction; once the payment is confirmed the deficit reads as zero and
// the order becomes lockable.
type SettleSharerDeficitCommandHandler struct {
	uowFactory UoWFactory
	provider   ports.PaymentProvider
	settlement services.SettlementCalculator
}

// NewSettleSharerDeficitCommandHandler creates a handler for deficit settlement.
func NewSettleSharerDeficitCommandHandler(uowFactory UoWFactory, provider ports.PaymentProvider) SettleSharerDeficitCommandHandler {
	return SettleSharerDeficitCommandHandler{
		uowFactory: uowFactory,
		provider:   provider,
		settlement: services.NewSettlementCalculator(),
	}
}

// Handle processes the settlement command.
func (h *SettleSharerDeficitCommandHandler) Handle(ctx context.Context, cmd SettleSharerDeficitCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	pending, err := h.createPendingPayment(ctx, cmd)
	if err != nil {
		return err
	}

	intent, err := h.provider.CreatePaymentIntent(ctx, cmd.IdempotencyKey(), pending.amount, pending.currency)
	if err != nil {
		if failErr := h.markFailed(ctx, pending.paymentID); failErr != nil {
			return errors.Join(err, failErr)
		}
		return err
	}

	return h.bindIntent(ctx, pending.paymentID, intent)
}

type pendingDeficitPayment struct {
	paymentID kernel.UUID
	amount    kernel.Cents
	currency  kernel.Currency
}

func (h *SettleSharerDeficitCommandHandler) createPendingPayment(
	ctx context.Context,
	cmd SettleSharerDeficitCommand,
) (pendingDeficitPayment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return pendingDeficitPayment{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().GetByCode(ctx, cmd.OrderCode())
	if err != nil {
		return pendingDeficitPayment{}, err
	}
	if actor := aggregate.RoleOf(cmd.ActorProfileID()); actor != order.RoleSharer {
		return pendingDeficitPayment{}, errs.NewConflictError("settle deficit",
			fmt.Sprintf("the deficit is settled by the sharer, not the %s", actor))
	}

	participants, err := uow.ParticipantRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return pendingDeficitPayment{}, err
	}
	payments, err := uow.PaymentRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return pendingDeficitPayment{}, err
	}

	ledger, err := uow.CoopRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return pendingDeficitPayment{}, err
	}

	snapshot := services.BuildSnapshot(aggregate, participants, payments, coop.ConsumedTotal(ledger))
	deficit := h.settlement.Deficit(snapshot)
	if deficit == 0 {
		return pendingDeficitPayment{}, errs.NewConflictError("settle deficit", "there is no outstanding deficit")
	}

	sharerRow := findSharerRow(participants)
	if sharerRow == nil {
		return pendingDeficitPayment{}, errs.NewObjectNotFoundError("sharerParticipant", aggregate.ID().String())
	}

	pay, err := payment.NewPayment(
		kernel.NewUUID(), aggregate.ID(), sharerRow.ID(),
		deficit, cmd.IdempotencyKey(), time.Now().UTC(),
	)
	if err != nil {
		return pendingDeficitPayment{}, err
	}
	if err = uow.PaymentRepository().Add(ctx, pay); err != nil {
		return pendingDeficitPayment{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return pendingDeficitPayment{}, err
	}

	return pendingDeficitPayment{
		paymentID: pay.ID(),
		amount:    pay.Amount(),
		currency:  aggregate.Settings().Currency,
	}, nil
}

func (h *SettleSharerDeficitCommandHandler) markFailed(ctx context.Context, paymentID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	pay, err := uow.PaymentRepository().Get(ctx, paymentID)
	if err != nil {
		return err
	}
	if err = pay.MarkFailed(time.Now().UTC()); err != nil {
		return err
	}
	if err = uow.PaymentRepository().Update(ctx, pay); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h *SettleSharerDeficitCommandHandler) bindIntent(ctx context.Context, paymentID kernel.UUID, intent ports.PaymentIntent) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()

	pay, err := uow.PaymentRepository().Get(ctx, paymentID)
	if err != nil {
		return err
	}
	if err = pay.AttachProviderRef(intent.ProviderRef, now); err != nil {
		return err
	}
	if intent.Status.IsTerminal() {
		if err = pay.ApplyProviderStatus(intent.Status, 0, 0, now); err != nil {
			return err
		}
	}
	if err = uow.PaymentRepository().Update(ctx, pay); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func findSharerRow(participants []*participant.Participant) *participant.Participant {
	for _, p := range participants {
		if p.IsSharer() {
			return p
		}
	}
	return nil
}
