package commands

import (
	"context"
	"time"

	"groupbuy/internal/core/domain/model/coop"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/model/order"
	"groupbuy/internal/core/domain/services"
	"groupbuy/internal/core/ports"
)

// RecoverCommissionInvoicesCommandHandler completes commission billing for
// orders whose invoice was never recorded. The issuer deduplicates on the
// order id, so re-issuing after a crash between the provider call and the
// record write returns the same invoice.
type RecoverCommissionInvoicesCommandHandler struct {
	uowFactory UoWFactory
	issuer     ports.InvoiceIssuer
	settlement services.SettlementCalculator
}

// NewRecoverCommissionInvoicesCommandHandler creates a handler for invoice recovery sweeps.
func NewRecoverCommissionInvoicesCommandHandler(
	uowFactory UoWFactory, issuer ports.InvoiceIssuer,
) RecoverCommissionInvoicesCommandHandler {
	return RecoverCommissionInvoicesCommandHandler{
		uowFactory: uowFactory,
		issuer:     issuer,
		settlement: services.NewSettlementCalculator(),
	}
}

// Handle processes one recovery sweep. The first error is returned after
// all unbilled orders have been visited.
func (h *RecoverCommissionInvoicesCommandHandler) Handle(ctx context.Context, cmd RecoverCommissionInvoicesCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	unbilled, err := h.loadUnbilled(ctx)
	if err != nil {
		return err
	}

	var firstErr error
	for _, aggregate := range unbilled {
		if recoverErr := h.recoverOne(ctx, aggregate); recoverErr != nil && firstErr == nil {
			firstErr = recoverErr
		}
	}

	return firstErr
}

func (h *RecoverCommissionInvoicesCommandHandler) loadUnbilled(ctx context.Context) ([]*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OrderRepository().GetAllNeedingCommissionInvoice(ctx)
}

func (h *RecoverCommissionInvoicesCommandHandler) recoverOne(ctx context.Context, aggregate *order.Order) error {
	commission, err := h.commissionFor(ctx, aggregate)
	if err != nil {
		return err
	}

	invoiceID, err := h.issuer.IssueCommissionInvoice(
		ctx, aggregate.ID(), commission, aggregate.Settings().Currency,
	)
	if err != nil {
		return err
	}

	return h.recordInvoice(ctx, aggregate.Code(), invoiceID)
}

func (h *RecoverCommissionInvoicesCommandHandler) commissionFor(ctx context.Context, aggregate *order.Order) (kernel.Cents, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	participants, err := uow.ParticipantRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return 0, err
	}
	payments, err := uow.PaymentRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return 0, err
	}
	ledger, err := uow.CoopRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return 0, err
	}

	snapshot := services.BuildSnapshot(aggregate, participants, payments, coop.ConsumedTotal(ledger))
	split, err := h.settlement.Split(snapshot)
	if err != nil {
		return 0, err
	}

	return split.PlatformCommission, nil
}

func (h *RecoverCommissionInvoicesCommandHandler) recordInvoice(ctx context.Context, orderCode, invoiceID string) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetByCode(ctx, orderCode)
	if err != nil {
		return err
	}

	if err = aggregate.RecordCommissionInvoice(invoiceID, time.Now().UTC()); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
