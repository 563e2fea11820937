package commands

import (
	"context"
	"time"

	"groupbuy/internal/core/domain/model/coop"
	"groupbuy/internal/core/domain/model/kernel"
	"groupbuy/internal/core/domain/services"
	"groupbuy/internal/core/ports"
)

// DistributeOrderCommandHandler marks an order as distributed and issues
// the platform commission invoice.
//
// The status change and the invoice are deliberately split into two
// transactions: the external invoice call must not run inside a database
// transaction. If the process dies between them, the order stays flagged as
// needing its invoice and the recovery job completes the work through the
// same idempotent issuer.
type DistributeOrderCommandHandler struct {
	uowFactory UoWFactory
	issuer     ports.InvoiceIssuer
	settlement services.SettlementCalculator
}

// NewDistributeOrderCommandHandler creates a handler for order distribution.
func NewDistributeOrderCommandHandler(uowFactory UoWFactory, issuer ports.InvoiceIssuer) DistributeOrderCommandHandler {
	return DistributeOrderCommandHandler{
		uowFactory: uowFactory,
		issuer:     issuer,
		settlement: services.NewSettlementCalculator(),
	}
}

// Handle processes the distribute command.
func (h *DistributeOrderCommandHandler) Handle(ctx context.Context, cmd DistributeOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	commission, err := h.markDistributed(ctx, cmd)
	if err != nil {
		return err
	}

	invoiceID, err := h.issuer.IssueCommissionInvoice(
		ctx, commission.orderID, commission.amount, commission.currency,
	)
	if err != nil {
		// The order is distributed but unbilled; the invoice recovery job
		// picks it up.
		return err
	}

	return h.recordInvoice(ctx, cmd.OrderCode(), invoiceID)
}

type commissionDue struct {
	orderID  kernel.UUID
	amount   kernel.Cents
	currency kernel.Currency
}

func (h *DistributeOrderCommandHandler) markDistributed(ctx context.Context, cmd DistributeOrderCommand) (commissionDue, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return commissionDue{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.GetByCode(ctx, cmd.OrderCode())
	if err != nil {
		return commissionDue{}, err
	}

	if err = aggregate.Distribute(aggregate.RoleOf(cmd.ActorProfileID()), time.Now().UTC()); err != nil {
		return commissionDue{}, err
	}

	participants, err := uow.ParticipantRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return commissionDue{}, err
	}
	payments, err := uow.PaymentRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return commissionDue{}, err
	}
	ledger, err := uow.CoopRepository().GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return commissionDue{}, err
	}

	snapshot := services.BuildSnapshot(aggregate, participants, payments, coop.ConsumedTotal(ledger))
	split, err := h.settlement.Split(snapshot)
	if err != nil {
		return commissionDue{}, err
	}

	// Distribution settles the sharer's surplus: it becomes a
	// cooperative-gain credit spendable on future orders. The status
	// transition guards this against double crediting.
	if split.CoopSurplus > 0 {
		credit, creditErr := coop.NewCredit(
			kernel.NewUUID(), aggregate.SharerID(), aggregate.ID(),
			split.CoopSurplus, time.Now().UTC(),
		)
		if creditErr != nil {
			return commissionDue{}, creditErr
		}
		if err = uow.CoopRepository().Add(ctx, credit); err != nil {
			return commissionDue{}, err
		}
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return commissionDue{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return commissionDue{}, err
	}

	return commissionDue{
		orderID:  aggregate.ID(),
		amount:   split.PlatformCommission,
		currency: aggregate.Settings().Currency,
	}, nil
}

func (h *DistributeOrderCommandHandler) recordInvoice(ctx context.Context, orderCode, invoiceID string) error {
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
