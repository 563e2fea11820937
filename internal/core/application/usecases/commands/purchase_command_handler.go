package commands

import (
	"context"
	"errors"
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

// PurchaseCommandHandler runs the purchase saga:
//
//  1. resolve the requested products against the catalog
//  2. in one transaction: load or create the participant row, price and
//     clamp every line at the projected weight, write the item lines, a
//     pending payment and, when the buyer's cooperative-gain balance covers
//     the total, the ledger debit consuming it, commit
//  3. open the payment intent at the provider, or, for a balance-funded
//     purchase, issue the participant invoice instead of charging
//  4. in a second transaction: bind the provider reference (the invoice id
//     for a balance-funded purchase), apply a terminal status and issue the
//     pickup code, or on provider failure compensate the committed writes in
//     reverse order (restore or remove item lines, delete the ledger debit,
//     delete a freshly created row without activity) and mark the payment
//     failed for audit
//
// The sharer's own purchases are not charged: their cost is netted against
// the sharer's earnings in the revenue split.
type PurchaseCommandHandler struct {
	uowFactory UoWFactory
	catalog    ports.CatalogClient
	provider   ports.PaymentProvider
	issuer     ports.InvoiceIssuer
	pricing    services.PricingCalculator
}

// NewPurchaseCommandHandler creates a handler for purchases.
func NewPurchaseCommandHandler(
	uowFactory UoWFactory,
	catalog ports.CatalogClient,
	provider ports.PaymentProvider,
	issuer ports.InvoiceIssuer,
) PurchaseCommandHandler {
	return PurchaseCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		provider:   provider,
		issuer:     issuer,
		pricing:    services.NewPricingCalculator(),
	}
}

// lineChange records one applied item write for later compensation.
type lineChange struct {
	newItemID kernel.UUID
	previous  participant.OrderItem
	replaced  bool
}

// purchaseWrite is what the first transaction committed and the second one
// must either complete or undo.
type purchaseWrite struct {
	paymentID     kernel.UUID
	participantID kernel.UUID
	orderID       kernel.UUID
	createdRow    bool
	changes       []lineChange
	amount        kernel.Cents
	currency      kernel.Currency
	charged       bool

	// coopDebitID is set when the buyer's cooperative-gain balance covers
	// the total: the debit consuming it, funding the payment without a
	// provider charge.
	coopDebitID kernel.UUID
	coopFunded  bool
}

// Handle processes the purchase command.
func (h *PurchaseCommandHandler) Handle(ctx context.Context, cmd PurchaseCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if done, err := h.alreadyProcessed(ctx, cmd.IdempotencyKey()); done || err != nil {
		return err
	}

	products, err := h.resolveProducts(ctx, cmd.Lines())
	if err != nil {
		return err
	}

	write, err := h.applyPurchase(ctx, cmd, products)
	if err != nil {
		return err
	}
	if !write.charged {
		return nil
	}

	if write.coopFunded {
		return h.settleFromBalance(ctx, cmd, write)
	}

	intent, err := h.provider.CreatePaymentIntent(ctx, cmd.IdempotencyKey(), write.amount, write.currency)
	if err != nil {
		if compErr := h.compensate(ctx, write); compErr != nil {
			return errors.Join(err, compErr)
		}
		return err
	}

	return h.confirmIntent(ctx, write, intent)
}

// settleFromBalance completes a purchase funded entirely by the buyer's
// cooperative-gain balance. No money moves: the invoice service documents
// the settlement and its id doubles as the payment's provider reference.
func (h *PurchaseCommandHandler) settleFromBalance(ctx context.Context, cmd PurchaseCommand, write purchaseWrite) error {
	invoiceID, err := h.issuer.IssueParticipantInvoice(
		ctx, cmd.IdempotencyKey(),
		write.orderID, write.participantID,
		write.amount, write.currency,
	)
	if err != nil {
		if compErr := h.compensate(ctx, write); compErr != nil {
			return errors.Join(err, compErr)
		}
		return err
	}

	return h.confirmIntent(ctx, write, ports.PaymentIntent{
		ProviderRef: invoiceID,
		Status:      payment.Paid,
	})
}

// alreadyProcessed resolves retries of a logical attempt. A key bound to a
// live payment means the earlier invocation went through; a failed one must
// not be resurrected under the same key.
func (h *PurchaseCommandHandler) alreadyProcessed(ctx context.Context, key string) (bool, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	existing, err := uow.PaymentRepository().GetByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return false, nil
		}
		return false, err
	}

	if existing.Status() == payment.Failed {
		return false, errs.NewConflictError("purchase",
			"this attempt already failed, retry with a new idempotency key")
	}
	return true, nil
}

func (h *PurchaseCommandHandler) resolveProducts(ctx context.Context, lines []PurchaseLine) ([]ports.CatalogProduct, error) {
	products := make([]ports.CatalogProduct, 0, len(lines))
	for _, line := range lines {
		product, err := h.catalog.GetProduct(ctx, line.ProductID, line.LotID)
		if err != nil {
			return nil, err
		}
		if !product.Available {
			return nil, errs.NewConflictError("purchase",
				"product "+line.ProductID.String()+" is no longer available")
		}
		products = append(products, product)
	}
	return products, nil
}

// applyPurchase is the saga's first transaction.
func (h *PurchaseCommandHandler) applyPurchase(
	ctx context.Context,
	cmd PurchaseCommand,
	products []ports.CatalogProduct,
) (purchaseWrite, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return purchaseWrite{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()

	aggregate, err := uow.OrderRepository().GetByCode(ctx, cmd.OrderCode())
	if err != nil {
		return purchaseWrite{}, err
	}
	if !aggregate.IsOpen() {
		return purchaseWrite{}, errs.NewConflictError("purchase", "order is not open for purchasing")
	}

	participantRepo := uow.ParticipantRepository()
	row, createdRow, err := h.loadOrCreateRow(ctx, participantRepo, aggregate, cmd.ProfileID(), now)
	if err != nil {
		return purchaseWrite{}, err
	}
	if !row.IsAccepted() {
		return purchaseWrite{}, errs.NewConflictError("purchase", "participation is not accepted")
	}

	participants, err := participantRepo.GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return purchaseWrite{}, err
	}
	if createdRow {
		participants = append(participants, row)
	}

	write := purchaseWrite{
		participantID: row.ID(),
		orderID:       aggregate.ID(),
		createdRow:    createdRow,
		currency:      aggregate.Settings().Currency,
		charged:       !row.IsSharer(),
	}

	if err = h.priceAndApplyLines(aggregate, participants, row, cmd.Lines(), products, &write, now); err != nil {
		return purchaseWrite{}, err
	}

	if createdRow {
		err = participantRepo.Add(ctx, row)
	} else {
		err = participantRepo.Update(ctx, row)
	}
	if err != nil {
		return purchaseWrite{}, err
	}

	if write.charged {
		if err = h.applyCoopBalance(ctx, uow, cmd.ProfileID(), &write, now); err != nil {
			return purchaseWrite{}, err
		}

		pay, payErr := payment.NewPayment(
			kernel.NewUUID(), aggregate.ID(), row.ID(),
			write.amount, cmd.IdempotencyKey(), now,
		)
		if payErr != nil {
			return purchaseWrite{}, payErr
		}
		if err = uow.PaymentRepository().Add(ctx, pay); err != nil {
			return purchaseWrite{}, err
		}
		write.paymentID = pay.ID()
	}

	if err = uow.Commit(ctx); err != nil {
		return purchaseWrite{}, err
	}
	return write, nil
}

// applyCoopBalance funds the purchase from the buyer's cooperative-gain
// balance when the balance covers the whole total. Partial balances are left
// untouched: the provider charges the full amount and the credit stays
// spendable on a later purchase it can cover.
func (h *PurchaseCommandHandler) applyCoopBalance(
	ctx context.Context,
	uow UoW,
	profileID kernel.UUID,
	write *purchaseWrite,
	now time.Time,
) error {
	entries, err := uow.CoopRepository().GetAllByProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if write.amount <= 0 || coop.Balance(entries) < write.amount {
		return nil
	}

	debit, err := coop.NewDebit(kernel.NewUUID(), profileID, write.orderID, write.amount, now)
	if err != nil {
		return err
	}
	if err = uow.CoopRepository().Add(ctx, debit); err != nil {
		return err
	}

	write.coopDebitID = debit.ID()
	write.coopFunded = true
	return nil
}

func (h *PurchaseCommandHandler) loadOrCreateRow(
	ctx context.Context,
	repo ports.ParticipantRepository,
	aggregate *order.Order,
	profileID kernel.UUID,
	now time.Time,
) (*participant.Participant, bool, error) {
	row, err := repo.GetByOrderAndProfile(ctx, aggregate.ID(), profileID)
	if err == nil {
		return row, false, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, false, err
	}

	row, err = participant.NewParticipant(
		kernel.NewUUID(), aggregate.ID(), profileID,
		aggregate.RoleOf(profileID),
		aggregate.Settings().AutoApproveParticipants,
		now,
	)
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// priceAndApplyLines clamps and prices every requested line at the projected
// order weight, then writes the item lines onto the participant row. The
// pricing weight includes the weight added by this purchase, so every line
// of the request is priced at the same declining per-kilogram fee.
func (h *PurchaseCommandHandler) priceAndApplyLines(
	aggregate *order.Order,
	participants []*participant.Participant,
	row *participant.Participant,
	lines []PurchaseLine,
	products []ports.CatalogProduct,
	write *purchaseWrite,
	now time.Time,
) error {
	maxThreshold := aggregate.Settings().MaxWeight

	// Weight committed by everyone else plus the row's lines that this
	// request does not touch.
	baseWeight := services.CommittedWeight(participants)
	if row.IsAccepted() {
		for idx, line := range lines {
			if prev, ok := row.ItemForProduct(line.ProductID, products[idx].LotID); ok {
				baseWeight -= prev.LineWeight()
			}
		}
	}

	// First pass: clamp quantities so the total stays under the threshold.
	quantities := make([]int, len(lines))
	var selected kernel.Kilograms
	for idx, line := range lines {
		quantities[idx] = h.pricing.ClampQuantity(
			line.Quantity, 0,
			products[idx].UnitWeight,
			baseWeight, selected, maxThreshold,
		)
		if quantities[idx] == 0 {
			return errs.NewConflictError("purchase",
				"order weight threshold leaves no room for "+line.ProductID.String())
		}
		selected = selected.Add(products[idx].UnitWeight.MulInt(int64(quantities[idx])))
	}

	pricingWeight := h.pricing.PricingWeight(baseWeight, selected, maxThreshold)
	feePerKg := h.pricing.FeePerKg(aggregate.Settings().LogisticsFee, pricingWeight)
	takeRate := aggregate.Settings().TakeRatePct

	for idx, line := range lines {
		unit := h.pricing.UnitPrice(products[idx].BaseUnitPrice, products[idx].UnitWeight, feePerKg, takeRate)

		item, err := participant.NewOrderItem(
			kernel.NewUUID(), line.ProductID, products[idx].LotID,
			quantities[idx], products[idx].UnitWeight,
			unit.BasePlusDelivery, unit.SharerFee, unit.Final,
		)
		if err != nil {
			return err
		}

		change := lineChange{newItemID: item.ID()}
		if prev, ok := row.ItemForProduct(line.ProductID, products[idx].LotID); ok {
			change.previous = prev
			change.replaced = true
		}

		if err = row.UpsertItem(item, aggregate.IsOpen(), now); err != nil {
			return err
		}

		write.changes = append(write.changes, change)
		write.amount = write.amount.Add(item.LineAmount())
	}

	return nil
}

// compensate undoes the first transaction's writes after a provider failure,
// in reverse order of application. The payment row is kept and marked failed
// for audit.
func (h *PurchaseCommandHandler) compensate(ctx context.Context, write purchaseWrite) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()

	pay, err := uow.PaymentRepository().Get(ctx, write.paymentID)
	if err != nil {
		return err
	}
	if err = pay.MarkFailed(now); err != nil {
		return err
	}
	if err = uow.PaymentRepository().Update(ctx, pay); err != nil {
		return err
	}

	if write.coopFunded {
		if err = uow.CoopRepository().Delete(ctx, write.coopDebitID); err != nil {
			return err
		}
	}

	participantRepo := uow.ParticipantRepository()
	row, err := participantRepo.Get(ctx, write.participantID)
	if err != nil {
		return err
	}

	for idx := len(write.changes) - 1; idx >= 0; idx-- {
		change := write.changes[idx]
		if change.replaced {
			if err = row.UpsertItem(change.previous, true, now); err != nil {
				return err
			}
			continue
		}
		if err = row.RemoveItem(change.newItemID, now); err != nil {
			return err
		}
	}

	if write.createdRow && !row.HasActivity() {
		err = participantRepo.Delete(ctx, row.ID())
	} else {
		err = participantRepo.Update(ctx, row)
	}
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// confirmIntent is the saga's second transaction on the happy path. A
// payment landing in a collected state also gets the row's pickup code
// issued here.
func (h *PurchaseCommandHandler) confirmIntent(ctx context.Context, write purchaseWrite, intent ports.PaymentIntent) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()

	pay, err := uow.PaymentRepository().Get(ctx, write.paymentID)
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

	if pay.Status().IsCollected() {
		if err = ensurePickupCode(ctx, uow.ParticipantRepository(), write.participantID, now); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
