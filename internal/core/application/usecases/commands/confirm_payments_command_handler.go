package commands

import (
	"context"
	"time"

	"groupbuy/internal/core/domain/model/payment"
	"groupbuy/internal/core/ports"
)

// maxPollAttempts bounds provider polling per payment. A payment still
// pending after this many sweeps is marked failed and kept for audit.
const maxPollAttempts = 20

// ConfirmPaymentsCommandHandler polls the payment provider for all pending
// payments and applies the confirmed status.
//
// Each payment is written in its own short transaction so one poisoned row
// cannot hold back the rest of the sweep. Provider calls never run inside a
// database transaction.
type ConfirmPaymentsCommandHandler struct {
	uowFactory UoWFactory
	provider   ports.PaymentProvider
}

// NewConfirmPaymentsCommandHandler creates a handler for payment confirmation sweeps.
func NewConfirmPaymentsCommandHandler(uowFactory UoWFactory, provider ports.PaymentProvider) ConfirmPaymentsCommandHandler {
	return ConfirmPaymentsCommandHandler{
		uowFactory: uowFactory,
		provider:   provider,
	}
}

// Handle processes one confirmation sweep. The first provider or storage
// error of the sweep is returned after all rows have been visited.
func (h *ConfirmPaymentsCommandHandler) Handle(ctx context.Context, cmd ConfirmPaymentsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	pending, err := h.loadPending(ctx)
	if err != nil {
		return err
	}

	var firstErr error
	for _, pay := range pending {
		if pollErr := h.pollOne(ctx, pay); pollErr != nil && firstErr == nil {
			firstErr = pollErr
		}
	}

	return firstErr
}

func (h *ConfirmPaymentsCommandHandler) loadPending(ctx context.Context) ([]*payment.Payment, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.PaymentRepository().GetAllPending(ctx)
}

func (h *ConfirmPaymentsCommandHandler) pollOne(ctx context.Context, pay *payment.Payment) error {
	now := time.Now().UTC()

	confirmation, err := h.provider.GetPaymentStatus(ctx, pay.ProviderRef())
	if err != nil {
		pay.RecordPollAttempt(now)
		if pay.Attempts() >= maxPollAttempts {
			if failErr := pay.MarkFailed(now); failErr != nil {
				return failErr
			}
		}
		if writeErr := h.store(ctx, pay); writeErr != nil {
			return writeErr
		}
		return err
	}

	if confirmation.Status == payment.Pending {
		pay.RecordPollAttempt(now)
		if pay.Attempts() >= maxPollAttempts {
			if failErr := pay.MarkFailed(now); failErr != nil {
				return failErr
			}
		}
		return h.store(ctx, pay)
	}

	if err = pay.ApplyProviderStatus(
		confirmation.Status, confirmation.ProcessingFee, confirmation.FeeVAT, now,
	); err != nil {
		return err
	}

	return h.store(ctx, pay)
}

// store writes the polled payment back and, when it reached a collected
// state, issues the participant's pickup code in the same transaction.
func (h *ConfirmPaymentsCommandHandler) store(ctx context.Context, pay *payment.Payment) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.PaymentRepository().Update(ctx, pay); err != nil {
		return err
	}

	if pay.Status().IsCollected() {
		if err := ensurePickupCode(ctx, uow.ParticipantRepository(), pay.ParticipantID(), time.Now().UTC()); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
