package jobs

import (
	"fmt"
	"log/slog"

	"groupbuy/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	paymentConfirmationJob *PaymentConfirmationJob
	commissionInvoiceJob   *CommissionInvoiceJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	confirmPaymentsHandler commands.ConfirmPaymentsCommandHandler,
	recoverInvoicesHandler commands.RecoverCommissionInvoicesCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		paymentConfirmationJob: NewPaymentConfirmationJob(confirmPaymentsHandler, logger),
		commissionInvoiceJob:   NewCommissionInvoiceJob(recoverInvoicesHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.paymentConfirmationJob.Start(); err != nil {
		return fmt.Errorf("failed to start payment confirmation job: %w", err)
	}

	if err := jm.commissionInvoiceJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.paymentConfirmationJob.Stop()
		return fmt.Errorf("failed to start commission invoice job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.paymentConfirmationJob.Stop()
	jm.commissionInvoiceJob.Stop()
}
