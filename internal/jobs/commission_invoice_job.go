package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"groupbuy/internal/core/application/usecases/commands"
)

// CommissionInvoiceJob re-issues platform commission invoices for orders
// that were distributed but never billed, typically after a crash between
// the billing call and the record write. Runs every five minutes; the
// issuer is idempotent on the order id, so overlap with a concurrent
// distribute is harmless.
type CommissionInvoiceJob struct {
	handler commands.RecoverCommissionInvoicesCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewCommissionInvoiceJob creates the invoice recovery job.
func NewCommissionInvoiceJob(handler commands.RecoverCommissionInvoicesCommandHandler, logger *slog.Logger) *CommissionInvoiceJob {
	return &CommissionInvoiceJob{
		handler: handler,
		cron:    cron.New(),
		logger:  logger.With("component", "commission_invoice_job"),
	}
}

// Start schedules the recovery sweep every five minutes.
func (j *CommissionInvoiceJob) Start() error {
	_, err := j.cron.AddFunc("*/5 * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRecoverCommissionInvoicesCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.WarnContext(ctx, "commission invoice recovery sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "commission invoice recovery job started")
	return nil
}

// Stop stops the recovery job.
func (j *CommissionInvoiceJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "commission invoice recovery job stopped")
}
