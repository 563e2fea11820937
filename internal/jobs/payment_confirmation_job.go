package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"groupbuy/internal/core/application/usecases/commands"
)

// PaymentConfirmationJob periodically polls the payment provider for all
// pending payments. Runs every 30 seconds; the handler bounds per-payment
// attempts, so a dead intent is eventually abandoned.
type PaymentConfirmationJob struct {
	handler commands.ConfirmPaymentsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewPaymentConfirmationJob creates the confirmation polling job.
func NewPaymentConfirmationJob(handler commands.ConfirmPaymentsCommandHandler, logger *slog.Logger) *PaymentConfirmationJob {
	return &PaymentConfirmationJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "payment_confirmation_job"),
	}
}

// Start schedules the confirmation sweep every 30 seconds.
func (j *PaymentConfirmationJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewConfirmPaymentsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			// Provider outages are expected here; the sweep retries on the
			// next tick.
			j.logger.WarnContext(ctx, "payment confirmation sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "payment confirmation job started")
	return nil
}

// Stop stops the confirmation job.
func (j *PaymentConfirmationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "payment confirmation job stopped")
}
