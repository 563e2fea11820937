// Package jobs provides scheduled background tasks for the group buying system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the settlement workflow.
//
// # Available Jobs
//
// 1. PaymentConfirmationJob - Runs every 30 seconds to poll the payment provider for pending payments
// 2. CommissionInvoiceJob - Runs every five minutes to re-issue commission invoices for unbilled distributed orders
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(confirmPaymentsHandler, recoverInvoicesHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Both sweeps tolerate provider outages: failures are logged and retried on the next tick
// - Per-payment poll attempts are bounded by the confirmation handler, so dead intents are abandoned
// - Invoice issuing deduplicates on the order id, so repeated sweeps never double-bill
// - Failed job starts will stop any already running jobs
package jobs
