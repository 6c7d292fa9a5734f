// Package main is the entry point for the MotorDesk background worker.
// It relays the transactional outbox and sweeps sent invoices past their
// due date into overdue.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"motordesk/internal/config"
	"motordesk/internal/domain/invoice"
	"motordesk/internal/infrastructure/notify"
	"motordesk/internal/infrastructure/storage/postgres"
	"motordesk/internal/infrastructure/storage/postgres/catalog_repo"
	"motordesk/internal/infrastructure/storage/postgres/document_repo"
	"motordesk/pkg/logger"
	"motordesk/pkg/numerator"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Info("starting motordesk worker")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.DSN()
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	// Outbox relay delivers queued notifications.
	relay := postgres.NewOutboxRelay(pool.Unwrap(), cfg.Worker.OutboxBatchSize, notify.NewDeliveryHandler())

	// Invoice service for the overdue sweep. The sweep sends notifications,
	// so it gets the same outbox-backed dispatcher the API uses.
	dispatcher := notify.NewOutboxDispatcher(postgres.NewOutboxPublisher(txManager))
	invoiceService := invoice.NewService(
		document_repo.NewInvoiceRepo(txManager),
		catalog_repo.NewRecipientRepo(txManager),
		catalog_repo.NewVehicleRepo(txManager),
		numerator.New(postgres.NewTxAwareQuerier(txManager)),
		dispatcher,
		txManager,
	)

	worker := &Worker{
		relay:    relay,
		invoices: invoiceService,
		cfg:      cfg,
		log:      log.WithComponent("worker"),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	wg.Wait()
	log.Info("worker stopped")
}

// Worker runs the periodic background jobs.
type Worker struct {
	relay    *postgres.OutboxRelay
	invoices *invoice.Service
	cfg      *config.Config
	log      *logger.Logger
}

// Run processes jobs until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	outboxTicker := time.NewTicker(w.cfg.Worker.OutboxInterval)
	defer outboxTicker.Stop()

	overdueTicker := time.NewTicker(w.cfg.Worker.OverdueInterval)
	defer overdueTicker.Stop()

	dlqTicker := time.NewTicker(time.Hour)
	defer dlqTicker.Stop()

	// Catch up on invoices that went past due while the worker was down.
	w.sweepOverdue(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-outboxTicker.C:
			w.processOutbox(ctx)
		case <-overdueTicker.C:
			w.sweepOverdue(ctx)
		case <-dlqTicker.C:
			w.moveToDLQ(ctx)
		}
	}
}

func (w *Worker) processOutbox(ctx context.Context) {
	processed, err := w.relay.ProcessBatch(ctx)
	if err != nil {
		w.log.Errorw("outbox batch failed", "error", err)
		return
	}
	if processed > 0 {
		w.log.Debugw("processed outbox batch", "count", processed)
	}
}

func (w *Worker) sweepOverdue(ctx context.Context) {
	count, err := w.invoices.MarkOverdueInvoices(ctx)
	if err != nil {
		w.log.Errorw("overdue sweep failed", "error", err)
		return
	}
	if count > 0 {
		w.log.Infow("marked invoices overdue", "count", count)
	}
}

func (w *Worker) moveToDLQ(ctx context.Context) {
	moved, err := w.relay.MoveToDLQ(ctx)
	if err != nil {
		w.log.Errorw("move to DLQ failed", "error", err)
		return
	}
	if moved > 0 {
		w.log.Warnw("moved exhausted outbox messages to DLQ", "count", moved)
	}
}
