package sync_engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/branchline-pos/internal/config"
	"github.com/branchline-pos/internal/domain/sale"
)

// Engine reconciles locally-recorded sales into the cloud system-of-record.
// It runs one cycle per tick: discover pending transactions, submit them
// sequentially, and acknowledge each confirmed acceptance back into the local
// store. Delivery is at-least-once; retry safety is delegated to the cloud's
// idempotent upsert on the transaction UUID, not to exactly-once delivery
// from the terminal.
type Engine struct {
	store     sale.Repository
	submitter CloudSubmitter
	gate      ConnectivityGate
	sink      NotificationSink
	logger    *slog.Logger

	pollInterval time.Duration
	batchSize    int

	// inFlight guards against overlapping cycles if a tick fires while a slow
	// submission sequence is still running.
	inFlight atomic.Bool
}

func NewEngine(
	cfg *config.SyncConfig,
	store sale.Repository,
	submitter CloudSubmitter,
	gate ConnectivityGate,
	sink NotificationSink,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		store:        store,
		submitter:    submitter,
		gate:         gate,
		sink:         sink,
		logger:       logger,
		pollInterval: cfg.PollingInterval,
		batchSize:    cfg.BatchSize,
	}
}

// Start runs reconciliation cycles until the context is canceled. No cycle
// error is ever fatal: failures are contained at the cycle boundary so the
// schedule survives for the lifetime of the process.
func (e *Engine) Start(ctx context.Context) {
	e.logger.Info("Starting sync engine",
		"poll_interval", e.pollInterval.String(),
		"batch_size", e.batchSize,
	)
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Sync engine stopping due to context cancellation.")
			return
		case <-ticker.C:
			e.logger.Debug("Sync engine tick: reconciling pending transactions")
			if err := e.runCycle(ctx); err != nil {
				e.logger.Error("Sync cycle failed", "error", err)
			}
		}
	}
}

// runCycle executes one reconciliation cycle. Within a cycle, transactions
// are submitted strictly sequentially in discovery (creation) order; a single
// submission failure skips that item only and the batch continues.
func (e *Engine) runCycle(ctx context.Context) error {
	if !e.inFlight.CompareAndSwap(false, true) {
		e.logger.Warn("Previous sync cycle still in flight, skipping tick")
		return nil
	}
	defer e.inFlight.Store(false)

	// Fast path: don't burn a cycle of doomed submission attempts while the
	// terminal is known to be offline. The gate is best-effort; a wrong
	// answer only costs per-item submission failures below.
	if !e.gate.IsOnline(ctx) {
		e.logger.Debug("Terminal offline, skipping sync cycle")
		return nil
	}

	pending, err := e.store.ListUnsynced(ctx, e.batchSize)
	if err != nil {
		return DiscoveryError{Err: err}
	}

	if len(pending) == 0 {
		e.logger.Debug("No pending transactions found.")
		return nil
	}

	e.logger.Info("Fetched pending transactions", "count", len(pending))

	synced := 0
	for _, tx := range pending {
		logger := e.logger.With("transaction_uuid", tx.TransactionUUID.String())

		if err := e.submitter.Submit(ctx, tx); err != nil {
			subErr := SubmissionError{TransactionUUID: tx.TransactionUUID, Err: err}
			logger.Error("Cloud submission failed, transaction stays pending",
				"grand_total", tx.GrandTotal, "error", subErr,
			)
			continue
		}

		if err := e.store.MarkSynced(ctx, tx.TransactionUUID); err != nil {
			ackErr := AcknowledgmentError{TransactionUUID: tx.TransactionUUID, Err: err}
			logger.Error("Failed to record sync acknowledgment, transaction will be resubmitted",
				"error", ackErr,
			)
			continue
		}

		synced++
		logger.Info("Transaction synced to consolidated store")
	}

	if synced > 0 {
		e.sink.Notify(ctx, synced)
	}

	return nil
}
