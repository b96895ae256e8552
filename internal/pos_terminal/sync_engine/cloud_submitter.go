package sync_engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/branchline-pos/internal/domain/consolidated"
	"github.com/branchline-pos/internal/domain/sale"
)

// CloudSubmitter attempts to persist one transaction into the central
// system-of-record. A nil return strictly means confirmed durable acceptance;
// any ambiguity (timeout, partial write) must surface as an error so the
// transaction is never prematurely marked synced.
type CloudSubmitter interface {
	Submit(ctx context.Context, tx *sale.Transaction) error
}

// ConsolidatedSubmitter implements CloudSubmitter against the consolidated
// store's idempotent upsert.
type ConsolidatedSubmitter struct {
	cloudRepo consolidated.Repository
	logger    *slog.Logger
}

// NewConsolidatedSubmitter creates a new submitter
func NewConsolidatedSubmitter(cloudRepo consolidated.Repository, logger *slog.Logger) CloudSubmitter {
	return &ConsolidatedSubmitter{
		cloudRepo: cloudRepo,
		logger:    logger,
	}
}

// Submit upserts the transaction into the consolidated store. Resubmission of
// an already-accepted transaction UUID is a no-op success; that property is
// what makes the engine's at-least-once retry loop safe.
func (s *ConsolidatedSubmitter) Submit(ctx context.Context, tx *sale.Transaction) error {
	record := consolidated.NewRecord(tx)

	if err := s.cloudRepo.Upsert(ctx, record); err != nil {
		s.logger.Error("Failed to upsert transaction into consolidated store",
			"transaction_uuid", tx.TransactionUUID.String(),
			"branch_id", tx.BranchID,
			"error", err,
		)
		return fmt.Errorf("consolidated upsert for %s failed: %w", tx.TransactionUUID, err)
	}

	s.logger.Debug("Transaction accepted by consolidated store",
		"transaction_uuid", tx.TransactionUUID.String(),
	)
	return nil
}
