package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/branchline-pos/internal/domain/sale"
	"github.com/branchline-pos/internal/platform/persistence"
)

// CheckoutServiceImpl implements the CheckoutService interface
type CheckoutServiceImpl struct {
	db       *persistence.PostgresDB
	saleRepo sale.Repository
	branchID string
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(logger *slog.Logger, db *persistence.PostgresDB, saleRepo sale.Repository, branchID string) CheckoutService {
	return &CheckoutServiceImpl{
		db:       db,
		saleRepo: saleRepo,
		branchID: branchID,
		logger:   logger,
	}
}

// Checkout validates and records a sale inside a single local transaction so
// the header and its line items commit atomically.
func (s *CheckoutServiceImpl) Checkout(ctx context.Context, userID, shiftID uuid.UUID, method sale.PaymentMethod, items []sale.LineItem, taxAmount, discount int64) (*sale.Transaction, error) {
	tx, err := sale.NewTransaction(s.branchID, userID, shiftID, method, items, taxAmount, discount)
	if err != nil {
		return nil, err
	}

	err = s.db.ExecuteTx(ctx, func(dbTx pgx.Tx) error {
		return s.saleRepo.WithTx(dbTx).Create(ctx, tx)
	})
	if err != nil {
		s.logger.Error("Failed to record sale",
			"transaction_uuid", tx.TransactionUUID.String(),
			"shift_id", shiftID.String(),
			"grand_total", tx.GrandTotal,
			"error", err,
		)
		return nil, err
	}

	s.logger.Info("Sale recorded, pending cloud sync",
		"transaction_uuid", tx.TransactionUUID.String(),
		"shift_id", shiftID.String(),
		"payment_method", string(method),
		"grand_total", tx.GrandTotal,
	)
	return tx, nil
}

// GetTransaction retrieves a transaction by its UUID. Returns nil if not found
func (s *CheckoutServiceImpl) GetTransaction(ctx context.Context, transactionUUID uuid.UUID) (*sale.Transaction, error) {
	res, err := s.saleRepo.GetByUUID(ctx, transactionUUID)
	if err != nil {
		var errNotFound sale.ErrTransactionNotFound
		if errors.As(err, &errNotFound) {
			s.logger.Info("Transaction not found", "transaction_uuid", transactionUUID.String())
			return nil, nil
		}
		s.logger.Error("Failed to get transaction", "transaction_uuid", transactionUUID.String(), "error", err)
		return nil, err
	}
	return res, nil
}

// ListShiftTransactions retrieves a paginated list of transactions for a shift
func (s *CheckoutServiceImpl) ListShiftTransactions(ctx context.Context, shiftID uuid.UUID, page, perPage int) ([]*sale.Transaction, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	transactions, err := s.saleRepo.ListByShift(ctx, shiftID, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to list shift transactions", "shift_id", shiftID.String(), "error", err)
		return nil, err
	}
	return transactions, nil
}

// PendingSyncCount reports how many transactions still await cloud sync
func (s *CheckoutServiceImpl) PendingSyncCount(ctx context.Context) (int64, error) {
	count, err := s.saleRepo.CountUnsynced(ctx)
	if err != nil {
		s.logger.Error("Failed to count unsynced transactions", "error", err)
		return 0, err
	}
	return count, nil
}
