package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/branchline-pos/internal/domain/sale"
	"github.com/branchline-pos/internal/platform/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TransactionRepository implements the sale.Repository interface for the
// branch-local PostgreSQL store
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) sale.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so the sale header and its
// line items are written atomically.
func (r *TransactionRepository) WithTx(tx pgx.Tx) sale.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new transaction with synced = false. Line items are written
// alongside the header; call through WithTx for atomicity.
func (r *TransactionRepository) Create(ctx context.Context, t *sale.Transaction) error {
	query := `
		INSERT INTO transactions (transaction_uuid, branch_id, user_id, shift_id, subtotal, tax_amount, total_discount, grand_total, payment_method, created_at, synced)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		t.TransactionUUID,
		t.BranchID,
		t.UserID,
		t.ShiftID,
		t.Subtotal,
		t.TaxAmount,
		t.TotalDiscount,
		t.GrandTotal,
		t.PaymentMethod,
		t.CreatedAt,
		t.Synced,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sale.ErrDuplicateTransaction{TransactionUUID: t.TransactionUUID}
		}
		r.logger.Error("Failed to create transaction",
			"transaction_uuid", t.TransactionUUID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	itemQuery := `
		INSERT INTO transaction_items (transaction_uuid, product_id, product_name, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, item := range t.Items {
		_, err := r.querier.Exec(ctx, itemQuery,
			t.TransactionUUID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
		)
		if err != nil {
			r.logger.Error("Failed to create transaction line item",
				"transaction_uuid", t.TransactionUUID.String(),
				"product_id", item.ProductID.String(),
				"error", err,
			)
			return fmt.Errorf("failed to create transaction line item: %w", err)
		}
	}

	return nil
}

// ListUnsynced retrieves a batch of pending transactions ordered by creation
// time. This is what the sync engine drains in FIFO order; the limit bounds
// worst-case cycle duration.
func (r *TransactionRepository) ListUnsynced(ctx context.Context, limit int) ([]*sale.Transaction, error) {
	query := `
		SELECT transaction_uuid, branch_id, user_id, shift_id, subtotal, tax_amount, total_discount, grand_total, payment_method, created_at, synced, synced_at
		FROM transactions
		WHERE synced = FALSE
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.querier.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list unsynced transactions", "error", err)
		return nil, fmt.Errorf("failed to list unsynced transactions: %w", err)
	}

	transactions, err := r.scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	for _, t := range transactions {
		if err := r.loadItems(ctx, t); err != nil {
			return nil, err
		}
	}

	return transactions, nil
}

// MarkSynced idempotently records a confirmed cloud acknowledgment. A second
// call for an already-synced transaction affects the same row and keeps its
// original synced_at, so it is a no-op success. A missing row is
// ErrTransactionNotFound, distinct from storage unavailability.
func (r *TransactionRepository) MarkSynced(ctx context.Context, transactionUUID uuid.UUID) error {
	query := `
		UPDATE transactions
		SET synced = TRUE, synced_at = COALESCE(synced_at, $1)
		WHERE transaction_uuid = $2
	`

	result, err := r.querier.Exec(ctx, query, time.Now().UTC(), transactionUUID)
	if err != nil {
		r.logger.Error("Failed to mark transaction synced",
			"transaction_uuid", transactionUUID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to mark transaction synced: %w", err)
	}

	if result.RowsAffected() == 0 {
		return sale.ErrTransactionNotFound{TransactionUUID: transactionUUID}
	}

	return nil
}

// GetByUUID retrieves a transaction with its line items.
// Returns ErrTransactionNotFound if no record exists.
func (r *TransactionRepository) GetByUUID(ctx context.Context, transactionUUID uuid.UUID) (*sale.Transaction, error) {
	query := `
		SELECT transaction_uuid, branch_id, user_id, shift_id, subtotal, tax_amount, total_discount, grand_total, payment_method, created_at, synced, synced_at
		FROM transactions
		WHERE transaction_uuid = $1
	`

	var t sale.Transaction
	err := r.querier.QueryRow(ctx, query, transactionUUID).Scan(
		&t.TransactionUUID,
		&t.BranchID,
		&t.UserID,
		&t.ShiftID,
		&t.Subtotal,
		&t.TaxAmount,
		&t.TotalDiscount,
		&t.GrandTotal,
		&t.PaymentMethod,
		&t.CreatedAt,
		&t.Synced,
		&t.SyncedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sale.ErrTransactionNotFound{TransactionUUID: transactionUUID}
		}
		r.logger.Error("Failed to get transaction",
			"transaction_uuid", transactionUUID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if err := r.loadItems(ctx, &t); err != nil {
		return nil, err
	}

	return &t, nil
}

// ListByShift retrieves paginated transactions for a cashier shift in
// creation order.
func (r *TransactionRepository) ListByShift(ctx context.Context, shiftID uuid.UUID, limit, offset int) ([]*sale.Transaction, error) {
	query := `
		SELECT transaction_uuid, branch_id, user_id, shift_id, subtotal, tax_amount, total_discount, grand_total, payment_method, created_at, synced, synced_at
		FROM transactions
		WHERE shift_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, shiftID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions by shift", "shift_id", shiftID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transactions by shift: %w", err)
	}

	transactions, err := r.scanTransactions(rows)
	if err != nil {
		return nil, err
	}

	for _, t := range transactions {
		if err := r.loadItems(ctx, t); err != nil {
			return nil, err
		}
	}

	return transactions, nil
}

// CountUnsynced counts transactions still awaiting cloud acknowledgment
func (r *TransactionRepository) CountUnsynced(ctx context.Context) (int64, error) {
	query := `
		SELECT COUNT(*) FROM transactions WHERE synced = FALSE
	`

	var count int64
	if err := r.querier.QueryRow(ctx, query).Scan(&count); err != nil {
		r.logger.Error("Failed to count unsynced transactions", "error", err)
		return 0, fmt.Errorf("failed to count unsynced transactions: %w", err)
	}

	return count, nil
}

func (r *TransactionRepository) scanTransactions(rows pgx.Rows) ([]*sale.Transaction, error) {
	defer rows.Close()

	var transactions []*sale.Transaction
	for rows.Next() {
		var t sale.Transaction
		err := rows.Scan(
			&t.TransactionUUID,
			&t.BranchID,
			&t.UserID,
			&t.ShiftID,
			&t.Subtotal,
			&t.TaxAmount,
			&t.TotalDiscount,
			&t.GrandTotal,
			&t.PaymentMethod,
			&t.CreatedAt,
			&t.Synced,
			&t.SyncedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transactions", "error", err)
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) loadItems(ctx context.Context, t *sale.Transaction) error {
	query := `
		SELECT product_id, product_name, quantity, unit_price, subtotal
		FROM transaction_items
		WHERE transaction_uuid = $1
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, query, t.TransactionUUID)
	if err != nil {
		r.logger.Error("Failed to load transaction line items",
			"transaction_uuid", t.TransactionUUID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to load transaction line items: %w", err)
	}
	defer rows.Close()

	var items []sale.LineItem
	for rows.Next() {
		var item sale.LineItem
		err := rows.Scan(
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
		)
		if err != nil {
			r.logger.Error("Failed to scan line item", "error", err)
			return fmt.Errorf("failed to scan line item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating over line items: %w", err)
	}

	t.Items = items
	return nil
}
