package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/branchline-pos/internal/domain/sale"
)

// CheckoutService defines the interface for terminal checkout operations
type CheckoutService interface {
	// Checkout records a completed sale in the branch-local store. The sale is
	// durable as soon as this returns; cloud synchronization happens later.
	Checkout(ctx context.Context, userID, shiftID uuid.UUID, method sale.PaymentMethod, items []sale.LineItem, taxAmount, discount int64) (*sale.Transaction, error)

	// GetTransaction retrieves a locally recorded transaction by its UUID
	// Returns nil if the transaction is not found
	GetTransaction(ctx context.Context, transactionUUID uuid.UUID) (*sale.Transaction, error)

	// ListShiftTransactions retrieves a paginated list of transactions for a shift
	ListShiftTransactions(ctx context.Context, shiftID uuid.UUID, page, perPage int) ([]*sale.Transaction, error)

	// PendingSyncCount reports how many transactions still await cloud sync
	PendingSyncCount(ctx context.Context) (int64, error)
}
