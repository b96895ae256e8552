package sale

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository manages the branch-local durable record of sales. It owns the
// synced flag; all mutation of that flag flows through MarkSynced.
type Repository interface {
	Create(ctx context.Context, tx *Transaction) error
	// ListUnsynced returns transactions with synced = false in creation order,
	// capped at limit to bound worst-case sync cycle duration.
	ListUnsynced(ctx context.Context, limit int) ([]*Transaction, error)
	// MarkSynced idempotently sets synced = true. A second call for the same
	// identifier is a no-op success; a missing row is ErrTransactionNotFound.
	MarkSynced(ctx context.Context, transactionUUID uuid.UUID) error
	GetByUUID(ctx context.Context, transactionUUID uuid.UUID) (*Transaction, error)
	ListByShift(ctx context.Context, shiftID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountUnsynced(ctx context.Context) (int64, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates a missing local transaction record
type ErrTransactionNotFound struct {
	TransactionUUID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionUUID.String()
}

// Is matches any ErrTransactionNotFound when the target carries a nil UUID
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.TransactionUUID == uuid.Nil {
		return true
	}
	return e.TransactionUUID == t.TransactionUUID
}

// ErrDuplicateTransaction indicates a uniqueness violation on the client-side
// generated transaction UUID
type ErrDuplicateTransaction struct {
	TransactionUUID uuid.UUID
}

func (e ErrDuplicateTransaction) Error() string {
	return "duplicate transaction: " + e.TransactionUUID.String()
}
