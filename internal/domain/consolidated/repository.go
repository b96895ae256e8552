package consolidated

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository manages the central system-of-record for branch sales. Upsert is
// the cloud half of the sync contract: it must deduplicate on the
// transaction UUID so client retries never create duplicate financial records.
type Repository interface {
	// Upsert durably accepts a record keyed on its transaction UUID. Accepting
	// the same UUID twice has no additional effect and is not an error.
	Upsert(ctx context.Context, record *Record) error
	GetByTransactionUUID(ctx context.Context, transactionUUID uuid.UUID) (*Record, error)
	ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*Record, error)
	CountByBranch(ctx context.Context, branchID string) (int64, error)
	RevenueSummary(ctx context.Context, branchID string, from, to time.Time) (*RevenueSummary, error)
}

// ErrRecordNotFound indicates a missing consolidated record
type ErrRecordNotFound struct {
	TransactionUUID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "consolidated record not found: " + e.TransactionUUID.String()
}

// Is matches any ErrRecordNotFound when the target carries a nil UUID
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.TransactionUUID == uuid.Nil {
		return true
	}
	return e.TransactionUUID == t.TransactionUUID
}
