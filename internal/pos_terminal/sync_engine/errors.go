package sync_engine

import (
	"fmt"

	"github.com/google/uuid"
)

// DiscoveryError indicates the local transaction store was unreachable while
// listing pending transactions. The cycle aborts without processing any items
// and retries on the next tick.
type DiscoveryError struct {
	Err error
}

func (e DiscoveryError) Error() string {
	return fmt.Sprintf("failed to discover unsynced transactions: %v", e.Err)
}

func (e DiscoveryError) Unwrap() error {
	return e.Err
}

// SubmissionError indicates cloud submission failed for a single transaction.
// That item is skipped for the rest of the cycle and retried on a later one.
type SubmissionError struct {
	TransactionUUID uuid.UUID
	Err             error
}

func (e SubmissionError) Error() string {
	return fmt.Sprintf("failed to submit transaction %s: %v", e.TransactionUUID, e.Err)
}

func (e SubmissionError) Unwrap() error {
	return e.Err
}

// AcknowledgmentError indicates the cloud accepted a transaction but the local
// store could not record the acknowledgment. The transaction stays pending and
// will be resubmitted; the cloud-side dedup on transaction UUID absorbs the
// duplicate.
type AcknowledgmentError struct {
	TransactionUUID uuid.UUID
	Err             error
}

func (e AcknowledgmentError) Error() string {
	return fmt.Sprintf("failed to acknowledge synced transaction %s: %v", e.TransactionUUID, e.Err)
}

func (e AcknowledgmentError) Unwrap() error {
	return e.Err
}
