package report

import "context"

// Repository persists branch sync reports on the consolidator side
type Repository interface {
	Save(ctx context.Context, r *SyncReport) error
	ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*SyncReport, error)
	LatestByBranch(ctx context.Context, branchID string) (*SyncReport, error)
}
