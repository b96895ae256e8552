package service

import (
	"context"
	"time"

	"github.com/branchline-pos/internal/domain/consolidated"
	"github.com/branchline-pos/internal/domain/report"
)

// IngestService defines the interface for persisting branch sync reports.
type IngestService interface {
	IngestReport(ctx context.Context, r *report.SyncReport) error
}

// DashboardService defines the interface for consolidator read operations
type DashboardService interface {
	// ListBranchTransactions retrieves a paginated list of consolidated
	// transactions for a branch, total count included
	ListBranchTransactions(ctx context.Context, branchID string, page, perPage int) ([]*consolidated.Record, int64, error)

	// BranchRevenueSummary aggregates consolidated revenue for a branch over
	// a time window
	BranchRevenueSummary(ctx context.Context, branchID string, from, to time.Time) (*consolidated.RevenueSummary, error)

	// BranchSyncStatus returns the most recent sync report for a branch
	// Returns nil if the branch has never reported
	BranchSyncStatus(ctx context.Context, branchID string) (*report.SyncReport, error)
}
