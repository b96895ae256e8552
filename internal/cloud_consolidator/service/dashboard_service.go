package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/branchline-pos/internal/domain/consolidated"
	"github.com/branchline-pos/internal/domain/report"
)

// DashboardServiceImpl implements the DashboardService interface
type DashboardServiceImpl struct {
	consolidatedRepo consolidated.Repository
	reportRepo       report.Repository
	logger           *slog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(logger *slog.Logger, consolidatedRepo consolidated.Repository, reportRepo report.Repository) DashboardService {
	return &DashboardServiceImpl{
		consolidatedRepo: consolidatedRepo,
		reportRepo:       reportRepo,
		logger:           logger,
	}
}

// ListBranchTransactions retrieves a paginated list of consolidated transactions
func (s *DashboardServiceImpl) ListBranchTransactions(ctx context.Context, branchID string, page, perPage int) ([]*consolidated.Record, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	offset := (page - 1) * perPage

	records, err := s.consolidatedRepo.ListByBranch(ctx, branchID, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to list branch transactions", "branch_id", branchID, "error", err)
		return nil, 0, err
	}

	total, err := s.consolidatedRepo.CountByBranch(ctx, branchID)
	if err != nil {
		s.logger.Error("Failed to count branch transactions", "branch_id", branchID, "error", err)
		return nil, 0, err
	}

	return records, total, nil
}

// BranchRevenueSummary aggregates consolidated revenue for a branch
func (s *DashboardServiceImpl) BranchRevenueSummary(ctx context.Context, branchID string, from, to time.Time) (*consolidated.RevenueSummary, error) {
	summary, err := s.consolidatedRepo.RevenueSummary(ctx, branchID, from, to)
	if err != nil {
		s.logger.Error("Failed to aggregate branch revenue", "branch_id", branchID, "error", err)
		return nil, err
	}
	return summary, nil
}

// BranchSyncStatus returns the most recent sync report for a branch.
// Returns nil if the branch has never reported
func (s *DashboardServiceImpl) BranchSyncStatus(ctx context.Context, branchID string) (*report.SyncReport, error) {
	latest, err := s.reportRepo.LatestByBranch(ctx, branchID)
	if err != nil {
		s.logger.Error("Failed to get branch sync status", "branch_id", branchID, "error", err)
		return nil, err
	}
	return latest, nil
}
