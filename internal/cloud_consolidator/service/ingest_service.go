package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/branchline-pos/internal/domain/report"
)

var ErrInvalidReport = errors.New("invalid sync report")

// IngestServiceImpl implements the IngestService interface
type IngestServiceImpl struct {
	reportRepo report.Repository
	logger     *slog.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(logger *slog.Logger, reportRepo report.Repository) IngestService {
	return &IngestServiceImpl{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// IngestReport validates and persists one branch sync report
func (s *IngestServiceImpl) IngestReport(ctx context.Context, r *report.SyncReport) error {
	if r.BranchID == "" || r.SyncedCount < 0 {
		s.logger.Error("Rejected malformed sync report",
			"report_id", r.ReportID.String(),
			"branch_id", r.BranchID,
			"synced_count", r.SyncedCount,
		)
		return ErrInvalidReport
	}

	if err := s.reportRepo.Save(ctx, r); err != nil {
		s.logger.Error("Failed to persist sync report",
			"report_id", r.ReportID.String(),
			"branch_id", r.BranchID,
			"error", err,
		)
		return fmt.Errorf("failed to persist sync report %s: %w", r.ReportID.String(), err)
	}

	s.logger.Info("Sync report ingested",
		"report_id", r.ReportID.String(),
		"branch_id", r.BranchID,
		"synced_count", r.SyncedCount,
	)
	return nil
}
