package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/branchline-pos/internal/domain/report"
)

const (
	// SyncReportCollectionName is the name of the branch sync reports collection
	SyncReportCollectionName = "branch_sync_reports"
)

// SyncReportRepository implements the report.Repository interface for MongoDB
type SyncReportRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewSyncReportRepository creates a new MongoDB sync report repository
func NewSyncReportRepository(logger *slog.Logger, db *mongo.Database) report.Repository {
	return &SyncReportRepository{
		db:     db,
		logger: logger,
	}
}

// Save stores a branch sync report
func (r *SyncReportRepository) Save(ctx context.Context, rep *report.SyncReport) error {
	collection := r.db.Collection(SyncReportCollectionName)

	_, err := collection.InsertOne(ctx, rep)
	if err != nil {
		r.logger.Error("Failed to save sync report",
			"report_id", rep.ReportID.String(),
			"branch_id", rep.BranchID,
			"error", err)
		return fmt.Errorf("failed to save sync report: %w", err)
	}

	return nil
}

// ListByBranch retrieves paginated sync reports for a branch, newest first
func (r *SyncReportRepository) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*report.SyncReport, error) {
	collection := r.db.Collection(SyncReportCollectionName)

	filter := bson.M{"branch_id": branchID}
	opts := options.Find().
		SetSort(bson.M{"reported_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list sync reports",
			"branch_id", branchID,
			"error", err)
		return nil, fmt.Errorf("failed to list sync reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []*report.SyncReport
	if err := cursor.All(ctx, &reports); err != nil {
		r.logger.Error("Failed to decode sync reports",
			"branch_id", branchID,
			"error", err)
		return nil, fmt.Errorf("failed to decode sync reports: %w", err)
	}

	return reports, nil
}

// LatestByBranch retrieves the most recent sync report for a branch.
// Returns nil if the branch has never reported.
func (r *SyncReportRepository) LatestByBranch(ctx context.Context, branchID string) (*report.SyncReport, error) {
	collection := r.db.Collection(SyncReportCollectionName)

	filter := bson.M{"branch_id": branchID}
	opts := options.FindOne().SetSort(bson.M{"reported_at": -1})

	var rep report.SyncReport
	err := collection.FindOne(ctx, filter, opts).Decode(&rep)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil // Branch has never reported
		}
		r.logger.Error("Failed to get latest sync report",
			"branch_id", branchID,
			"error", err)
		return nil, fmt.Errorf("failed to get latest sync report: %w", err)
	}

	return &rep, nil
}
