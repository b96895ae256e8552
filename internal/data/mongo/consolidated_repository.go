package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/branchline-pos/internal/domain/consolidated"
)

const (
	// ConsolidatedCollectionName is the name of the consolidated transactions collection
	ConsolidatedCollectionName = "consolidated_transactions"
)

// ConsolidatedRepository implements the consolidated.Repository interface for
// MongoDB. A unique index on transaction_uuid makes the upsert contract a
// database guarantee rather than an assumption: a retried submission can
// never create a second financial record.
type ConsolidatedRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewConsolidatedRepository creates a new MongoDB consolidated repository
func NewConsolidatedRepository(logger *slog.Logger, db *mongo.Database) consolidated.Repository {
	return &ConsolidatedRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureConsolidatedIndexes creates the dedup index. The consolidator owns
// the schema and runs this at startup; terminals only write through it.
func EnsureConsolidatedIndexes(ctx context.Context, db *mongo.Database) error {
	collection := db.Collection(ConsolidatedCollectionName)

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "transaction_uuid", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to ensure unique index on transaction_uuid: %w", err)
	}
	return nil
}

// Upsert durably accepts a record keyed on its transaction UUID. An already
// accepted UUID is a no-op success, whether detected by the existence check
// or by the unique index under a concurrent retry.
func (r *ConsolidatedRepository) Upsert(ctx context.Context, record *consolidated.Record) error {
	collection := r.db.Collection(ConsolidatedCollectionName)

	existing, err := r.GetByTransactionUUID(ctx, record.TransactionUUID)
	if err != nil && !errors.Is(err, consolidated.ErrRecordNotFound{}) {
		r.logger.Error("Failed to check for existing consolidated record",
			"transaction_uuid", record.TransactionUUID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing consolidated record: %w", err)
	}

	if existing != nil {
		r.logger.Info("Consolidated record already accepted",
			"transaction_uuid", record.TransactionUUID.String(),
			"branch_id", record.BranchID)
		return nil
	}

	_, err = collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost a race against a concurrent retry; the record is accepted.
			return nil
		}
		r.logger.Error("Failed to insert consolidated record",
			"transaction_uuid", record.TransactionUUID.String(),
			"error", err)
		return fmt.Errorf("failed to insert consolidated record: %w", err)
	}

	return nil
}

// GetByTransactionUUID retrieves a consolidated record by its transaction UUID.
// Returns ErrRecordNotFound if no record exists.
func (r *ConsolidatedRepository) GetByTransactionUUID(ctx context.Context, transactionUUID uuid.UUID) (*consolidated.Record, error) {
	collection := r.db.Collection(ConsolidatedCollectionName)

	filter := bson.M{"transaction_uuid": transactionUUID}
	var record consolidated.Record
	err := collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, consolidated.ErrRecordNotFound{TransactionUUID: transactionUUID}
		}
		r.logger.Error("Failed to get consolidated record",
			"transaction_uuid", transactionUUID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get consolidated record: %w", err)
	}

	return &record, nil
}

// ListByBranch retrieves paginated consolidated records for a branch.
// Results are sorted by creation time in descending order (newest first).
func (r *ConsolidatedRepository) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*consolidated.Record, error) {
	collection := r.db.Collection(ConsolidatedCollectionName)

	filter := bson.M{"branch_id": branchID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to list consolidated records",
			"branch_id", branchID,
			"error", err)
		return nil, fmt.Errorf("failed to list consolidated records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*consolidated.Record
	if err := cursor.All(ctx, &records); err != nil {
		r.logger.Error("Failed to decode consolidated records",
			"branch_id", branchID,
			"error", err)
		return nil, fmt.Errorf("failed to decode consolidated records: %w", err)
	}

	return records, nil
}

// CountByBranch counts the total number of consolidated records for a branch
func (r *ConsolidatedRepository) CountByBranch(ctx context.Context, branchID string) (int64, error) {
	collection := r.db.Collection(ConsolidatedCollectionName)

	filter := bson.M{"branch_id": branchID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count consolidated records",
			"branch_id", branchID,
			"error", err)
		return 0, fmt.Errorf("failed to count consolidated records: %w", err)
	}

	return count, nil
}

// RevenueSummary aggregates revenue, tax, and discount totals for a branch
// within the given window.
func (r *ConsolidatedRepository) RevenueSummary(ctx context.Context, branchID string, from, to time.Time) (*consolidated.RevenueSummary, error) {
	collection := r.db.Collection(ConsolidatedCollectionName)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"branch_id": branchID,
			"created_at": bson.M{
				"$gte": from,
				"$lte": to,
			},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":               "$branch_id",
			"transaction_count": bson.M{"$sum": 1},
			"total_revenue":     bson.M{"$sum": "$grand_total"},
			"total_tax":         bson.M{"$sum": "$tax_amount"},
			"total_discount":    bson.M{"$sum": "$total_discount"},
		}}},
	}

	cursor, err := collection.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error("Failed to aggregate revenue summary",
			"branch_id", branchID,
			"error", err)
		return nil, fmt.Errorf("failed to aggregate revenue summary: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []*consolidated.RevenueSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		r.logger.Error("Failed to decode revenue summary",
			"branch_id", branchID,
			"error", err)
		return nil, fmt.Errorf("failed to decode revenue summary: %w", err)
	}

	if len(summaries) == 0 {
		// No sales in the window; an empty summary is not an error.
		return &consolidated.RevenueSummary{BranchID: branchID}, nil
	}

	return summaries[0], nil
}
