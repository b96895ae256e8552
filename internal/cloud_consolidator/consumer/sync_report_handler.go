package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/branchline-pos/internal/cloud_consolidator/service"
	"github.com/branchline-pos/internal/domain/report"
	"github.com/branchline-pos/internal/platform/messaging/producers"
)

// SyncReportHandler handles incoming branch sync report messages from Kafka
type SyncReportHandler struct {
	ingestService service.IngestService
	producer      producers.DeadLetterPublisher
	logger        *slog.Logger
}

// NewSyncReportHandler creates a new handler
func NewSyncReportHandler(
	logger *slog.Logger,
	ingestService service.IngestService,
	producer producers.DeadLetterPublisher,
) *SyncReportHandler {
	return &SyncReportHandler{
		ingestService: ingestService,
		producer:      producer,
		logger:        logger,
	}
}

// HandleMessage processes Kafka messages
func (h *SyncReportHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var syncReport report.SyncReport
	if err := json.Unmarshal(value, &syncReport); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal sync report from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	h.logger.Info("Received sync report",
		"report_id", syncReport.ReportID.String(),
		"branch_id", syncReport.BranchID,
		"synced_count", syncReport.SyncedCount,
	)

	if err := h.ingestService.IngestReport(ctx, &syncReport); err != nil {
		// Structurally invalid reports never become valid; dead-letter them
		// instead of blocking the partition with retries.
		if errors.Is(err, service.ErrInvalidReport) && h.producer != nil {
			dlqReason := "Sync report failed validation: " + err.Error()
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr == nil {
				h.logger.Info("Published invalid sync report to DLQ", "message_key", string(key), "reason", dlqReason)
				return nil
			}
		}
		h.logger.Error("Failed to ingest sync report",
			"report_id", syncReport.ReportID.String(),
			"branch_id", syncReport.BranchID,
			"error", err,
		)
		return fmt.Errorf("ingesting sync report %s failed: %w", syncReport.ReportID.String(), err)
	}

	h.logger.Info("Successfully ingested sync report", "report_id", syncReport.ReportID.String())
	return nil // Success, commit offset
}
