package sync_engine

import (
	"context"
	"log/slog"

	"github.com/branchline-pos/internal/domain/report"
	"github.com/branchline-pos/internal/platform/messaging/producers"
)

// NotificationSink receives a single aggregate notification per cycle in
// which at least one transaction reached the synced state. Implementations
// must not fail the cycle; delivery is best effort.
type NotificationSink interface {
	Notify(ctx context.Context, syncedCount int)
}

// LogSink reports sync outcomes through the application logger.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, syncedCount int) {
	s.logger.Info("Sync cycle completed", "synced_count", syncedCount)
}

// KafkaReportSink publishes a sync report for downstream consolidation.
// Publish failures are logged and swallowed; the synced transactions are
// already acknowledged locally and must not be re-reported as pending.
type KafkaReportSink struct {
	publisher producers.MessagePublisher
	branchID  string
	logger    *slog.Logger
}

func NewKafkaReportSink(publisher producers.MessagePublisher, branchID string, logger *slog.Logger) *KafkaReportSink {
	return &KafkaReportSink{
		publisher: publisher,
		branchID:  branchID,
		logger:    logger,
	}
}

func (s *KafkaReportSink) Notify(ctx context.Context, syncedCount int) {
	rep := report.NewSyncReport(s.branchID, syncedCount)
	if err := s.publisher.Publish(ctx, s.branchID, rep); err != nil {
		s.logger.Error("Failed to publish sync report",
			"report_id", rep.ReportID,
			"synced_count", syncedCount,
			"error", err)
		return
	}
	s.logger.Info("Published sync report", "report_id", rep.ReportID, "synced_count", syncedCount)
}

// FanoutSink forwards each notification to every configured sink.
type FanoutSink struct {
	sinks []NotificationSink
}

func NewFanoutSink(sinks ...NotificationSink) *FanoutSink {
	return &FanoutSink{sinks: sinks}
}

func (s *FanoutSink) Notify(ctx context.Context, syncedCount int) {
	for _, sink := range s.sinks {
		sink.Notify(ctx, syncedCount)
	}
}
