package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/branchline-pos/internal/config"
	"github.com/segmentio/kafka-go"
)

// SyncReportProducer publishes branch sync reports to the consolidator.
// Reports are advisory, so the writer is asynchronous: a slow broker must
// never hold up a terminal's sync cycle.
type SyncReportProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewSyncReportProducer creates a new sync report producer and ensures the topic exists
func NewSyncReportProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*SyncReportProducer, error) {
	if cfg.SyncReportTopic == "" {
		return nil, fmt.Errorf("kafka sync report topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for sync report producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.SyncReportTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure sync report topic %s exists: %w", cfg.SyncReportTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.SyncReportTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write sync report messages asynchronously", "topic", cfg.SyncReportTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote sync report messages asynchronously", "topic", cfg.SyncReportTopic, "count", len(messages))
			}
		},
	}

	return &SyncReportProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.SyncReportTopic,
	}, nil
}

func (p *SyncReportProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal sync report value: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish sync report",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish sync report to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published sync report",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *SyncReportProducer) Close() error {
	p.logger.Info("Closing sync report Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close sync report kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
