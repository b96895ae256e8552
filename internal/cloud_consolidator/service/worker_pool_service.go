package service

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/branchline-pos/internal/domain/report"
)

// WorkerPoolIngestService wraps an IngestService with a bounded worker pool so
// a burst of reports from many branches cannot exhaust consolidator resources.
type WorkerPoolIngestService struct {
	baseService IngestService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolIngestService(
	baseService IngestService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolIngestService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolIngestService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// IngestReport submits a report to the worker pool and waits for the result,
// so the caller's offset-commit decision still reflects the real outcome.
func (s *WorkerPoolIngestService) IngestReport(ctx context.Context, r *report.SyncReport) error {
	resultChan := make(chan error, 1)

	// Copy the report to avoid data races with the caller
	reportCopy := *r

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.IngestReport(ctx, &reportCopy)
		close(resultChan)
	})
	if err != nil {
		s.logger.Error("Failed to submit report to worker pool",
			"report_id", r.ReportID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolIngestService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolIngestService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolIngestService) Capacity() int {
	return s.pool.Cap()
}
