package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/branchline-pos/internal/domain/report"
)

type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) IngestReport(ctx context.Context, r *report.SyncReport) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func TestWorkerPoolIngestService_IngestReport(t *testing.T) {
	t.Run("delegates to base service and returns its result", func(t *testing.T) {
		base := new(MockIngestService)
		base.On("IngestReport", mock.Anything, mock.MatchedBy(func(r *report.SyncReport) bool {
			return r.BranchID == "branch-001"
		})).Return(nil)

		svc, err := NewWorkerPoolIngestService(base, WorkerPoolConfig{Size: 2}, testLogger())
		require.NoError(t, err)
		defer svc.Shutdown()

		err = svc.IngestReport(context.Background(), report.NewSyncReport("branch-001", 3))
		assert.NoError(t, err)
		base.AssertExpectations(t)
	})

	t.Run("propagates base service errors", func(t *testing.T) {
		ingestError := errors.New("db unavailable")
		base := new(MockIngestService)
		base.On("IngestReport", mock.Anything, mock.Anything).Return(ingestError)

		svc, err := NewWorkerPoolIngestService(base, WorkerPoolConfig{Size: 2}, testLogger())
		require.NoError(t, err)
		defer svc.Shutdown()

		err = svc.IngestReport(context.Background(), report.NewSyncReport("branch-001", 3))
		assert.ErrorIs(t, err, ingestError)
	})

	t.Run("handles concurrent submissions", func(t *testing.T) {
		base := new(MockIngestService)
		base.On("IngestReport", mock.Anything, mock.Anything).Return(nil)

		svc, err := NewWorkerPoolIngestService(base, WorkerPoolConfig{Size: 4}, testLogger())
		require.NoError(t, err)
		defer svc.Shutdown()

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, svc.IngestReport(context.Background(), report.NewSyncReport("branch-001", 1)))
			}()
		}
		wg.Wait()

		base.AssertNumberOfCalls(t, "IngestReport", 20)
	})
}
