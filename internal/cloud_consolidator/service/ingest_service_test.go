package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/branchline-pos/internal/domain/report"
)

type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Save(ctx context.Context, r *report.SyncReport) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReportRepo) ListByBranch(ctx context.Context, branchID string, limit, offset int) ([]*report.SyncReport, error) {
	args := m.Called(ctx, branchID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*report.SyncReport), args.Error(1)
}

func (m *MockReportRepo) LatestByBranch(ctx context.Context, branchID string) (*report.SyncReport, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.SyncReport), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIngestService_IngestReport(t *testing.T) {
	dbError := errors.New("db error")

	tests := []struct {
		name          string
		report        *report.SyncReport
		setupMocks    func(mockRepo *MockReportRepo)
		expectedError error
	}{
		{
			name:   "persists valid report",
			report: report.NewSyncReport("branch-001", 5),
			setupMocks: func(mockRepo *MockReportRepo) {
				mockRepo.On("Save", mock.Anything, mock.MatchedBy(func(r *report.SyncReport) bool {
					return r.BranchID == "branch-001" && r.SyncedCount == 5
				})).Return(nil)
			},
		},
		{
			name:          "rejects report without branch id",
			report:        report.NewSyncReport("", 5),
			setupMocks:    func(mockRepo *MockReportRepo) {},
			expectedError: ErrInvalidReport,
		},
		{
			name:          "rejects negative synced count",
			report:        report.NewSyncReport("branch-001", -1),
			setupMocks:    func(mockRepo *MockReportRepo) {},
			expectedError: ErrInvalidReport,
		},
		{
			name:   "propagates persistence failures",
			report: report.NewSyncReport("branch-001", 5),
			setupMocks: func(mockRepo *MockReportRepo) {
				mockRepo.On("Save", mock.Anything, mock.Anything).Return(dbError)
			},
			expectedError: dbError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockReportRepo)
			tt.setupMocks(mockRepo)

			svc := NewIngestService(testLogger(), mockRepo)
			err := svc.IngestReport(context.Background(), tt.report)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
