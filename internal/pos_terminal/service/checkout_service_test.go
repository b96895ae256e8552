package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/branchline-pos/internal/domain/sale"
)

type MockSaleRepo struct {
	mock.Mock
}

func (m *MockSaleRepo) Create(ctx context.Context, tx *sale.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockSaleRepo) ListUnsynced(ctx context.Context, limit int) ([]*sale.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sale.Transaction), args.Error(1)
}

func (m *MockSaleRepo) MarkSynced(ctx context.Context, transactionUUID uuid.UUID) error {
	args := m.Called(ctx, transactionUUID)
	return args.Error(0)
}

func (m *MockSaleRepo) GetByUUID(ctx context.Context, transactionUUID uuid.UUID) (*sale.Transaction, error) {
	args := m.Called(ctx, transactionUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Transaction), args.Error(1)
}

func (m *MockSaleRepo) ListByShift(ctx context.Context, shiftID uuid.UUID, limit, offset int) ([]*sale.Transaction, error) {
	args := m.Called(ctx, shiftID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sale.Transaction), args.Error(1)
}

func (m *MockSaleRepo) CountUnsynced(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepo) WithTx(tx pgx.Tx) sale.Repository {
	args := m.Called(tx)
	return args.Get(0).(sale.Repository)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validItems() []sale.LineItem {
	return []sale.LineItem{
		{ProductID: uuid.New(), ProductName: "Americano", Quantity: 2, UnitPrice: 25000},
	}
}

func TestCheckoutService_Checkout_ValidationErrors(t *testing.T) {
	tests := []struct {
		name          string
		method        sale.PaymentMethod
		items         []sale.LineItem
		taxAmount     int64
		discount      int64
		expectedError error
	}{
		{
			name:          "rejects unknown payment method",
			method:        sale.PaymentMethod("CHEQUE"),
			items:         validItems(),
			expectedError: sale.ErrInvalidPaymentMethod,
		},
		{
			name:          "rejects empty line items",
			method:        sale.PaymentMethodCash,
			items:         []sale.LineItem{},
			expectedError: sale.ErrNoLineItems,
		},
		{
			name:          "rejects negative discount",
			method:        sale.PaymentMethodQRIS,
			items:         validItems(),
			discount:      -100,
			expectedError: sale.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockSaleRepo)
			svc := NewCheckoutService(testLogger(), nil, mockRepo, "branch-001")

			tx, err := svc.Checkout(context.Background(), uuid.New(), uuid.New(), tt.method, tt.items, tt.taxAmount, tt.discount)

			assert.Nil(t, tx)
			assert.ErrorIs(t, err, tt.expectedError)
			// Invalid sales must never reach the local store.
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCheckoutService_GetTransaction(t *testing.T) {
	txUUID := uuid.New()
	dbError := errors.New("db error")

	tests := []struct {
		name       string
		setupMocks func(mockRepo *MockSaleRepo) *sale.Transaction
		wantErr    error
		wantNil    bool
	}{
		{
			name: "returns transaction when found",
			setupMocks: func(mockRepo *MockSaleRepo) *sale.Transaction {
				tx := &sale.Transaction{TransactionUUID: txUUID, BranchID: "branch-001"}
				mockRepo.On("GetByUUID", mock.Anything, txUUID).Return(tx, nil)
				return tx
			},
		},
		{
			name: "returns nil without error when not found",
			setupMocks: func(mockRepo *MockSaleRepo) *sale.Transaction {
				mockRepo.On("GetByUUID", mock.Anything, txUUID).Return(nil, sale.ErrTransactionNotFound{TransactionUUID: txUUID})
				return nil
			},
			wantNil: true,
		},
		{
			name: "propagates store errors",
			setupMocks: func(mockRepo *MockSaleRepo) *sale.Transaction {
				mockRepo.On("GetByUUID", mock.Anything, txUUID).Return(nil, dbError)
				return nil
			},
			wantErr: dbError,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockSaleRepo)
			expected := tt.setupMocks(mockRepo)
			svc := NewCheckoutService(testLogger(), nil, mockRepo, "branch-001")

			tx, err := svc.GetTransaction(context.Background(), txUUID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, tx)
			} else {
				assert.Equal(t, expected, tx)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCheckoutService_ListShiftTransactions_NormalizesPagination(t *testing.T) {
	shiftID := uuid.New()
	mockRepo := new(MockSaleRepo)
	// page 0 and oversized perPage collapse to the defaults.
	mockRepo.On("ListByShift", mock.Anything, shiftID, 20, 0).Return([]*sale.Transaction{}, nil)

	svc := NewCheckoutService(testLogger(), nil, mockRepo, "branch-001")
	transactions, err := svc.ListShiftTransactions(context.Background(), shiftID, 0, 500)

	assert.NoError(t, err)
	assert.Empty(t, transactions)
	mockRepo.AssertExpectations(t)
}

func TestCheckoutService_PendingSyncCount(t *testing.T) {
	mockRepo := new(MockSaleRepo)
	mockRepo.On("CountUnsynced", mock.Anything).Return(int64(12), nil)

	svc := NewCheckoutService(testLogger(), nil, mockRepo, "branch-001")
	count, err := svc.PendingSyncCount(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(12), count)
	mockRepo.AssertExpectations(t)
}
