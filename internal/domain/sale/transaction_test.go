package sale

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction(t *testing.T) {
	userID := uuid.New()
	shiftID := uuid.New()

	items := func() []LineItem {
		return []LineItem{
			{ProductID: uuid.New(), ProductName: "Americano", Quantity: 2, UnitPrice: 25000},
			{ProductID: uuid.New(), ProductName: "Croissant", Quantity: 1, UnitPrice: 18000},
		}
	}

	t.Run("SuccessfulCreation", func(t *testing.T) {
		beforeCreation := time.Now().UTC()
		tx, err := NewTransaction("branch-001", userID, shiftID, PaymentMethodQRIS, items(), 7480, 0)
		afterCreation := time.Now().UTC()

		require.NoError(t, err)
		require.NotNil(t, tx)

		assert.NotEqual(t, uuid.Nil, tx.TransactionUUID, "Transaction UUID should not be nil")
		assert.Equal(t, "branch-001", tx.BranchID)
		assert.Equal(t, userID, tx.UserID)
		assert.Equal(t, shiftID, tx.ShiftID)
		assert.Equal(t, PaymentMethodQRIS, tx.PaymentMethod)

		// 2*25000 + 1*18000 = 68000; grand total adds tax
		assert.Equal(t, int64(50000), tx.Items[0].Subtotal)
		assert.Equal(t, int64(18000), tx.Items[1].Subtotal)
		assert.Equal(t, int64(68000), tx.Subtotal)
		assert.Equal(t, int64(75480), tx.GrandTotal)

		assert.False(t, tx.Synced, "New transactions must start unsynced")
		assert.Nil(t, tx.SyncedAt)
		assert.WithinDuration(t, beforeCreation, tx.CreatedAt, afterCreation.Sub(beforeCreation)+time.Millisecond)
	})

	t.Run("DistinctUUIDsPerSale", func(t *testing.T) {
		tx1, err := NewTransaction("branch-001", userID, shiftID, PaymentMethodCash, items(), 0, 0)
		require.NoError(t, err)
		tx2, err := NewTransaction("branch-001", userID, shiftID, PaymentMethodCash, items(), 0, 0)
		require.NoError(t, err)

		assert.NotEqual(t, tx1.TransactionUUID, tx2.TransactionUUID)
	})

	t.Run("DiscountClampsGrandTotalAtZero", func(t *testing.T) {
		tx, err := NewTransaction("branch-001", userID, shiftID, PaymentMethodCash, items(), 0, 1000000)
		require.NoError(t, err)

		assert.Equal(t, int64(0), tx.GrandTotal)
		assert.Equal(t, int64(68000), tx.Subtotal)
	})

	t.Run("RejectsInvalidPaymentMethod", func(t *testing.T) {
		tx, err := NewTransaction("branch-001", userID, shiftID, PaymentMethod("BARTER"), items(), 0, 0)

		assert.Nil(t, tx)
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	})

	t.Run("RejectsEmptyItems", func(t *testing.T) {
		tx, err := NewTransaction("branch-001", userID, shiftID, PaymentMethodCash, nil, 0, 0)

		assert.Nil(t, tx)
		assert.ErrorIs(t, err, ErrNoLineItems)
	})

	t.Run("RejectsNonPositiveQuantity", func(t *testing.T) {
		bad := []LineItem{{ProductID: uuid.New(), ProductName: "Americano", Quantity: 0, UnitPrice: 25000}}
		tx, err := NewTransaction("branch-001", userID, shiftID, PaymentMethodCash, bad, 0, 0)

		assert.Nil(t, tx)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("RejectsNegativeTax", func(t *testing.T) {
		tx, err := NewTransaction("branch-001", userID, shiftID, PaymentMethodCash, items(), -1, 0)

		assert.Nil(t, tx)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})
}

func TestTransaction_MarkSynced(t *testing.T) {
	tx, err := NewTransaction("branch-001", uuid.New(), uuid.New(), PaymentMethodDebit,
		[]LineItem{{ProductID: uuid.New(), ProductName: "Latte", Quantity: 1, UnitPrice: 30000}}, 0, 0)
	require.NoError(t, err)
	require.False(t, tx.Synced)

	tx.MarkSynced()

	assert.True(t, tx.Synced)
	require.NotNil(t, tx.SyncedAt)
	assert.WithinDuration(t, time.Now().UTC(), *tx.SyncedAt, time.Second)
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []PaymentMethod{PaymentMethodCash, PaymentMethodQRIS, PaymentMethodDebit, PaymentMethodCredit} {
		assert.True(t, ValidPaymentMethod(m), string(m))
	}
	assert.False(t, ValidPaymentMethod(PaymentMethod("CHEQUE")))
	assert.False(t, ValidPaymentMethod(PaymentMethod("")))
}

func TestErrTransactionNotFound_Is(t *testing.T) {
	id := uuid.New()
	err := ErrTransactionNotFound{TransactionUUID: id}

	assert.ErrorIs(t, err, ErrTransactionNotFound{TransactionUUID: id})
	assert.ErrorIs(t, err, ErrTransactionNotFound{}, "nil-UUID target matches any missing transaction")
	assert.NotErrorIs(t, err, ErrTransactionNotFound{TransactionUUID: uuid.New()})
}
