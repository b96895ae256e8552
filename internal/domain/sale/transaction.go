package sale

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrNoLineItems          = errors.New("transaction has no line items")
	ErrInvalidAmount        = errors.New("invalid monetary amount")
)

// PaymentMethod defines how a sale was paid at the terminal
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodQRIS   PaymentMethod = "QRIS"
	PaymentMethodDebit  PaymentMethod = "DEBIT"
	PaymentMethodCredit PaymentMethod = "CREDIT"
)

// ValidPaymentMethod reports whether m is one of the closed payment method set
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodQRIS, PaymentMethodDebit, PaymentMethodCredit:
		return true
	}
	return false
}

// LineItem is one sold product line within a transaction.
// UnitPrice and Subtotal are stored in minor currency units.
type LineItem struct {
	ProductID   uuid.UUID `json:"product_id" bson:"product_id"`
	ProductName string    `json:"product_name" bson:"product_name"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	UnitPrice   int64     `json:"unit_price" bson:"unit_price"`
	Subtotal    int64     `json:"subtotal" bson:"subtotal"`
}

// Transaction is the unit of synchronization: a sale recorded at a branch
// terminal. Every field except Synced/SyncedAt is immutable after creation.
// TransactionUUID is generated client-side at checkout time and is the
// idempotency key for cloud submission.
type Transaction struct {
	TransactionUUID uuid.UUID     `json:"transaction_uuid" bson:"transaction_uuid"`
	BranchID        string        `json:"branch_id" bson:"branch_id"`
	UserID          uuid.UUID     `json:"user_id" bson:"user_id"`
	ShiftID         uuid.UUID     `json:"shift_id" bson:"shift_id"`
	Subtotal        int64         `json:"subtotal" bson:"subtotal"` // Minor currency units
	TaxAmount       int64         `json:"tax_amount" bson:"tax_amount"`
	TotalDiscount   int64         `json:"total_discount" bson:"total_discount"`
	GrandTotal      int64         `json:"grand_total" bson:"grand_total"`
	PaymentMethod   PaymentMethod `json:"payment_method" bson:"payment_method"`
	Items           []LineItem    `json:"items" bson:"items"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	Synced          bool          `json:"synced" bson:"synced"`
	SyncedAt        *time.Time    `json:"synced_at,omitempty" bson:"synced_at,omitempty"`
}

// NewTransaction builds a transaction pending synchronization. Monetary totals
// are derived from the line items; the discount is clamped so the grand total
// never goes negative.
func NewTransaction(branchID string, userID, shiftID uuid.UUID, method PaymentMethod, items []LineItem, taxAmount, discount int64) (*Transaction, error) {
	if !ValidPaymentMethod(method) {
		return nil, ErrInvalidPaymentMethod
	}
	if len(items) == 0 {
		return nil, ErrNoLineItems
	}
	if taxAmount < 0 || discount < 0 {
		return nil, ErrInvalidAmount
	}

	var subtotal int64
	for i := range items {
		if items[i].Quantity <= 0 || items[i].UnitPrice < 0 {
			return nil, ErrInvalidAmount
		}
		items[i].Subtotal = int64(items[i].Quantity) * items[i].UnitPrice
		subtotal += items[i].Subtotal
	}

	grandTotal := subtotal + taxAmount - discount
	if grandTotal < 0 {
		grandTotal = 0
	}

	return &Transaction{
		TransactionUUID: uuid.New(),
		BranchID:        branchID,
		UserID:          userID,
		ShiftID:         shiftID,
		Subtotal:        subtotal,
		TaxAmount:       taxAmount,
		TotalDiscount:   discount,
		GrandTotal:      grandTotal,
		PaymentMethod:   method,
		Items:           items,
		CreatedAt:       time.Now().UTC(),
		Synced:          false,
	}, nil
}

// MarkSynced records a confirmed cloud acknowledgment. The synced flag is the
// only mutable field on a transaction and never transitions back to false.
func (t *Transaction) MarkSynced() {
	t.Synced = true
	now := time.Now().UTC()
	t.SyncedAt = &now
}
