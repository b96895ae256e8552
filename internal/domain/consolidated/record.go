package consolidated

import (
	"time"

	"github.com/branchline-pos/internal/domain/sale"
	"github.com/google/uuid"
)

// Record is a branch transaction as stored in the central system-of-record.
// It carries the full immutable sale payload plus the time the cloud store
// accepted it.
type Record struct {
	TransactionUUID uuid.UUID          `json:"transaction_uuid" bson:"transaction_uuid"`
	BranchID        string             `json:"branch_id" bson:"branch_id"`
	UserID          uuid.UUID          `json:"user_id" bson:"user_id"`
	ShiftID         uuid.UUID          `json:"shift_id" bson:"shift_id"`
	Subtotal        int64              `json:"subtotal" bson:"subtotal"` // Minor currency units
	TaxAmount       int64              `json:"tax_amount" bson:"tax_amount"`
	TotalDiscount   int64              `json:"total_discount" bson:"total_discount"`
	GrandTotal      int64              `json:"grand_total" bson:"grand_total"`
	PaymentMethod   sale.PaymentMethod `json:"payment_method" bson:"payment_method"`
	Items           []sale.LineItem    `json:"items" bson:"items"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	ReceivedAt      time.Time          `json:"received_at" bson:"received_at"`
}

// NewRecord maps a branch transaction into its consolidated form
func NewRecord(tx *sale.Transaction) *Record {
	return &Record{
		TransactionUUID: tx.TransactionUUID,
		BranchID:        tx.BranchID,
		UserID:          tx.UserID,
		ShiftID:         tx.ShiftID,
		Subtotal:        tx.Subtotal,
		TaxAmount:       tx.TaxAmount,
		TotalDiscount:   tx.TotalDiscount,
		GrandTotal:      tx.GrandTotal,
		PaymentMethod:   tx.PaymentMethod,
		Items:           tx.Items,
		CreatedAt:       tx.CreatedAt,
		ReceivedAt:      time.Now().UTC(),
	}
}

// RevenueSummary aggregates consolidated sales for a branch over a window
type RevenueSummary struct {
	BranchID         string `json:"branch_id" bson:"_id"`
	TransactionCount int64  `json:"transaction_count" bson:"transaction_count"`
	TotalRevenue     int64  `json:"total_revenue" bson:"total_revenue"` // Minor currency units
	TotalTax         int64  `json:"total_tax" bson:"total_tax"`
	TotalDiscount    int64  `json:"total_discount" bson:"total_discount"`
}
