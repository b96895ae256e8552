package handler

// ConsolidatedTransactionResponse represents a consolidated sale in API responses
type ConsolidatedTransactionResponse struct {
	TransactionUUID string `json:"transaction_uuid"`
	BranchID        string `json:"branch_id"`
	UserID          string `json:"user_id"`
	ShiftID         string `json:"shift_id"`
	Subtotal        int64  `json:"subtotal"`
	TaxAmount       int64  `json:"tax_amount"`
	TotalDiscount   int64  `json:"total_discount"`
	GrandTotal      int64  `json:"grand_total"`
	PaymentMethod   string `json:"payment_method"`
	CreatedAt       string `json:"created_at"`
	ReceivedAt      string `json:"received_at"`
}

// RevenueSummaryResponse represents aggregated branch revenue in API responses
type RevenueSummaryResponse struct {
	BranchID         string `json:"branch_id"`
	From             string `json:"from"`
	To               string `json:"to"`
	TransactionCount int64  `json:"transaction_count"`
	TotalRevenue     int64  `json:"total_revenue"`
	TotalTax         int64  `json:"total_tax"`
	TotalDiscount    int64  `json:"total_discount"`
}

// SyncStatusResponse represents a branch's most recent sync report
type SyncStatusResponse struct {
	BranchID    string `json:"branch_id"`
	ReportID    string `json:"report_id,omitempty"`
	SyncedCount int    `json:"synced_count"`
	ReportedAt  string `json:"reported_at,omitempty"`
	HasReported bool   `json:"has_reported"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}

// RevenueWindowParams represents the time window for revenue aggregation
type RevenueWindowParams struct {
	From string `form:"from"`
	To   string `form:"to"`
}
