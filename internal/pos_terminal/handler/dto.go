package handler

// CheckoutItemRequest represents one sold product line in a checkout request
type CheckoutItemRequest struct {
	ProductID   string `json:"product_id" binding:"required,uuid"`
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	UnitPrice   int64  `json:"unit_price" binding:"min=0"`
}

// CheckoutRequest represents a request to record a completed sale
type CheckoutRequest struct {
	UserID        string                `json:"user_id" binding:"required,uuid"`
	ShiftID       string                `json:"shift_id" binding:"required,uuid"`
	PaymentMethod string                `json:"payment_method" binding:"required,oneof=CASH QRIS DEBIT CREDIT"`
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	TaxAmount     int64                 `json:"tax_amount" binding:"min=0"`
	TotalDiscount int64                 `json:"total_discount" binding:"min=0"`
}

// LineItemResponse represents a sold product line in API responses
type LineItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

// TransactionResponse represents a recorded sale in API responses
type TransactionResponse struct {
	TransactionUUID string             `json:"transaction_uuid"`
	BranchID        string             `json:"branch_id"`
	UserID          string             `json:"user_id"`
	ShiftID         string             `json:"shift_id"`
	Subtotal        int64              `json:"subtotal"`
	TaxAmount       int64              `json:"tax_amount"`
	TotalDiscount   int64              `json:"total_discount"`
	GrandTotal      int64              `json:"grand_total"`
	PaymentMethod   string             `json:"payment_method"`
	Items           []LineItemResponse `json:"items"`
	CreatedAt       string             `json:"created_at"`
	Synced          bool               `json:"synced"`
	SyncedAt        string             `json:"synced_at,omitempty"`
}

// TransactionListResponse represents a list of transactions in API responses
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

// PendingSyncResponse reports how many sales still await cloud synchronization
type PendingSyncResponse struct {
	PendingCount int64 `json:"pending_count"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}
