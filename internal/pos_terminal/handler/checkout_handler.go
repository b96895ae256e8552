package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/branchline-pos/internal/domain/sale"
	"github.com/branchline-pos/internal/httpapi"
	"github.com/branchline-pos/internal/pos_terminal/service"
)

// CheckoutHandler handles HTTP requests for terminal sale operations
type CheckoutHandler struct {
	checkoutService service.CheckoutService
	logger          *slog.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(logger *slog.Logger, checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		logger:          logger,
	}
}

// Checkout records a completed sale in the branch-local store
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		httpapi.RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		h.logger.Error("Invalid user ID", "user_id", req.UserID, "error", err)
		httpapi.RespondBadRequest(c, "Invalid user ID")
		return
	}

	shiftID, err := uuid.Parse(req.ShiftID)
	if err != nil {
		h.logger.Error("Invalid shift ID", "shift_id", req.ShiftID, "error", err)
		httpapi.RespondBadRequest(c, "Invalid shift ID")
		return
	}

	items := make([]sale.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			h.logger.Error("Invalid product ID", "product_id", item.ProductID, "error", err)
			httpapi.RespondBadRequest(c, "Invalid product ID")
			return
		}
		items = append(items, sale.LineItem{
			ProductID:   productID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	tx, err := h.checkoutService.Checkout(
		c.Request.Context(),
		userID,
		shiftID,
		sale.PaymentMethod(req.PaymentMethod),
		items,
		req.TaxAmount,
		req.TotalDiscount,
	)
	if err != nil {
		switch err {
		case sale.ErrInvalidPaymentMethod, sale.ErrNoLineItems, sale.ErrInvalidAmount:
			httpapi.RespondBadRequest(c, err.Error())
		default:
			h.logger.Error("Failed to record sale", "error", err)
			httpapi.RespondInternalError(c)
		}
		return
	}

	httpapi.RespondCreated(c, mapTransactionToResponse(tx))
}

// GetByUUID retrieves a locally recorded sale, returns 404 if not found
func (h *CheckoutHandler) GetByUUID(c *gin.Context) {
	idParam := c.Param("uuid")
	transactionUUID, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction UUID", "uuid", idParam, "error", err)
		httpapi.RespondBadRequest(c, "Invalid transaction UUID")
		return
	}

	tx, err := h.checkoutService.GetTransaction(c.Request.Context(), transactionUUID)
	if err != nil {
		h.logger.Error("Failed to get transaction", "uuid", idParam, "error", err)
		httpapi.RespondInternalError(c)
		return
	}

	if tx == nil {
		httpapi.RespondNotFound(c, "Transaction not found")
		return
	}

	httpapi.RespondOK(c, mapTransactionToResponse(tx))
}

// ListByShift retrieves a paginated list of sales recorded during a shift
func (h *CheckoutHandler) ListByShift(c *gin.Context) {
	shiftParam := c.Query("shift_id")
	shiftID, err := uuid.Parse(shiftParam)
	if err != nil {
		h.logger.Error("Invalid shift ID", "shift_id", shiftParam, "error", err)
		httpapi.RespondBadRequest(c, "Invalid shift ID")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		httpapi.RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	transactions, err := h.checkoutService.ListShiftTransactions(c.Request.Context(), shiftID, pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list shift transactions", "shift_id", shiftParam, "error", err)
		httpapi.RespondInternalError(c)
		return
	}

	response := TransactionListResponse{
		Transactions: make([]TransactionResponse, 0, len(transactions)),
	}
	for _, tx := range transactions {
		response.Transactions = append(response.Transactions, mapTransactionToResponse(tx))
	}

	httpapi.RespondOK(c, response)
}

// PendingSync reports how many sales still await cloud synchronization
func (h *CheckoutHandler) PendingSync(c *gin.Context) {
	count, err := h.checkoutService.PendingSyncCount(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to count pending transactions", "error", err)
		httpapi.RespondInternalError(c)
		return
	}

	httpapi.RespondOK(c, PendingSyncResponse{PendingCount: count})
}

func mapTransactionToResponse(tx *sale.Transaction) TransactionResponse {
	items := make([]LineItemResponse, 0, len(tx.Items))
	for _, item := range tx.Items {
		items = append(items, LineItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}

	resp := TransactionResponse{
		TransactionUUID: tx.TransactionUUID.String(),
		BranchID:        tx.BranchID,
		UserID:          tx.UserID.String(),
		ShiftID:         tx.ShiftID.String(),
		Subtotal:        tx.Subtotal,
		TaxAmount:       tx.TaxAmount,
		TotalDiscount:   tx.TotalDiscount,
		GrandTotal:      tx.GrandTotal,
		PaymentMethod:   string(tx.PaymentMethod),
		Items:           items,
		CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
		Synced:          tx.Synced,
	}
	if tx.SyncedAt != nil {
		resp.SyncedAt = tx.SyncedAt.Format(time.RFC3339)
	}
	return resp
}
