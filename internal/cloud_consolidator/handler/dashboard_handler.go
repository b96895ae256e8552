package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/branchline-pos/internal/cloud_consolidator/service"
	"github.com/branchline-pos/internal/domain/consolidated"
	"github.com/branchline-pos/internal/httpapi"
)

// DashboardHandler handles HTTP requests for consolidator read operations
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(logger *slog.Logger, dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// ListTransactions retrieves a paginated list of a branch's consolidated sales
func (h *DashboardHandler) ListTransactions(c *gin.Context) {
	branchID := c.Param("branch_id")

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		httpapi.RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	records, total, err := h.dashboardService.ListBranchTransactions(c.Request.Context(), branchID, pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list branch transactions", "branch_id", branchID, "error", err)
		httpapi.RespondInternalError(c)
		return
	}

	responses := make([]ConsolidatedTransactionResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, mapRecordToResponse(record))
	}

	httpapi.RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

// RevenueSummary aggregates a branch's consolidated revenue over a time window.
// The window defaults to the last 24 hours when not provided
func (h *DashboardHandler) RevenueSummary(c *gin.Context) {
	branchID := c.Param("branch_id")

	var window RevenueWindowParams
	if err := c.ShouldBindQuery(&window); err != nil {
		h.logger.Error("Invalid window parameters", "error", err)
		httpapi.RespondBadRequest(c, "Invalid window parameters")
		return
	}

	to := time.Now().UTC()
	from := to.Add(-24 * time.Hour)

	if window.From != "" {
		parsed, err := time.Parse(time.RFC3339, window.From)
		if err != nil {
			httpapi.RespondBadRequest(c, "Invalid 'from' timestamp, expected RFC3339")
			return
		}
		from = parsed
	}
	if window.To != "" {
		parsed, err := time.Parse(time.RFC3339, window.To)
		if err != nil {
			httpapi.RespondBadRequest(c, "Invalid 'to' timestamp, expected RFC3339")
			return
		}
		to = parsed
	}
	if !from.Before(to) {
		httpapi.RespondBadRequest(c, "'from' must be before 'to'")
		return
	}

	summary, err := h.dashboardService.BranchRevenueSummary(c.Request.Context(), branchID, from, to)
	if err != nil {
		h.logger.Error("Failed to aggregate branch revenue", "branch_id", branchID, "error", err)
		httpapi.RespondInternalError(c)
		return
	}

	httpapi.RespondOK(c, RevenueSummaryResponse{
		BranchID:         branchID,
		From:             from.Format(time.RFC3339),
		To:               to.Format(time.RFC3339),
		TransactionCount: summary.TransactionCount,
		TotalRevenue:     summary.TotalRevenue,
		TotalTax:         summary.TotalTax,
		TotalDiscount:    summary.TotalDiscount,
	})
}

// SyncStatus returns a branch's most recent sync report
func (h *DashboardHandler) SyncStatus(c *gin.Context) {
	branchID := c.Param("branch_id")

	latest, err := h.dashboardService.BranchSyncStatus(c.Request.Context(), branchID)
	if err != nil {
		h.logger.Error("Failed to get branch sync status", "branch_id", branchID, "error", err)
		httpapi.RespondInternalError(c)
		return
	}

	if latest == nil {
		httpapi.RespondOK(c, SyncStatusResponse{
			BranchID:    branchID,
			HasReported: false,
		})
		return
	}

	httpapi.RespondOK(c, SyncStatusResponse{
		BranchID:    latest.BranchID,
		ReportID:    latest.ReportID.String(),
		SyncedCount: latest.SyncedCount,
		ReportedAt:  latest.ReportedAt.Format(time.RFC3339),
		HasReported: true,
	})
}

func mapRecordToResponse(record *consolidated.Record) ConsolidatedTransactionResponse {
	return ConsolidatedTransactionResponse{
		TransactionUUID: record.TransactionUUID.String(),
		BranchID:        record.BranchID,
		UserID:          record.UserID.String(),
		ShiftID:         record.ShiftID.String(),
		Subtotal:        record.Subtotal,
		TaxAmount:       record.TaxAmount,
		TotalDiscount:   record.TotalDiscount,
		GrandTotal:      record.GrandTotal,
		PaymentMethod:   string(record.PaymentMethod),
		CreatedAt:       record.CreatedAt.Format(time.RFC3339),
		ReceivedAt:      record.ReceivedAt.Format(time.RFC3339),
	}
}
