package cloud_consolidator

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/branchline-pos/internal/cloud_consolidator/handler"
	"github.com/branchline-pos/internal/httpapi/middleware"
)

// setupRouter configures API routes and middleware for the consolidator
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	dashboardHandler *handler.DashboardHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		branches := v1.Group("/branches/:branch_id")
		{
			branches.GET("/transactions", dashboardHandler.ListTransactions)
			branches.GET("/revenue", dashboardHandler.RevenueSummary)
			branches.GET("/sync-status", dashboardHandler.SyncStatus)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
