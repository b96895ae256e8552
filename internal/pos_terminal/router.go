package pos_terminal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/branchline-pos/internal/httpapi/middleware"
	"github.com/branchline-pos/internal/pos_terminal/handler"
)

// setupRouter configures API routes and middleware for the terminal
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	checkoutHandler *handler.CheckoutHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		v1.POST("/checkout", checkoutHandler.Checkout)

		transactions := v1.Group("/transactions")
		{
			transactions.GET("", checkoutHandler.ListByShift)
			transactions.GET("/:uuid", checkoutHandler.GetByUUID)
		}

		v1.GET("/sync/pending", checkoutHandler.PendingSync)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
