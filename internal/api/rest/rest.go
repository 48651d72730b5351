package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// Webhook deliveries authenticate with the subscription token
	router.POST("/blocks", handler.ReceiveBlock)

	// API v1 routes (public read access)
	v1 := router.Group("/api/v1")
	{
		v1.GET("/peers", handler.ListPeers)

		v1.GET("/contracts/:token_id", handler.GetContract)
		v1.GET("/contracts/:token_id/holders/:address", handler.GetHolder)

		v1.GET("/journal", handler.ListJournal)
		v1.GET("/rejected", handler.ListRejected)
		v1.GET("/unvalidated/:slp_type", handler.ListUnvalidated)
	}
}
