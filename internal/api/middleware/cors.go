package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupCORS lets browsers read the ledger; webhook deliveries come from peers, not browsers
func SetupCORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders:   []string{"Content-Length", RequestIDHeader},
		MaxAge:          time.Hour,
	})
}
