package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feral-file/slp-indexer/internal/logger"
)

// RequestIDHeader carries the id correlating a request with its log lines
const RequestIDHeader = "X-Request-ID"

// RequestID tags the request context with the caller's request id, or a fresh one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.With(c.Request.Context(), zap.String("request_id", id)))
		c.Next()
	}
}

// Logger logs one line per request, webhook deliveries at debug level
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.FullPath() == "/blocks" && c.Writer.Status() < 400 {
			logger.DebugCtx(c.Request.Context(), "Webhook delivery", fields...)
			return
		}
		logger.InfoCtx(c.Request.Context(), "API request", fields...)
	}
}

// Recovery turns a handler panic into a 500 and reports it
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.ErrorCtx(c.Request.Context(), fmt.Errorf("panic recovered: %v", err),
					zap.String("path", c.Request.URL.Path),
				)
				c.AbortWithStatusJSON(500, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
