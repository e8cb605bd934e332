package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/logger"
)

const (
	// RequestIDHeader is the header name for request ID
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the context key for request ID
	RequestIDKey = "request_id"
	// LoggerKey is the context key for the request-scoped logger
	LoggerKey = "logger"
)

// RequestID middleware adds a unique request ID to each request.
// If the client provides an X-Request-ID header, it is used; otherwise, a
// new UUID is generated. A logger carrying the id is stored alongside it
// for handlers that log.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Set(LoggerKey, logger.WithRequestID(requestID))

		// Set the request ID in the response header
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID retrieves the request ID from the gin context.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// GetLogger retrieves the request-scoped logger from the gin context,
// falling back to the default logger outside the RequestID middleware.
func GetLogger(c *gin.Context) *slog.Logger {
	if l, exists := c.Get(LoggerKey); exists {
		if log, ok := l.(*slog.Logger); ok {
			return log
		}
	}
	return logger.Default()
}
