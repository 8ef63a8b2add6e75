package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"assetpulse/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to the request context and response. An ID
// supplied by the caller is kept so agents can correlate submissions.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, requestID)

		c.Next()
	}
}
