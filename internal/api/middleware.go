package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"hardwarebot/internal/requestctx"
)

const requestIDHeader = "X-Request-ID"

// requestID reuses an inbound X-Request-ID or mints one, and exposes it on
// the response and the request context.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(requestctx.WithID(c.Request.Context(), id))
		c.Next()
	}
}

func (h *Handler) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Info("request",
			"request_id", requestctx.ID(c.Request.Context()),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
