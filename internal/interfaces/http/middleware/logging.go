package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linegroup/authcore/pkg/logger"
)

// AccessLog logs one line per request after it completes.
func AccessLog(log logger.Logger) gin.HandlerFunc {
	accessLog := log.WithComponent("HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		accessLog.Info(c.Request.Context(), "request completed",
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
			logger.String("client_ip", c.ClientIP()),
		)
	}
}
