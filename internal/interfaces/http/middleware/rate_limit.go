package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linegroup/authcore/internal/application/dto"
	"github.com/linegroup/authcore/internal/infrastructure/ratelimit"
	"github.com/linegroup/authcore/pkg/utils"
)

// LoginRateLimit throttles credential-guessing per client address.
func LoginRateLimit(limiter *ratelimit.LoginLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.Request.Context(), utils.ClientIP(c.Request)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error:     "too_many_requests",
				RequestID: RequestIDFrom(c.Request.Context()),
			})
			return
		}
		c.Next()
	}
}
