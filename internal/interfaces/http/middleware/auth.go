package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/linegroup/authcore/internal/application/dto"
	"github.com/linegroup/authcore/internal/domain/models"
	"github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/internal/infrastructure/monitoring"
	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/errors"
	"github.com/linegroup/authcore/pkg/logger"
	"github.com/linegroup/authcore/pkg/utils"
)

// RequestContextFrom captures the device-binding attributes of the incoming
// request.
func RequestContextFrom(c *gin.Context) models.RequestContext {
	return models.RequestContext{
		ClientIP:  utils.ClientIP(c.Request),
		UserAgent: c.Request.UserAgent(),
	}
}

// Authenticate verifies the bearer credential and installs the resulting
// principal. Every rejection collapses to the same 401 body; the precise
// reason goes to logs and metrics only. A crypto outage is the one
// exception and surfaces as 503.
func Authenticate(tokens service.TokenService, metrics *monitoring.Metrics, log logger.Logger) gin.HandlerFunc {
	authLog := log.WithComponent("AuthMiddleware")
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		raw := c.GetHeader("Authorization")

		start := time.Now()
		principal, err := tokens.Authenticate(ctx, raw, RequestContextFrom(c))
		metrics.RecordVerification(err, time.Since(start))

		if err != nil {
			if errors.IsCryptoUnavailable(err) {
				authLog.Error(ctx, "verification unavailable", err)
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.ErrorResponse{
					Error:     "service_unavailable",
					RequestID: RequestIDFrom(ctx),
				})
				return
			}
			reason, _ := errors.ReasonOf(err)
			authLog.Warn(ctx, "credential rejected",
				logger.String("reason", string(reason)),
				logger.String("client_ip", utils.ClientIP(c.Request)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error:     "unauthorized",
				RequestID: RequestIDFrom(ctx),
			})
			return
		}

		ctx = context.WithValue(ctx, constants.ContextKeyPrincipal, principal)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// PrincipalFrom returns the principal installed by Authenticate, if any.
func PrincipalFrom(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(constants.ContextKeyPrincipal).(*models.Principal)
	return p, ok
}
