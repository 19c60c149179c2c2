// Package middleware contains the gin middleware of the HTTP surface.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linegroup/authcore/pkg/constants"
)

// RequestIDHeader is the correlation id header, honored when the caller
// already carries one.
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a correlation id to the request context and echoes it
// back on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, id)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the correlation id of the request, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(constants.ContextKeyRequestID).(string)
	return id
}
