// Package handlers implements the HTTP endpoints of the authentication core.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linegroup/authcore/internal/application/dto"
	appService "github.com/linegroup/authcore/internal/application/service"
	domainService "github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/internal/interfaces/http/middleware"
	"github.com/linegroup/authcore/pkg/errors"
	"github.com/linegroup/authcore/pkg/logger"
)

// AuthHandler serves the login, refresh, logout and profile endpoints.
type AuthHandler struct {
	auth   appService.AuthAppService
	logger logger.Logger
}

// NewAuthHandler creates the handler.
func NewAuthHandler(auth appService.AuthAppService, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: log.WithComponent("AuthHandler"),
	}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c)
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req, middleware.RequestContextFrom(c))
	if err != nil {
		h.rejectAuth(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c)
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), &req, middleware.RequestContextFrom(c))
	if err != nil {
		h.rejectAuth(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout handles POST /api/v1/auth/logout. The route sits behind the
// authentication middleware, so the bearer credential is already verified.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badRequest(c)
			return
		}
	}

	if err := h.auth.Logout(c.Request.Context(), c.GetHeader("Authorization"), &req); err != nil {
		h.logger.Error(c.Request.Context(), "logout failed", err)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:     "service_unavailable",
			RequestID: middleware.RequestIDFrom(c.Request.Context()),
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// Profile handles GET /api/v1/auth/profile, echoing the verified principal.
func (h *AuthHandler) Profile(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:     "unauthorized",
			RequestID: middleware.RequestIDFrom(c.Request.Context()),
		})
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		Subject:     principal.Subject(),
		Authorities: principal.Authorities(),
	})
}

func (h *AuthHandler) badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:     "invalid_request",
		RequestID: middleware.RequestIDFrom(c.Request.Context()),
	})
}

// rejectAuth maps every authentication failure of the login and refresh
// flows to the same 401 body. Store outages surface as 503.
func (h *AuthHandler) rejectAuth(c *gin.Context, err error) {
	ctx := c.Request.Context()
	switch {
	case errors.Is(err, domainService.ErrBadCredentials), errors.Is(err, domainService.ErrRefreshNotFound):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:     "unauthorized",
			RequestID: middleware.RequestIDFrom(ctx),
		})
	default:
		h.logger.Error(ctx, "authentication flow failed", err)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:     "service_unavailable",
			RequestID: middleware.RequestIDFrom(ctx),
		})
	}
}
