package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linegroup/authcore/internal/application/dto"
	"github.com/linegroup/authcore/internal/domain/models"
	domainService "github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/internal/interfaces/http/handlers"
	"github.com/linegroup/authcore/pkg/logger"
)

// stubAuthService scripts the application service responses.
type stubAuthService struct {
	pair       *dto.TokenPairResponse
	loginErr   error
	refreshErr error
	logoutErr  error

	lastLogin  *dto.LoginRequest
	lastLogout string
}

func (s *stubAuthService) Login(_ context.Context, req *dto.LoginRequest, _ models.RequestContext) (*dto.TokenPairResponse, error) {
	s.lastLogin = req
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return s.pair, nil
}

func (s *stubAuthService) Refresh(_ context.Context, _ *dto.RefreshRequest, _ models.RequestContext) (*dto.TokenPairResponse, error) {
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return s.pair, nil
}

func (s *stubAuthService) Logout(_ context.Context, rawToken string, _ *dto.LogoutRequest) error {
	s.lastLogout = rawToken
	return s.logoutErr
}

func newHandlerFixture(stub *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewAuthHandler(stub, logger.NewNoopLogger())

	engine := gin.New()
	engine.POST("/login", handler.Login)
	engine.POST("/refresh", handler.Refresh)
	engine.POST("/logout", handler.Logout)
	return engine
}

func postJSON(engine *gin.Engine, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{pair: &dto.TokenPairResponse{
		AccessToken:  "sealed-access",
		RefreshToken: "sealed-refresh",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}}
	engine := newHandlerFixture(stub)

	w := postJSON(engine, "/login", dto.LoginRequest{Username: "alice", Password: "s3cret"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TokenPairResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "sealed-access", resp.AccessToken)
	assert.Equal(t, "sealed-refresh", resp.RefreshToken)
	assert.Equal(t, "alice", stub.lastLogin.Username)
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	engine := newHandlerFixture(&stubAuthService{})

	cases := map[string]any{
		"empty body":       nil,
		"missing password": dto.LoginRequest{Username: "alice"},
		"missing username": dto.LoginRequest{Password: "s3cret"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := postJSON(engine, "/login", body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAuthHandler_LoginBadCredentials(t *testing.T) {
	engine := newHandlerFixture(&stubAuthService{loginErr: domainService.ErrBadCredentials})

	w := postJSON(engine, "/login", dto.LoginRequest{Username: "alice", Password: "wrong"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unauthorized", resp["error"])
}

func TestAuthHandler_RefreshUnknownCredential(t *testing.T) {
	engine := newHandlerFixture(&stubAuthService{refreshErr: domainService.ErrRefreshNotFound})

	w := postJSON(engine, "/refresh", dto.RefreshRequest{RefreshToken: "stale"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_StoreOutageIs503(t *testing.T) {
	stub := &stubAuthService{loginErr: context.DeadlineExceeded}
	engine := newHandlerFixture(stub)

	w := postJSON(engine, "/login", dto.LoginRequest{Username: "alice", Password: "s3cret"}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	stub := &stubAuthService{}
	engine := newHandlerFixture(stub)

	w := postJSON(engine, "/logout", dto.LogoutRequest{RefreshToken: "sealed-refresh"},
		map[string]string{"Authorization": "Bearer sealed-access"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "Bearer sealed-access", stub.lastLogout)
}
