package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linegroup/authcore/internal/domain/models"
	"github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/internal/infrastructure/crypto"
	"github.com/linegroup/authcore/internal/infrastructure/fingerprint"
	"github.com/linegroup/authcore/internal/infrastructure/monitoring"
	"github.com/linegroup/authcore/internal/interfaces/http/middleware"
	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/logger"
)

type openRevocations struct{ revoked map[string]struct{} }

func (o *openRevocations) MarkRevoked(_ context.Context, id string, _ time.Duration) error {
	o.revoked[id] = struct{}{}
	return nil
}

func (o *openRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := o.revoked[id]
	return ok, nil
}

func newAuthFixture(t *testing.T) (service.TokenService, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	km, err := crypto.NewKeyMaterial("middleware-test")
	require.NoError(t, err)
	cipher, err := crypto.NewTokenCipher(constants.CipherAESGCM, km)
	require.NoError(t, err)

	tokens := service.NewTokenService(
		cipher,
		crypto.NewClaimsCodec(),
		fingerprint.New(nil),
		&openRevocations{revoked: make(map[string]struct{})},
		service.TokenOptions{Issuer: "authcore", Audience: "backend", TTL: 15 * time.Minute},
		logger.NewNoopLogger(),
	)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Authenticate(tokens, monitoring.NewMetricsWith(prometheus.NewRegistry()), logger.NewNoopLogger()))
	engine.GET("/protected", func(c *gin.Context) {
		principal, ok := middleware.PrincipalFrom(c.Request.Context())
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"subject": principal.Subject()})
	})
	return tokens, engine
}

func issueFor(t *testing.T, tokens service.TokenService, ip, agent string) string {
	t.Helper()
	token, _, err := tokens.Issue(context.Background(), "42", []string{"ADMIN"},
		models.RequestContext{ClientIP: ip, UserAgent: agent})
	require.NoError(t, err)
	return token
}

func protectedRequest(engine *gin.Engine, authorization, ip, agent string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if agent != "" {
		req.Header.Set("User-Agent", agent)
	}
	req.RemoteAddr = ip + ":51234"
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_ValidToken(t *testing.T) {
	tokens, engine := newAuthFixture(t)
	token := issueFor(t, tokens, "10.0.0.5", "probe/1.0")

	w := protectedRequest(engine, "Bearer "+token, "10.0.0.5", "probe/1.0")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "42", body["subject"])
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestAuthenticate_UniformRejectionBody(t *testing.T) {
	tokens, engine := newAuthFixture(t)
	valid := issueFor(t, tokens, "10.0.0.5", "probe/1.0")

	revoked := issueFor(t, tokens, "10.0.0.5", "probe/1.0")
	require.NoError(t, tokens.Revoke(context.Background(), revoked))

	cases := map[string]struct {
		authorization string
		ip            string
		agent         string
	}{
		"missing header":  {"", "10.0.0.5", "probe/1.0"},
		"garbage token":   {"Bearer garbage", "10.0.0.5", "probe/1.0"},
		"wrong device ip": {"Bearer " + valid, "10.9.9.9", "probe/1.0"},
		"wrong agent":     {"Bearer " + valid, "10.0.0.5", "probe/2.0"},
		"revoked":         {"Bearer " + revoked, "10.0.0.5", "probe/1.0"},
	}

	var bodies []string
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := protectedRequest(engine, tc.authorization, tc.ip, tc.agent)
			require.Equal(t, http.StatusUnauthorized, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "unauthorized", resp["error"])
			// No field may leak which check failed.
			delete(resp, "request_id")
			normalized, err := json.Marshal(resp)
			require.NoError(t, err)
			bodies = append(bodies, string(normalized))
		})
	}
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i])
	}
}

func TestAuthenticate_BearerPrefixOptional(t *testing.T) {
	tokens, engine := newAuthFixture(t)
	token := issueFor(t, tokens, "10.0.0.5", "probe/1.0")

	for _, header := range []string{token, "Bearer " + token, "bearer " + token} {
		w := protectedRequest(engine, header, "10.0.0.5", "probe/1.0")
		assert.Equal(t, http.StatusOK, w.Code, "header %q", header)
	}
}
