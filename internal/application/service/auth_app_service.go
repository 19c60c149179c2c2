// Package service orchestrates the login, refresh and logout flows on top
// of the token domain service.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linegroup/authcore/internal/application/dto"
	"github.com/linegroup/authcore/internal/domain/models"
	domainService "github.com/linegroup/authcore/internal/domain/service"
	"github.com/linegroup/authcore/internal/infrastructure/monitoring"
	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/errors"
	"github.com/linegroup/authcore/pkg/logger"
)

// AuthAppService drives the credential lifecycle flows exposed over HTTP.
type AuthAppService interface {
	// Login verifies external credentials and issues an access/refresh pair.
	Login(ctx context.Context, req *dto.LoginRequest, rctx models.RequestContext) (*dto.TokenPairResponse, error)

	// Refresh consumes a one-time refresh credential and rotates the pair.
	Refresh(ctx context.Context, req *dto.RefreshRequest, rctx models.RequestContext) (*dto.TokenPairResponse, error)

	// Logout revokes the presented access token and retires the refresh
	// credential if one is named.
	Logout(ctx context.Context, rawToken string, req *dto.LogoutRequest) error
}

type authAppService struct {
	tokens     domainService.TokenService
	sealer     domainService.Sealer
	refreshes  domainService.RefreshStore
	users      domainService.UserDirectory
	verifier   domainService.CredentialVerifier
	audit      domainService.AuditPublisher
	metrics    *monitoring.Metrics
	refreshTTL time.Duration
	logger     logger.Logger
}

// NewAuthAppService wires the login, refresh and logout flows.
func NewAuthAppService(
	tokens domainService.TokenService,
	sealer domainService.Sealer,
	refreshes domainService.RefreshStore,
	users domainService.UserDirectory,
	verifier domainService.CredentialVerifier,
	audit domainService.AuditPublisher,
	metrics *monitoring.Metrics,
	refreshTTL time.Duration,
	log logger.Logger,
) AuthAppService {
	return &authAppService{
		tokens:     tokens,
		sealer:     sealer,
		refreshes:  refreshes,
		users:      users,
		verifier:   verifier,
		audit:      audit,
		metrics:    metrics,
		refreshTTL: refreshTTL,
		logger:     log.WithComponent("AuthAppService"),
	}
}

// Login verifies the username/password pair externally, loads the user
// record and issues a fresh token pair. A failed verification and an
// unknown user produce the same error.
func (s *authAppService) Login(ctx context.Context, req *dto.LoginRequest, rctx models.RequestContext) (*dto.TokenPairResponse, error) {
	subject, err := s.verifier.VerifyCredentials(ctx, req.Username, req.Password)
	if err != nil {
		s.audit.Publish(ctx, domainService.AuditEvent{
			Type:      constants.AuditEventLoginFailed,
			Subject:   req.Username,
			ClientIP:  rctx.ClientIP,
			Timestamp: time.Now(),
		})
		return nil, domainService.ErrBadCredentials
	}

	user, err := s.users.FindBySubject(ctx, subject)
	if err != nil || user.Disabled {
		s.logger.Warn(ctx, "login rejected for verified credentials",
			logger.String("subject", subject))
		return nil, domainService.ErrBadCredentials
	}

	return s.issuePair(ctx, user, rctx, constants.AuditEventTokenIssued)
}

// Refresh atomically consumes the refresh credential and issues a new pair
// bound to the current request context. A consumed or unknown credential is
// rejected without detail.
func (s *authAppService) Refresh(ctx context.Context, req *dto.RefreshRequest, rctx models.RequestContext) (*dto.TokenPairResponse, error) {
	refreshID, err := s.openRefresh(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	subject, err := s.refreshes.Consume(ctx, refreshID)
	if err != nil {
		if errors.Is(err, domainService.ErrRefreshNotFound) {
			return nil, domainService.ErrRefreshNotFound
		}
		s.logger.Error(ctx, "refresh store unavailable", err)
		return nil, domainService.ErrRefreshNotFound
	}

	user, err := s.users.FindBySubject(ctx, subject)
	if err != nil || user.Disabled {
		return nil, domainService.ErrRefreshNotFound
	}

	resp, err := s.issuePair(ctx, user, rctx, constants.AuditEventTokenRefreshed)
	if err == nil {
		s.metrics.RecordRefreshRotation()
	}
	return resp, err
}

// Logout revokes the access token and deletes the refresh record. Both
// steps are idempotent.
func (s *authAppService) Logout(ctx context.Context, rawToken string, req *dto.LogoutRequest) error {
	if err := s.tokens.Revoke(ctx, rawToken); err != nil {
		return err
	}
	s.metrics.RecordRevocation()

	if req != nil && req.RefreshToken != "" {
		if refreshID, err := s.openRefresh(req.RefreshToken); err == nil {
			if err := s.refreshes.Delete(ctx, refreshID); err != nil {
				s.logger.Warn(ctx, "failed to delete refresh record",
					logger.Error(err))
			}
		}
	}

	s.audit.Publish(ctx, domainService.AuditEvent{
		Type:      constants.AuditEventTokenRevoked,
		Timestamp: time.Now(),
	})
	return nil
}

func (s *authAppService) issuePair(ctx context.Context, user *models.UserRecord, rctx models.RequestContext, eventType constants.AuditEventType) (*dto.TokenPairResponse, error) {
	start := time.Now()
	access, claims, err := s.tokens.Issue(ctx, user.Subject, user.Roles, rctx)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", err,
			logger.String("subject", user.Subject))
		return nil, err
	}
	s.metrics.RecordIssue(time.Since(start))

	refreshID := uuid.NewString()
	if err := s.refreshes.Save(ctx, refreshID, user.Subject, s.refreshTTL); err != nil {
		s.logger.Error(ctx, "failed to persist refresh record", err,
			logger.String("subject", user.Subject))
		return nil, err
	}

	// The record id never travels in the clear. Sealing keeps the refresh
	// credential opaque on the wire like the access token.
	sealedRefresh, err := s.sealer.Seal([]byte(refreshID))
	if err != nil {
		return nil, err
	}

	s.audit.Publish(ctx, domainService.AuditEvent{
		Type:      eventType,
		Subject:   user.Subject,
		TokenID:   claims.ID,
		ClientIP:  rctx.ClientIP,
		Timestamp: time.Now(),
	})

	return &dto.TokenPairResponse{
		AccessToken:  access,
		RefreshToken: sealedRefresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time) / time.Second),
		IssuedAt:     claims.IssuedAt.Unix(),
	}, nil
}

// openRefresh unseals a presented refresh credential. Any defect collapses
// to not-found.
func (s *authAppService) openRefresh(raw string) (string, error) {
	plaintext, err := s.sealer.Open(strings.TrimSpace(raw))
	if err != nil {
		return "", domainService.ErrRefreshNotFound
	}
	return string(plaintext), nil
}
