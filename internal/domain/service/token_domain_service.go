package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/linegroup/authcore/internal/domain/models"
	"github.com/linegroup/authcore/pkg/errors"
	"github.com/linegroup/authcore/pkg/logger"
	"github.com/linegroup/authcore/pkg/utils"
)

var _ TokenService = (*tokenDomainService)(nil)

// TokenOptions carries the fixed profile configuration of the service.
type TokenOptions struct {
	Issuer   string
	Audience string
	TTL      time.Duration
}

// tokenDomainService composes the codec, cipher, fingerprinter and
// revocation store into the issue/verify/revoke state machine. Verification
// is stateless and side-effect-free except for the revocation read, so calls
// may run fully in parallel.
type tokenDomainService struct {
	sealer      Sealer
	codec       Codec
	fingerprint Fingerprinter
	revocations RevocationStore
	opts        TokenOptions
	log         logger.Logger
}

// NewTokenService builds the token authentication core.
func NewTokenService(
	sealer Sealer,
	codec Codec,
	fingerprint Fingerprinter,
	revocations RevocationStore,
	opts TokenOptions,
	log logger.Logger,
) TokenService {
	return &tokenDomainService{
		sealer:      sealer,
		codec:       codec,
		fingerprint: fingerprint,
		revocations: revocations,
		opts:        opts,
		log:         log.WithComponent("token_service"),
	}
}

// Issue builds a claim set bound to the requesting device, encodes it and
// seals it. The revocation store is never touched here.
func (s *tokenDomainService) Issue(ctx context.Context, subject string, authorities []string, rctx models.RequestContext) (string, *models.ClaimSet, error) {
	fp, err := s.fingerprint.Compute(rctx)
	if err != nil {
		return "", nil, err
	}

	claims := models.NewClaimSet(subject, authorities, fp, s.opts.Issuer, s.opts.Audience, time.Now(), s.opts.TTL)
	plaintext, err := s.codec.Encode(claims)
	if err != nil {
		return "", nil, err
	}

	token, err := s.sealer.Seal(plaintext)
	if err != nil {
		return "", nil, err
	}

	s.log.Debug(ctx, "token issued",
		logger.String("subject", subject),
		logger.String("jti", claims.ID),
		logger.Time("expires_at", claims.ExpiresAt.Time),
	)
	return token, claims, nil
}

// Authenticate verifies a credential against the current clock.
func (s *tokenDomainService) Authenticate(ctx context.Context, rawToken string, rctx models.RequestContext) (*models.Principal, error) {
	return s.AuthenticateAt(ctx, rawToken, rctx, time.Now())
}

// AuthenticateAt runs the ordered verification sequence, short-circuiting on
// the first failure. Cheap structural checks come first so malformed input
// wastes no crypto work; the revocation read comes last so the shared store
// is only consulted for otherwise valid tokens.
func (s *tokenDomainService) AuthenticateAt(ctx context.Context, rawToken string, rctx models.RequestContext, now time.Time) (*models.Principal, error) {
	rawToken = utils.StripBearer(rawToken)
	if rawToken == "" {
		return nil, errors.ErrMalformed("empty token")
	}

	plaintext, err := s.sealer.Open(rawToken)
	if err != nil {
		return nil, err
	}

	claims, err := s.codec.Decode(plaintext)
	if err != nil {
		return nil, err
	}

	if !now.Before(claims.ExpiresAt.Time) {
		return nil, errors.ErrExpired().WithMetadata("jti", claims.ID)
	}
	if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return nil, errors.ErrNotYetValid().WithMetadata("jti", claims.ID)
	}

	fp, err := s.fingerprint.Compute(rctx)
	if err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(fp), []byte(claims.Fingerprint)) != 1 {
		return nil, errors.ErrDeviceMismatch().WithMetadata("jti", claims.ID)
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		// Fail closed: a store that cannot answer must not let a possibly
		// revoked token authenticate.
		s.log.Error(ctx, "revocation store unavailable", err, logger.String("jti", claims.ID))
		return nil, errors.ErrRevoked().WithCause(err)
	}
	if revoked {
		return nil, errors.ErrRevoked().WithMetadata("jti", claims.ID)
	}

	return claims.ToPrincipal(), nil
}

// Revoke opens the credential to recover its id and remaining lifetime, then
// writes the revocation entry with that TTL. Revoking twice is safe; an
// already expired token needs no entry at all.
func (s *tokenDomainService) Revoke(ctx context.Context, rawToken string) error {
	rawToken = utils.StripBearer(rawToken)
	if rawToken == "" {
		return errors.ErrMalformed("empty token")
	}

	plaintext, err := s.sealer.Open(rawToken)
	if err != nil {
		return err
	}
	claims, err := s.codec.Decode(plaintext)
	if err != nil {
		return err
	}

	ttl := claims.RemainingLifetime(time.Now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.MarkRevoked(ctx, claims.ID, ttl); err != nil {
		return err
	}

	s.log.Info(ctx, "token revoked",
		logger.String("subject", claims.Subject),
		logger.String("jti", claims.ID),
		logger.Duration("remaining_ttl", ttl),
	)
	return nil
}
