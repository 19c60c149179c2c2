// Package service contains the domain services of the authentication core
// and the narrow interfaces of the external collaborators they depend on.
package service

import (
	"context"
	"time"

	"github.com/linegroup/authcore/internal/domain/models"
	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/errors"
)

// ================================================================================
// Core Service
// ================================================================================

// TokenService is the token authentication core: issuance of encrypted,
// device-bound credentials, their verification on every request, and their
// revocation. It is the only entry point the rest of the backend needs.
type TokenService interface {
	// Issue produces an opaque credential for an authenticated principal.
	// It is a pure computation: no shared state is touched, and a freshly
	// issued token is never pre-revoked.
	Issue(ctx context.Context, subject string, authorities []string, rctx models.RequestContext) (string, *models.ClaimSet, error)

	// Authenticate answers "who, if anyone, is this" for a raw bearer
	// credential against the current request context. It never fails the
	// request itself; a rejection carries the precise internal reason,
	// which the boundary layer must collapse before exposure.
	Authenticate(ctx context.Context, rawToken string, rctx models.RequestContext) (*models.Principal, error)

	// AuthenticateAt is Authenticate with an explicit clock instant.
	AuthenticateAt(ctx context.Context, rawToken string, rctx models.RequestContext, now time.Time) (*models.Principal, error)

	// Revoke invalidates the credential for the rest of its lifetime. It
	// is idempotent; revoking an already expired token is a no-op.
	Revoke(ctx context.Context, rawToken string) error
}

// ================================================================================
// Cryptographic Collaborators
// ================================================================================

// Sealer is the authenticated-encryption boundary of the token profile.
type Sealer interface {
	Seal(plaintext []byte) (string, error)
	Open(encoded string) ([]byte, error)
}

// Codec is the canonical claims serialization boundary.
type Codec interface {
	Encode(claims *models.ClaimSet) ([]byte, error)
	Decode(data []byte) (*models.ClaimSet, error)
}

// Fingerprinter derives the device identifier a token is bound to.
type Fingerprinter interface {
	Compute(rctx models.RequestContext) (string, error)
}

// ================================================================================
// External Stores
// ================================================================================

// RevocationStore is the shared key-value list of revoked token ids. The
// core consults it but does not own it; both operations must be bounded by a
// timeout, and callers treat a store failure as revoked (fail closed).
type RevocationStore interface {
	MarkRevoked(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ErrRefreshNotFound is returned when a refresh id is unknown or already
// consumed.
var ErrRefreshNotFound = errors.New("refresh credential not found")

// RefreshStore keeps single-use refresh credential records server-side.
type RefreshStore interface {
	Save(ctx context.Context, id, subject string, ttl time.Duration) error
	Consume(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, id string) error
}

// ================================================================================
// Externally Owned Collaborators
// ================================================================================

// ErrUserNotFound is returned by UserDirectory for an unknown subject.
var ErrUserNotFound = errors.New("user not found")

// UserDirectory is the user-lookup capability consumed from the rest of the
// system. Only the login and refresh flows use it, to establish the
// principal before issuance.
type UserDirectory interface {
	FindBySubject(ctx context.Context, subject string) (*models.UserRecord, error)
}

// ErrBadCredentials is returned by CredentialVerifier when authentication
// fails. Callers must not distinguish a wrong password from an unknown user.
var ErrBadCredentials = errors.New("invalid credentials")

// CredentialVerifier performs the external credential check of the login
// flow. Its implementation is owned by the surrounding system.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, username, password string) (subject string, err error)
}

// ================================================================================
// Audit
// ================================================================================

// AuditEvent is one token lifecycle record on the audit stream.
type AuditEvent struct {
	Type      constants.AuditEventType `json:"type"`
	Subject   string                   `json:"subject,omitempty"`
	TokenID   string                   `json:"token_id,omitempty"`
	ClientIP  string                   `json:"client_ip,omitempty"`
	Detail    string                   `json:"detail,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

// AuditPublisher emits lifecycle events. Publishing is best-effort from the
// application layer only; the verifier itself stays side-effect-free.
type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent)
	Close() error
}
