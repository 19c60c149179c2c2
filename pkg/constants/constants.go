// Package constants defines system-wide constants for the authentication core.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Token Profile Constants
// ================================================================================

// TokenType discriminates the token profile carried inside a sealed credential.
type TokenType string

const (
	// TokenTypeAccess is the encrypted, device-bound access credential.
	TokenTypeAccess TokenType = "access"

	// TokenTypeRefresh is the opaque, server-side refresh credential.
	TokenTypeRefresh TokenType = "refresh"
)

// BearerPrefix is the well-known Authorization scheme prefix callers may
// include in front of a token. Implementations must tolerate stripping it.
const BearerPrefix = "Bearer "

// ================================================================================
// Token Status Constants
// ================================================================================

// TokenStatus represents the lifecycle state of a single token.
// Expired and Revoked are terminal; there is no transition back.
type TokenStatus string

const (
	// TokenStatusActive indicates the token is within [nbf, exp) and not revoked.
	TokenStatusActive TokenStatus = "active"

	// TokenStatusRevoked indicates the token id has been written to the
	// revocation store.
	TokenStatusRevoked TokenStatus = "revoked"

	// TokenStatusExpired indicates the token has passed its expiration time.
	TokenStatusExpired TokenStatus = "expired"
)

// ================================================================================
// Cipher Constants
// ================================================================================

// CipherAlgorithm selects the AEAD construction used to seal tokens.
type CipherAlgorithm string

const (
	// CipherAESGCM is AES-256-GCM, the default construction.
	CipherAESGCM CipherAlgorithm = "aes-gcm"

	// CipherChaCha20Poly1305 is ChaCha20-Poly1305. It shares the 12-byte
	// nonce and 16-byte tag sizes with AES-GCM, so the wire format is
	// identical for both algorithms.
	CipherChaCha20Poly1305 CipherAlgorithm = "chacha20poly1305"
)

const (
	// NonceSize is the AEAD nonce length in bytes for both supported ciphers.
	NonceSize = 12

	// TagSize is the AEAD authentication tag length in bytes.
	TagSize = 16

	// KeySize is the symmetric key length in bytes (256 bits).
	KeySize = 32
)

// ================================================================================
// Claim Key Constants
// ================================================================================

const (
	// ClaimKeyIssuer is the registered "iss" claim.
	ClaimKeyIssuer = "iss"

	// ClaimKeySubject is the registered "sub" claim.
	ClaimKeySubject = "sub"

	// ClaimKeyAudience is the registered "aud" claim.
	ClaimKeyAudience = "aud"

	// ClaimKeyExpiresAt is the registered "exp" claim.
	ClaimKeyExpiresAt = "exp"

	// ClaimKeyNotBefore is the registered "nbf" claim.
	ClaimKeyNotBefore = "nbf"

	// ClaimKeyIssuedAt is the registered "iat" claim.
	ClaimKeyIssuedAt = "iat"

	// ClaimKeyTokenID is the registered "jti" claim, the unit of revocation.
	ClaimKeyTokenID = "jti"

	// ClaimKeyAuthorities is the custom role-set claim.
	ClaimKeyAuthorities = "authorities"

	// ClaimKeyFingerprint is the custom device-binding claim.
	ClaimKeyFingerprint = "fp"

	// ClaimKeyTokenType is the custom token profile discriminator claim.
	ClaimKeyTokenType = "typ"
)

// ================================================================================
// Fingerprint Attribute Constants
// ================================================================================

const (
	// AttributeClientIP is the resolved client network address.
	AttributeClientIP = "client_ip"

	// AttributeUserAgent is the client-declared software identifier.
	AttributeUserAgent = "user_agent"
)

// ================================================================================
// Redis Key Prefixes
// ================================================================================

const (
	// DefaultRevocationKeyPrefix namespaces revoked token ids in the shared store.
	DefaultRevocationKeyPrefix = "auth:revoked:"

	// DefaultRefreshKeyPrefix namespaces refresh credential records.
	DefaultRefreshKeyPrefix = "auth:refresh:"
)

// ================================================================================
// Default Durations
// ================================================================================

const (
	// DefaultTokenTTL is the default access token lifetime.
	DefaultTokenTTL = 900 * time.Second

	// DefaultRefreshTTLFactor scales the access TTL to obtain the refresh
	// credential lifetime, matching the upstream deployment.
	DefaultRefreshTTLFactor = 10

	// DefaultStoreTimeout bounds every revocation/refresh store round trip.
	// A store that cannot answer within this window is treated as revoked
	// (fail closed).
	DefaultStoreTimeout = 2 * time.Second
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is the type for values stored in a context.Context.
type ContextKey string

const (
	// ContextKeyRequestID carries the per-request correlation id.
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyPrincipal carries the verified Principal for the request.
	ContextKeyPrincipal ContextKey = "principal"
)

// ================================================================================
// Log Levels
// ================================================================================

// LogLevel represents the severity level of log messages.
type LogLevel int8

const (
	// LogLevelDebug is the most verbose logging level.
	LogLevelDebug LogLevel = iota - 1

	// LogLevelInfo is the standard informational logging level.
	LogLevelInfo

	// LogLevelWarn indicates potential issues.
	LogLevelWarn

	// LogLevelError indicates errors that need attention.
	LogLevelError

	// LogLevelFatal indicates critical errors that cause service termination.
	LogLevelFatal
)

// ================================================================================
// Audit Event Types
// ================================================================================

// AuditEventType labels token lifecycle events on the audit stream.
type AuditEventType string

const (
	// AuditEventTokenIssued is emitted after a successful issuance.
	AuditEventTokenIssued AuditEventType = "token_issued"

	// AuditEventTokenRefreshed is emitted after a refresh rotation.
	AuditEventTokenRefreshed AuditEventType = "token_refreshed"

	// AuditEventTokenRevoked is emitted after an explicit revocation.
	AuditEventTokenRevoked AuditEventType = "token_revoked"

	// AuditEventLoginFailed is emitted when credential verification fails.
	AuditEventLoginFailed AuditEventType = "login_failed"
)
