// Package errors defines the structured error taxonomy of the authentication
// core. Every verification failure carries a precise internal reason; the HTTP
// boundary is the only layer permitted to decide how much of it to expose, and
// it must collapse all per-request reasons into one uniform unauthorized
// outcome before anything reaches an external caller.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ================================================================================
// Rejection Reasons
// ================================================================================

// Reason identifies why a token failed verification. Reasons are for audit
// logs and metrics only; they must never be distinguishable to external
// callers.
type Reason string

const (
	// ReasonMalformed covers transport decoding failures, truncated bundles,
	// AEAD tag mismatches and structural claim defects.
	ReasonMalformed Reason = "malformed"

	// ReasonExpired means the current time is at or past the exp claim.
	ReasonExpired Reason = "expired"

	// ReasonNotYetValid means the current time precedes the nbf claim.
	ReasonNotYetValid Reason = "not_yet_valid"

	// ReasonDeviceMismatch means the recomputed device fingerprint does not
	// equal the fingerprint bound at issuance.
	ReasonDeviceMismatch Reason = "device_mismatch"

	// ReasonRevoked means the token id is present in the revocation store,
	// or the store could not be consulted (fail closed).
	ReasonRevoked Reason = "revoked"
)

// ================================================================================
// AuthError Interface
// ================================================================================

// AuthError is a structured error with rejection metadata.
type AuthError interface {
	error

	// Reason returns the internal rejection reason.
	Reason() Reason

	// HTTPStatus returns the status code the boundary layer should map this
	// error to. All per-request rejections map to 401.
	HTTPStatus() int

	// Unwrap returns the underlying cause for error chain support.
	Unwrap() error

	// WithCause attaches a cause error.
	WithCause(cause error) AuthError

	// WithMetadata attaches diagnostic context for internal logging.
	WithMetadata(key string, value any) AuthError

	// Metadata returns all attached metadata.
	Metadata() map[string]any
}

type authError struct {
	reason     Reason
	httpStatus int
	message    string
	cause      error
	metadata   map[string]any
}

func (e *authError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *authError) Reason() Reason { return e.reason }

func (e *authError) HTTPStatus() int { return e.httpStatus }

func (e *authError) Unwrap() error { return e.cause }

func (e *authError) WithCause(cause error) AuthError {
	e.cause = cause
	return e
}

func (e *authError) WithMetadata(key string, value any) AuthError {
	if e.metadata == nil {
		e.metadata = make(map[string]any)
	}
	e.metadata[key] = value
	return e
}

func (e *authError) Metadata() map[string]any { return e.metadata }

// ================================================================================
// Constructors
// ================================================================================

func newRejection(reason Reason, message string) AuthError {
	return &authError{
		reason:     reason,
		httpStatus: http.StatusUnauthorized,
		message:    message,
	}
}

// ErrMalformed creates a malformed-token rejection.
func ErrMalformed(detail string) AuthError {
	return newRejection(ReasonMalformed, "token is malformed: "+detail)
}

// ErrExpired creates an expired-token rejection.
func ErrExpired() AuthError {
	return newRejection(ReasonExpired, "token has expired")
}

// ErrNotYetValid creates a rejection for a token used before its nbf instant.
func ErrNotYetValid() AuthError {
	return newRejection(ReasonNotYetValid, "token is not yet valid")
}

// ErrDeviceMismatch creates a rejection for a token presented from a client
// environment other than the one it was bound to at issuance.
func ErrDeviceMismatch() AuthError {
	return newRejection(ReasonDeviceMismatch, "device fingerprint mismatch")
}

// ErrRevoked creates a rejection for a token whose id is on the revocation
// list. It is also the fail-closed outcome when the store is unreachable.
func ErrRevoked() AuthError {
	return newRejection(ReasonRevoked, "token has been revoked")
}

// ================================================================================
// Fatal Conditions
// ================================================================================

// CryptoUnavailableError signals absent or unusable key material. It is a
// deployment defect, not a per-request outcome: it must abort startup or
// surface as a 5xx-class failure, never as an unauthorized response.
type CryptoUnavailableError struct {
	Detail string
}

func (e *CryptoUnavailableError) Error() string {
	return "crypto unavailable: " + e.Detail
}

// HTTPStatus implements the status mapping for the rare case the condition
// is detected at request time rather than startup.
func (e *CryptoUnavailableError) HTTPStatus() int {
	return http.StatusServiceUnavailable
}

// ErrCryptoUnavailable creates a fatal key-material error.
func ErrCryptoUnavailable(detail string) error {
	return &CryptoUnavailableError{Detail: detail}
}

// IsCryptoUnavailable reports whether err is a key-material failure.
func IsCryptoUnavailable(err error) bool {
	var cu *CryptoUnavailableError
	return errors.As(err, &cu)
}

// ================================================================================
// Inspection Utilities
// ================================================================================

// AsAuthError attempts to cast an error to AuthError.
func AsAuthError(err error) (AuthError, bool) {
	var ae AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// ReasonOf extracts the rejection reason from an error chain.
func ReasonOf(err error) (Reason, bool) {
	if ae, ok := AsAuthError(err); ok {
		return ae.Reason(), true
	}
	return "", false
}

// IsRejection reports whether err is one of the five recoverable per-request
// rejections, as opposed to an infrastructure failure.
func IsRejection(err error) bool {
	_, ok := AsAuthError(err)
	return ok
}

// New wraps the standard constructor so callers inside the module do not need
// a second errors import for plain errors.
func New(text string) error { return errors.New(text) }

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }
