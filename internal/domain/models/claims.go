// Package models defines the domain models for the authentication core.
// This file contains the ClaimSet, the authenticated assertion sealed inside
// every access credential.
package models

import (
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/errors"
)

// ClaimSet represents the assertions embedded in an access credential. It is
// created at issuance, immutable thereafter, travels encrypted inside the
// token for its entire life and is reconstructed transiently during
// verification.
// ClaimSet 代表存放於加密令牌內的聲明集合，於頒發時建立，之後不可變更。
type ClaimSet struct {
	jwt.RegisteredClaims

	// Authorities is the deduplicated, sorted role set granted to the subject.
	// Authorities 是授予主體的角色集合（已去重並排序）。
	Authorities []string `json:"authorities"`

	// Fingerprint is the opaque device identifier bound at issuance.
	// Fingerprint 是頒發時綁定的裝置指紋。
	Fingerprint string `json:"fp"`

	// TokenType discriminates this token profile from any other kind that
	// might later share the wire format.
	// TokenType 用於區分令牌類型。
	TokenType constants.TokenType `json:"typ"`
}

// NewClaimSet builds the claim set for a fresh issuance: random jti,
// iat = nbf = now, exp = now + ttl, authorities copied, deduplicated and
// sorted so identical inputs always encode identically.
func NewClaimSet(subject string, authorities []string, fingerprint, issuer, audience string, now time.Time, ttl time.Duration) *ClaimSet {
	now = now.UTC().Truncate(time.Second)
	return &ClaimSet{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        strings.ReplaceAll(uuid.NewString(), "-", ""),
			Subject:   subject,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Authorities: normalizeAuthorities(authorities),
		Fingerprint: fingerprint,
		TokenType:   constants.TokenTypeAccess,
	}
}

// Validate checks structural completeness and the temporal invariant
// nbf <= iat < exp. It is applied both after construction and after decoding,
// so a structurally defective token is rejected as malformed before any
// time-based check runs.
func (c *ClaimSet) Validate() error {
	switch {
	case c.ID == "":
		return errors.ErrMalformed("missing jti claim")
	case c.Subject == "":
		return errors.ErrMalformed("missing sub claim")
	case c.IssuedAt == nil:
		return errors.ErrMalformed("missing iat claim")
	case c.ExpiresAt == nil:
		return errors.ErrMalformed("missing exp claim")
	case c.Fingerprint == "":
		return errors.ErrMalformed("missing fp claim")
	case c.TokenType != constants.TokenTypeAccess:
		return errors.ErrMalformed("unexpected token type")
	}

	nbf := c.IssuedAt.Time
	if c.NotBefore != nil {
		nbf = c.NotBefore.Time
	}
	if nbf.After(c.IssuedAt.Time) || !c.IssuedAt.Time.Before(c.ExpiresAt.Time) {
		return errors.ErrMalformed("inconsistent temporal claims")
	}
	return nil
}

// StatusAt reports the lifecycle state of the claim set at the given instant,
// ignoring revocation (the revocation store is a separate concern).
func (c *ClaimSet) StatusAt(now time.Time) constants.TokenStatus {
	if !now.Before(c.ExpiresAt.Time) {
		return constants.TokenStatusExpired
	}
	return constants.TokenStatusActive
}

// RemainingLifetime returns the time left until expiry, or zero when the
// token is already expired. Revocation entries use it as their TTL so the
// store never outgrows outstanding tokens.
func (c *ClaimSet) RemainingLifetime(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := c.ExpiresAt.Time.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ToPrincipal derives the verified identity handed to the rest of the system.
// A fresh Principal is built on every successful verification and never
// cached across requests.
func (c *ClaimSet) ToPrincipal() *Principal {
	return NewPrincipal(c.Subject, c.Authorities)
}

// normalizeAuthorities collapses duplicates and fixes the ordering so the
// claim set encodes deterministically.
func normalizeAuthorities(authorities []string) []string {
	seen := make(map[string]struct{}, len(authorities))
	out := make([]string, 0, len(authorities))
	for _, a := range authorities {
		if a == "" {
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
