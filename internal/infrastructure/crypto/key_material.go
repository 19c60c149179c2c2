// Package crypto implements the cryptographic components of the
// authentication core: process-wide key material, the claims codec and the
// AEAD token cipher.
package crypto

import (
	"crypto/sha256"

	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/errors"
)

// KeyMaterial holds the process-wide symmetric key. It is loaded exactly
// once before the core begins serving and never mutated, so concurrent reads
// require no synchronization.
type KeyMaterial struct {
	key [constants.KeySize]byte
}

// NewKeyMaterial derives the sealing key from the configured secret by
// hashing it to exactly 256 bits, the same derivation the upstream deployment
// uses. An empty secret is a fatal startup condition, never a per-request
// error.
func NewKeyMaterial(secret string) (*KeyMaterial, error) {
	if secret == "" {
		return nil, errors.ErrCryptoUnavailable("secret key is not configured")
	}
	return &KeyMaterial{key: sha256.Sum256([]byte(secret))}, nil
}

// Key returns the raw key bytes. Callers must treat the slice as read-only.
func (k *KeyMaterial) Key() []byte {
	return k.key[:]
}
