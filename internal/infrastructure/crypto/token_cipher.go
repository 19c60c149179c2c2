package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/linegroup/authcore/pkg/constants"
	"github.com/linegroup/authcore/pkg/errors"
)

// TokenCipher provides authenticated encryption over the serialized claim
// set, making the token both confidential and tamper-evident. The wire form
// is base64url (no padding) of nonce || ciphertext || tag. Both supported
// constructions use a 12-byte nonce and a 16-byte tag, so the format does not
// depend on the configured algorithm.
type TokenCipher struct {
	aead cipher.AEAD
}

// minSealedLen is the smallest decoded bundle worth attempting to open.
// Anything shorter is rejected before any crypto call runs.
const minSealedLen = constants.NonceSize + constants.TagSize

// NewTokenCipher constructs the AEAD for the configured algorithm. Key
// material problems are fatal startup conditions.
func NewTokenCipher(algorithm constants.CipherAlgorithm, km *KeyMaterial) (*TokenCipher, error) {
	if km == nil {
		return nil, errors.ErrCryptoUnavailable("key material not loaded")
	}

	var (
		aead cipher.AEAD
		err  error
	)
	switch algorithm {
	case constants.CipherAESGCM, "":
		var block cipher.Block
		block, err = aes.NewCipher(km.Key())
		if err == nil {
			aead, err = cipher.NewGCM(block)
		}
	case constants.CipherChaCha20Poly1305:
		aead, err = chacha20poly1305.New(km.Key())
	default:
		return nil, errors.ErrCryptoUnavailable(fmt.Sprintf("unsupported cipher algorithm %q", algorithm))
	}
	if err != nil {
		return nil, errors.ErrCryptoUnavailable(err.Error())
	}

	return &TokenCipher{aead: aead}, nil
}

// Seal encrypts the plaintext under a freshly generated nonce and returns the
// transport-encoded bundle.
func (c *TokenCipher) Seal(plaintext []byte) (string, error) {
	nonce := make([]byte, constants.NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.ErrCryptoUnavailable("nonce generation failed: " + err.Error())
	}

	bundle := make([]byte, 0, len(nonce)+len(plaintext)+c.aead.Overhead())
	bundle = append(bundle, nonce...)
	bundle = c.aead.Seal(bundle, nonce, plaintext, nil)

	return base64.RawURLEncoding.EncodeToString(bundle), nil
}

// Open decodes and decrypts a sealed bundle. Any defect, malformed encoding,
// truncation or tag mismatch, yields a malformed rejection; partially
// decrypted data is never returned.
func (c *TokenCipher) Open(encoded string) ([]byte, error) {
	bundle, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.ErrMalformed("invalid transport encoding").WithCause(err)
	}
	if len(bundle) < minSealedLen {
		return nil, errors.ErrMalformed("sealed bundle too short")
	}

	nonce := bundle[:constants.NonceSize]
	ciphertext := bundle[constants.NonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.ErrMalformed("authentication failed").WithCause(err)
	}
	return plaintext, nil
}
