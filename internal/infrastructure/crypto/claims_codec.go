package crypto

import (
	"bytes"
	"encoding/json"

	"github.com/linegroup/authcore/internal/domain/models"
	"github.com/linegroup/authcore/pkg/errors"
)

// ClaimsCodec maps a ClaimSet to and from the byte sequence handed to the
// cipher. Encoding is canonical JSON: fields are emitted in struct order and
// authorities are normalized at construction, so identical claims always
// encode identically. That determinism matters for testing, not security.
type ClaimsCodec struct{}

// NewClaimsCodec returns the codec. It is stateless and safe for concurrent
// use.
func NewClaimsCodec() *ClaimsCodec {
	return &ClaimsCodec{}
}

// Encode serializes the claim set.
func (ClaimsCodec) Encode(claims *models.ClaimSet) ([]byte, error) {
	if err := claims.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return nil, errors.ErrMalformed("claims encoding failed").WithCause(err)
	}
	return data, nil
}

// Decode deserializes and structurally validates a claim set. Absent required
// fields are rejected; unknown extra fields are ignored so that tokens from a
// newer writer still verify (forward-compatible decoding).
func (ClaimsCodec) Decode(data []byte) (*models.ClaimSet, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var claims models.ClaimSet
	if err := dec.Decode(&claims); err != nil {
		return nil, errors.ErrMalformed("claims decoding failed").WithCause(err)
	}
	if err := claims.Validate(); err != nil {
		return nil, err
	}
	return &claims, nil
}
