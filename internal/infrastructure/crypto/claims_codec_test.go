package crypto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linegroup/authcore/internal/domain/models"
	"github.com/linegroup/authcore/internal/infrastructure/crypto"
	"github.com/linegroup/authcore/pkg/errors"
)

func testClaims(t *testing.T) *models.ClaimSet {
	t.Helper()
	return models.NewClaimSet("42", []string{"ADMIN", "USER"}, "fp-digest",
		"authcore", "backend", time.Now(), 15*time.Minute)
}

func TestClaimsCodec_RoundTrip(t *testing.T) {
	codec := crypto.NewClaimsCodec()
	claims := testClaims(t)

	data, err := codec.Encode(claims)
	require.NoError(t, err)

	decoded, err := codec.Decode(data)
	require.NoError(t, err)

	assert.Equal(t, claims.ID, decoded.ID)
	assert.Equal(t, claims.Subject, decoded.Subject)
	assert.Equal(t, claims.Authorities, decoded.Authorities)
	assert.Equal(t, claims.Fingerprint, decoded.Fingerprint)
	assert.Equal(t, claims.TokenType, decoded.TokenType)
	assert.True(t, claims.ExpiresAt.Equal(decoded.ExpiresAt.Time))
	assert.True(t, claims.IssuedAt.Equal(decoded.IssuedAt.Time))
}

func TestClaimsCodec_EncodeIsDeterministic(t *testing.T) {
	codec := crypto.NewClaimsCodec()
	claims := testClaims(t)

	first, err := codec.Encode(claims)
	require.NoError(t, err)
	second, err := codec.Encode(claims)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClaimsCodec_DecodeRejectsMissingFields(t *testing.T) {
	codec := crypto.NewClaimsCodec()

	cases := map[string]string{
		"empty object":   `{}`,
		"no subject":     `{"jti":"abc","iat":1700000000,"nbf":1700000000,"exp":1700000900,"fp":"d","typ":"access"}`,
		"no jti":         `{"sub":"42","iat":1700000000,"nbf":1700000000,"exp":1700000900,"fp":"d","typ":"access"}`,
		"no expiry":      `{"jti":"abc","sub":"42","iat":1700000000,"nbf":1700000000,"fp":"d","typ":"access"}`,
		"no fingerprint": `{"jti":"abc","sub":"42","iat":1700000000,"nbf":1700000000,"exp":1700000900,"typ":"access"}`,
		"wrong type":     `{"jti":"abc","sub":"42","iat":1700000000,"nbf":1700000000,"exp":1700000900,"fp":"d","typ":"refresh"}`,
		"not json":       `"just a string"`,
		"garbage":        `{]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := codec.Decode([]byte(payload))
			require.Error(t, err)
			reason, ok := errors.ReasonOf(err)
			require.True(t, ok)
			assert.Equal(t, errors.ReasonMalformed, reason)
		})
	}
}

func TestClaimsCodec_DecodeIgnoresUnknownFields(t *testing.T) {
	codec := crypto.NewClaimsCodec()

	payload := `{"jti":"abc","sub":"42","iat":1700000000,"nbf":1700000000,` +
		`"exp":1700000900,"fp":"d","typ":"access","authorities":["USER"],` +
		`"future_claim":"ignored","nested":{"also":"ignored"}}`

	decoded, err := codec.Decode([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, "42", decoded.Subject)
	assert.Equal(t, []string{"USER"}, decoded.Authorities)
}
