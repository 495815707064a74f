package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/vendora/go-auth"
)

var testSigningKey = []byte("test-signing-key-0123456789")

type testIdentity struct {
	id    string
	name  string
	email string
	admin bool
}

func (i testIdentity) ID() string    { return i.id }
func (i testIdentity) Name() string  { return i.name }
func (i testIdentity) Email() string { return i.email }
func (i testIdentity) IsAdmin() bool { return i.admin }

func TestTokenServiceGenerateValidateRoundTrip(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour, "vendora", nil)

	identity := testIdentity{
		id:    "64f1c0ffee0000000000cafe",
		name:  "Maria Silva",
		email: "maria@example.com",
		admin: true,
	}

	token, err := ts.Generate(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, identity.id, claims.Subject())
	assert.Equal(t, identity.id, claims.UserID())
	assert.Equal(t, "Maria Silva", claims.DisplayName())
	assert.Equal(t, "maria@example.com", claims.Email())
	assert.True(t, claims.IsAdmin())
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.Expires(), time.Minute)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt(), time.Minute)
}

func TestTokenServiceValidateExpired(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour, "vendora", nil)

	past := time.Now().Add(-2 * time.Hour)
	token, err := ts.SignClaims(&auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "vendora",
			Subject:   "64f1c0ffee0000000000cafe",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
	assert.True(t, auth.IsTokenExpiredError(err))
}

func TestTokenServiceValidateWallClockExpiry(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour, "vendora", nil)

	token, err := ts.Generate(testIdentity{id: "64f1c0ffee0000000000cafe"})
	require.NoError(t, err)

	// Advance only the service clock past the token's lifetime; the jwt
	// library check uses real time, so this exercises the second check.
	ts.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })

	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokenServiceValidateExpiredAndWrongKey(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour, "vendora", nil)
	other := auth.NewTokenService([]byte("a-completely-different-key"), time.Hour, "vendora", nil)

	past := time.Now().Add(-2 * time.Hour)
	token, err := other.SignClaims(&auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "vendora",
			Subject:   "64f1c0ffee0000000000cafe",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	// A forged token that also happens to be expired is a signature failure,
	// never an expiry.
	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	assert.False(t, auth.IsTokenExpiredError(err))
}

func TestTokenServiceValidateWrongKey(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour, "vendora", nil)
	other := auth.NewTokenService([]byte("a-completely-different-key"), time.Hour, "vendora", nil)

	token, err := other.Generate(testIdentity{id: "64f1c0ffee0000000000cafe"})
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestTokenServiceValidateTampered(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour, "vendora", nil)

	token, err := ts.Generate(testIdentity{id: "64f1c0ffee0000000000cafe"})
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "zzzz"
	_, err = ts.Validate(tampered)
	assert.Error(t, err)
}

func TestTokenServiceValidateGarbage(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour, "vendora", nil)

	for _, tc := range []string{"", "not-a-token", "aaa.bbb"} {
		_, err := ts.Validate(tc)
		require.Error(t, err, tc)
		assert.True(t, auth.IsMalformedError(err), "expected malformed error for %q, got %v", tc, err)
	}
}

func TestTokenServiceValidateWrongIssuer(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour, "vendora", nil)
	other := auth.NewTokenService(testSigningKey, time.Hour, "someone-else", nil)

	token, err := other.Generate(testIdentity{id: "64f1c0ffee0000000000cafe"})
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.Error(t, err)
}

func TestTokenServiceGenerateAssignsTokenID(t *testing.T) {
	ts := auth.NewTokenService(testSigningKey, time.Hour, "vendora", nil)

	token, err := ts.Generate(testIdentity{id: "64f1c0ffee0000000000cafe"})
	require.NoError(t, err)

	claims, err := ts.Validate(token)
	require.NoError(t, err)

	jc, ok := claims.(*auth.JWTClaims)
	require.True(t, ok)
	assert.NotEmpty(t, jc.RegisteredClaims.ID)
}
