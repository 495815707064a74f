package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/vendora/go-auth"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := auth.HashPasswordCost("Abcdefg1", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "Abcdefg1", hash)

	assert.NoError(t, auth.ComparePasswordAndHash("Abcdefg1", hash))

	err = auth.ComparePasswordAndHash("Abcdefg2", hash)
	assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := auth.HashPasswordCost("", bcrypt.MinCost)
	assert.ErrorIs(t, err, auth.ErrNoEmptyString)
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := auth.HashPasswordCost("Abcdefg1", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := auth.HashPasswordCost("Abcdefg1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestComparePasswordAndHashGarbageHash(t *testing.T) {
	err := auth.ComparePasswordAndHash("Abcdefg1", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
}

func TestRandomPasswordHash(t *testing.T) {
	h := auth.RandomPasswordHash()
	assert.NotEmpty(t, h)
	assert.NotEqual(t, h, auth.RandomPasswordHash())
}
