package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/vendora/go-auth"
)

func TestGenerateConfirmationToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 32; i++ {
		token, err := auth.GenerateConfirmationToken()
		require.NoError(t, err)
		assert.Len(t, token, 64)
		assert.Regexp(t, "^[0-9a-f]+$", token)
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := auth.IdentityFromContext(ctx)
	assert.False(t, ok)

	identity := testIdentity{id: "u1", email: "maria@example.com"}
	ctx = auth.WithIdentity(ctx, identity)

	got, ok := auth.IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", got.ID())
	assert.Equal(t, "maria@example.com", got.Email())
}
