package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/vendora/go-auth"
)

func seedPendingUser(t *testing.T, store *memoryUserStore, token string, ttl time.Duration) *auth.User {
	t.Helper()

	user := &auth.User{
		Name:  "Maria Silva",
		Email: "maria@example.com",
		CPF:   "52998224725",
	}
	user.BeginConfirmation(token, ttl)
	return store.add(user)
}

func TestConfirmAccountSuccess(t *testing.T) {
	store := newMemoryUserStore()
	handler := auth.NewConfirmAccountHandler(store)

	seedPendingUser(t, store, "tok-alpha", auth.DefaultConfirmationTTL)

	user, err := handler.Execute(context.Background(), "tok-alpha")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.True(t, user.Confirmed)
	assert.Empty(t, user.ConfirmationToken)
	assert.Nil(t, user.ConfirmationExpires)
	assert.Equal(t, "tok-alpha", user.ConsumedToken)
}

func TestConfirmAccountIsIdempotent(t *testing.T) {
	store := newMemoryUserStore()
	handler := auth.NewConfirmAccountHandler(store)

	seedPendingUser(t, store, "tok-alpha", auth.DefaultConfirmationTTL)

	first, err := handler.Execute(context.Background(), "tok-alpha")
	require.NoError(t, err)
	require.True(t, first.Confirmed)

	// Confirming again with the consumed token succeeds without error.
	second, err := handler.Execute(context.Background(), "tok-alpha")
	require.NoError(t, err)
	assert.True(t, second.Confirmed)
	assert.Equal(t, first.ID, second.ID)
}

func TestConfirmAccountUnknownToken(t *testing.T) {
	store := newMemoryUserStore()
	handler := auth.NewConfirmAccountHandler(store)

	seedPendingUser(t, store, "tok-alpha", auth.DefaultConfirmationTTL)

	_, err := handler.Execute(context.Background(), "tok-other")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrConfirmationNotFound)
	assert.True(t, auth.IsNotFoundError(err))
}

func TestConfirmAccountExpiredToken(t *testing.T) {
	store := newMemoryUserStore()
	handler := auth.NewConfirmAccountHandler(store).
		WithClock(func() time.Time { return time.Now().Add(48 * time.Hour) })

	seeded := seedPendingUser(t, store, "tok-alpha", auth.DefaultConfirmationTTL)

	_, err := handler.Execute(context.Background(), "tok-alpha")
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrConfirmationExpired)

	// The failure leaves the pending state untouched: still unconfirmed,
	// token still in place.
	stored, err := store.GetByConfirmationToken(context.Background(), "tok-alpha")
	require.NoError(t, err)
	assert.False(t, stored.Confirmed)
	assert.Equal(t, "tok-alpha", stored.ConfirmationToken)
	assert.Equal(t, seeded.ID, stored.ID)
}

func TestConfirmAccountEmptyToken(t *testing.T) {
	store := newMemoryUserStore()
	handler := auth.NewConfirmAccountHandler(store)

	_, err := handler.Execute(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 400, auth.HTTPStatus(err))
}

func TestConfirmAccountCancelledContext(t *testing.T) {
	store := newMemoryUserStore()
	handler := auth.NewConfirmAccountHandler(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handler.Execute(ctx, "tok-alpha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context cancelled during account confirmation")
}
