package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// ConfirmAccountHandler consumes a confirmation token and transitions the
// owning user from unconfirmed to confirmed exactly once.
type ConfirmAccountHandler struct {
	users  UserStore
	logger Logger
	now    nowFunc
}

// NewConfirmAccountHandler wires a confirmation handler against a user store.
func NewConfirmAccountHandler(users UserStore) *ConfirmAccountHandler {
	return &ConfirmAccountHandler{
		users:  users,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (h *ConfirmAccountHandler) WithLogger(logger Logger) *ConfirmAccountHandler {
	h.logger = logger
	return h
}

// WithClock overrides the wall clock, used by tests to reach expiry paths.
func (h *ConfirmAccountHandler) WithClock(now nowFunc) *ConfirmAccountHandler {
	h.now = now
	return h
}

// Execute resolves a confirmation token. Unknown tokens fail NotFound; an
// already confirmed account succeeds idempotently; an expired window fails
// and leaves the pending token in place. On success the confirmed flag,
// token and expiry change as one atomic store update.
func (h *ConfirmAccountHandler) Execute(ctx context.Context, token string) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account confirmation",
		)
	default:
		return h.execute(ctx, token)
	}
}

func (h *ConfirmAccountHandler) execute(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, goerrors.New("confirmation token is required", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest)
	}

	user, err := h.users.GetByConfirmationToken(ctx, token)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, ErrConfirmationNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not look up confirmation token")
	}

	// The token already did its work; confirming again is a no-op.
	if user.Confirmed {
		return user, nil
	}

	if user.ConfirmationExpired(h.now()) {
		return nil, ErrConfirmationExpired
	}

	confirmed, err := h.users.Confirm(ctx, user.ID.Hex(), token)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not confirm user account")
	}

	h.logger.Info("user account confirmed", "user", confirmed.ID.Hex())

	return confirmed, nil
}
