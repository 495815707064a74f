package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// UserProvider verifies credentials against the user store. Lookup failures
// and password mismatches collapse into the same error so callers can never
// tell whether an email exists.
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(logger Logger) *UserProvider {
	u.logger = logger
	return u
}

// VerifyIdentity will find the user by normalized email, compare the
// password, record the login timestamp and return the user.
func (u *UserProvider) VerifyIdentity(ctx context.Context, email, password string) (*User, error) {
	user, err := u.store.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrMismatchedHashAndPassword
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login", "error", err)
	}

	return user, nil
}

// FindIdentityByID loads a user by the id carried in token claims.
func (u *UserProvider) FindIdentityByID(ctx context.Context, id string) (*User, error) {
	user, err := u.store.GetByID(ctx, id)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user by id")
	}
	return user, nil
}
