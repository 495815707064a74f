package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// RegisterUserHandler runs the registration operation: validate and sanitize
// the payload, hash the password, persist the unconfirmed account, and make a
// single confirmation email delivery attempt.
type RegisterUserHandler struct {
	users           UserStore
	mailer          Mailer
	logger          Logger
	confirmationTTL time.Duration
	bcryptCost      int
}

// NewRegisterUserHandler wires a registration handler against a user store
// and a mailer.
func NewRegisterUserHandler(users UserStore, mailer Mailer) *RegisterUserHandler {
	return &RegisterUserHandler{
		users:           users,
		mailer:          mailer,
		logger:          defLogger{},
		confirmationTTL: DefaultConfirmationTTL,
		bcryptCost:      DefaultBcryptCost,
	}
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	h.logger = logger
	return h
}

// WithConfirmationTTL overrides the confirmation window.
func (h *RegisterUserHandler) WithConfirmationTTL(ttl time.Duration) *RegisterUserHandler {
	if ttl > 0 {
		h.confirmationTTL = ttl
	}
	return h
}

// WithBcryptCost overrides the hashing cost.
func (h *RegisterUserHandler) WithBcryptCost(cost int) *RegisterUserHandler {
	h.bcryptCost = cost
	return h
}

// Execute registers a new unconfirmed user. Validation failures return a
// *ValidationError listing every violation; duplicate email or CPF return a
// conflict error. The store's unique indexes are the authoritative uniqueness
// guard under concurrent submissions.
func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	if err := ValidateUserData(event).Err(); err != nil {
		return nil, err
	}

	hash, err := HashPasswordCost(event.Password, h.bcryptCost)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	now := time.Now()
	user := &User{
		Name:         SanitizeString(event.Name),
		Email:        NormalizeEmail(event.Email),
		PasswordHash: hash,
		CPF:          CleanCPF(event.CPF),
		BirthDate:    SanitizeString(event.BirthDate),
		Phone:        SanitizeString(event.Phone),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	token, err := GenerateConfirmationToken()
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to generate confirmation token")
	}
	user.BeginConfirmation(token, h.confirmationTTL)

	created, err := h.users.Create(ctx, user)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	// Registration is committed; a failed delivery is logged, never fatal,
	// and there is no retry.
	if err := h.mailer.SendConfirmation(ctx, created.Email, created.Name, token); err != nil {
		h.logger.Error("confirmation email delivery failed", "user", created.ID.Hex(), "error", err)
	}

	return created, nil
}
