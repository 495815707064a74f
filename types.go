package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Name() string
	Email() string
	IsAdmin() bool
}

// TokenService issues and verifies bearer tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// UserStore is the document store surface the core needs for users.
// Uniqueness of email and CPF is enforced by the store's unique indexes;
// any pre-check a store performs only improves the error message.
type UserStore interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByConfirmationToken matches pending tokens as well as tokens already
	// consumed by a successful confirmation, so confirm stays idempotent.
	GetByConfirmationToken(ctx context.Context, token string) (*User, error)
	// Confirm flips the user to confirmed, records the consumed token and
	// clears the pending token and expiry in a single update.
	Confirm(ctx context.Context, id, token string) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// ProductStore is the document store surface for the product catalog.
type ProductStore interface {
	Create(ctx context.Context, product *Product) (*Product, error)
	List(ctx context.Context, page, size int) ([]*Product, error)
}

// Mailer sends the confirmation email. Implementations make at most one
// delivery attempt; callers treat failures as non fatal.
type Mailer interface {
	SendConfirmation(ctx context.Context, to, name, token string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}

// nowFunc lets tests pin the clock.
type nowFunc func() time.Time
