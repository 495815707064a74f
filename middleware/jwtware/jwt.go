// Package jwtware adapts the auth core's request state machine to fiber
// middleware: extract the bearer token, verify it, load the current user and
// populate the authenticated identity for the wrapped handler.
package jwtware

import (
	"context"

	"github.com/gofiber/fiber/v2"

	auth "github.com/vendora/go-auth"
)

// Authenticator runs the full per-request authentication state machine.
// It mirrors Auther.Authenticate from the auth package.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (auth.Identity, error)
}

// Config configures the middleware.
type Config struct {
	// Auther is required.
	Auther Authenticator
	// Filter skips the middleware when it returns true.
	Filter func(*fiber.Ctx) bool
	// ContextKey is the fiber locals key for the identity. Defaults to
	// auth.IdentityContextKey.
	ContextKey string
	// ErrorHandler shapes rejections. Defaults to a JSON body with the
	// mapped status.
	ErrorHandler func(*fiber.Ctx, error) error
}

// New returns middleware that rejects unauthenticated, unconfirmed or
// deleted callers and stores the identity in the request locals.
func New(config Config) fiber.Handler {
	cfg := withDefaults(config)

	return func(ctx *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(ctx) {
			return ctx.Next()
		}

		identity, err := cfg.Auther.Authenticate(ctx.Context(), ctx.Get(fiber.HeaderAuthorization))
		if err != nil {
			return cfg.ErrorHandler(ctx, err)
		}

		ctx.Locals(cfg.ContextKey, identity)
		ctx.SetUserContext(auth.WithIdentity(ctx.UserContext(), identity))

		return ctx.Next()
	}
}

// RequireAdmin composes on New: it rejects callers whose identity does not
// carry the admin flag. Mount it after the authentication middleware.
func RequireAdmin(config ...Config) fiber.Handler {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg = withDefaults(cfg)

	return func(ctx *fiber.Ctx) error {
		identity, ok := ctx.Locals(cfg.ContextKey).(auth.Identity)
		if !ok {
			return cfg.ErrorHandler(ctx, auth.ErrAuthHeaderMissing)
		}

		if !identity.IsAdmin() {
			return cfg.ErrorHandler(ctx, auth.ErrAdminRequired)
		}

		return ctx.Next()
	}
}

func withDefaults(cfg Config) Config {
	if cfg.ContextKey == "" {
		cfg.ContextKey = auth.IdentityContextKey
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}
	return cfg
}

func defaultErrorHandler(ctx *fiber.Ctx, err error) error {
	status := auth.HTTPStatus(err)
	return ctx.Status(status).JSON(fiber.Map{
		"message": err.Error(),
		"status":  status,
	})
}
