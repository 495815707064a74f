package auth

import (
	"context"
	"strings"
	"time"
)

// BearerScheme is the accepted Authorization scheme.
const BearerScheme = "Bearer"

// Auther authenticates credentials and bearer tokens against the user store.
// Token verification goes through the TokenValidator surface, which the token
// service satisfies by default.
type Auther struct {
	provider  *UserProvider
	tokens    TokenService
	validator TokenValidator
	logger    Logger
	now       nowFunc
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(provider *UserProvider, tokens TokenService) *Auther {
	return &Auther{
		provider:  provider,
		tokens:    tokens,
		validator: tokens,
		logger:    defLogger{},
		now:       time.Now,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

// WithTokenValidator overrides how bearer tokens are verified, leaving token
// issuance on the configured TokenService.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	if validator != nil {
		s.validator = validator
	}
	return s
}

// WithClock overrides the wall clock used for the independent expiry check.
func (s *Auther) WithClock(now nowFunc) *Auther {
	s.now = now
	return s
}

// TokenService returns the TokenService instance used by this Auther
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password both surface as ErrInvalidCredentials; an unconfirmed
// account is rejected before any token is issued.
func (s *Auther) Login(ctx context.Context, email, password string) (string, *UserSummary, error) {
	user, err := s.provider.VerifyIdentity(ctx, email, password)
	if err != nil {
		if IsAuthError(err) {
			s.logger.Debug("login rejected", "email", NormalizeEmail(email))
			return "", nil, ErrInvalidCredentials
		}
		s.logger.Error("login verify identity error", "error", err)
		return "", nil, err
	}

	if !user.Confirmed {
		return "", nil, ErrAccountUnconfirmed
	}

	token, err := s.tokens.Generate(IdentityFromUser(user))
	if err != nil {
		s.logger.Error("login token generation error", "error", err)
		return "", nil, err
	}

	return token, user.Summary(), nil
}

// Authenticate runs the per-request state machine over a raw Authorization
// header: extract the bearer token, verify it, re-check expiry against the
// wall clock, load the current user and require a confirmed account. It
// returns the authenticated identity the wrapped handler consumes.
func (s *Auther) Authenticate(ctx context.Context, authorization string) (Identity, error) {
	raw, err := ExtractBearerToken(authorization)
	if err != nil {
		return nil, err
	}

	claims, err := s.validator.Validate(raw)
	if err != nil {
		return nil, err
	}

	// The token service already rejects expired tokens; decode paths that
	// skip that check must not slip through.
	if exp := claims.Expires(); !exp.IsZero() && s.now().After(exp) {
		return nil, ErrTokenExpired
	}

	user, err := s.provider.FindIdentityByID(ctx, claims.UserID())
	if err != nil {
		return nil, err
	}

	if !user.Confirmed {
		return nil, ErrAccountUnconfirmed
	}

	return IdentityFromUser(user), nil
}

// RequireAdmin composes on an accepted identity: non admin callers are
// rejected as forbidden.
func (s *Auther) RequireAdmin(identity Identity) error {
	if identity == nil || !identity.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

// ExtractBearerToken pulls the raw token out of an Authorization header,
// rejecting a missing header and anything not shaped `Bearer <token>`.
func ExtractBearerToken(authorization string) (string, error) {
	if authorization == "" {
		return "", ErrAuthHeaderMissing
	}

	if !strings.HasPrefix(authorization, BearerScheme+" ") {
		return "", ErrAuthHeaderMalformed
	}

	raw := strings.TrimSpace(strings.TrimPrefix(authorization, BearerScheme+" "))
	if raw == "" {
		return "", ErrAuthHeaderMalformed
	}

	return raw, nil
}
