package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes surfaced to API clients alongside the HTTP status.
const (
	TextCodeInvalidCreds        = "INVALID_CREDENTIALS"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeTokenMalformed      = "TOKEN_MALFORMED"
	TextCodeTokenInvalid        = "TOKEN_INVALID"
	TextCodeHeaderMissing       = "AUTH_HEADER_MISSING"
	TextCodeHeaderMalformed     = "AUTH_HEADER_MALFORMED"
	TextCodeUnconfirmed         = "ACCOUNT_UNCONFIRMED"
	TextCodeAdminRequired       = "ADMIN_REQUIRED"
	TextCodeIdentityNotFound    = "IDENTITY_NOT_FOUND"
	TextCodeConfirmationExpired = "CONFIRMATION_EXPIRED"
	TextCodeConfirmationUnknown = "CONFIRMATION_NOT_FOUND"
	TextCodeEmailTaken          = "EMAIL_TAKEN"
	TextCodeCPFTaken            = "CPF_TAKEN"
	TextCodeTitleTaken          = "TITLE_TAKEN"
)

// ErrMismatchedHashAndPassword is returned by the credential codec when a
// password does not match its stored hash. It deliberately shares the
// invalid-credentials text code so callers cannot tell a bad password from
// an unknown email.
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidCredentials is the single error login reports for unknown email
// and wrong password alike.
var ErrInvalidCredentials = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when a bearer token is past its expiry.
var ErrTokenExpired = goerrors.New("authentication token has expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned when a bearer token cannot be decoded at all.
var ErrTokenMalformed = goerrors.New("authentication token is malformed", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenInvalid is returned when a token decodes but its signature does not
// verify against the process signing key.
var ErrTokenInvalid = goerrors.New("authentication token signature is invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(goerrors.CodeUnauthorized)

// ErrAuthHeaderMissing is returned when no Authorization header was sent.
var ErrAuthHeaderMissing = goerrors.New("authorization header missing", goerrors.CategoryAuth).
	WithTextCode(TextCodeHeaderMissing).
	WithCode(goerrors.CodeUnauthorized)

// ErrAuthHeaderMalformed is returned when the header is not `Bearer <token>`.
var ErrAuthHeaderMalformed = goerrors.New("invalid authorization header format", goerrors.CategoryAuth).
	WithTextCode(TextCodeHeaderMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountUnconfirmed rejects callers that never confirmed their email.
var ErrAccountUnconfirmed = goerrors.New("user account not confirmed", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnconfirmed).
	WithCode(goerrors.CodeUnauthorized)

// ErrAdminRequired rejects authenticated but non admin callers.
var ErrAdminRequired = goerrors.New("admin privileges required", goerrors.CategoryAuth).
	WithTextCode(TextCodeAdminRequired).
	WithCode(goerrors.CodeForbidden)

// ErrIdentityNotFound is returned when a token references a user that no
// longer exists.
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrConfirmationNotFound is returned when no user ever held the token.
var ErrConfirmationNotFound = goerrors.New("unknown confirmation token", goerrors.CategoryNotFound).
	WithTextCode(TextCodeConfirmationUnknown).
	WithCode(goerrors.CodeNotFound)

// ErrConfirmationExpired is returned when the confirmation window has closed.
// The pending token is left in place; no silent regeneration.
var ErrConfirmationExpired = goerrors.New("confirmation token has expired", goerrors.CategoryValidation).
	WithTextCode(TextCodeConfirmationExpired).
	WithCode(goerrors.CodeBadRequest)

// ErrEmailTaken reports the email uniqueness constraint.
var ErrEmailTaken = goerrors.New("email address is already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailTaken).
	WithCode(goerrors.CodeConflict)

// ErrCPFTaken reports the CPF uniqueness constraint.
var ErrCPFTaken = goerrors.New("CPF is already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeCPFTaken).
	WithCode(goerrors.CodeConflict)

// ErrTitleTaken reports the product title uniqueness constraint.
var ErrTitleTaken = goerrors.New("product title already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeTitleTaken).
	WithCode(goerrors.CodeConflict)

// ErrNoEmptyString guards hashing of empty passwords.
var ErrNoEmptyString = goerrors.New("value must not be an empty string", goerrors.CategoryValidation).
	WithTextCode("EMPTY_STRING").
	WithCode(goerrors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeTokenExpired {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for undecodable tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeTokenMalformed {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsConflictError reports uniqueness violations on email, CPF or title.
func IsConflictError(err error) bool {
	var richErr *goerrors.Error
	return goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryConflict
}

// IsNotFoundError reports unknown token, user or resource failures.
func IsNotFoundError(err error) bool {
	var richErr *goerrors.Error
	return goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryNotFound
}

// IsAuthError reports any authentication rejection.
func IsAuthError(err error) bool {
	var richErr *goerrors.Error
	return goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryAuth
}

// HTTPStatus maps an error to the status the routing layer should answer
// with. Internal and store failures stay opaque 500s.
func HTTPStatus(err error) int {
	if err == nil {
		return 200
	}

	var vErr *ValidationError
	if goerrors.As(err, &vErr) {
		return 400
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return 500
	}

	switch richErr.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return 400
	case goerrors.CategoryAuth:
		if richErr.TextCode == TextCodeAdminRequired {
			return 403
		}
		return 401
	case goerrors.CategoryNotFound:
		return 404
	case goerrors.CategoryConflict:
		return 409
	default:
		return 500
	}
}
