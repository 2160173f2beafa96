package auth

import (
	"errors"
	"net/http"

	apperrors "github.com/spec-kit/article-service/pkg/util/errorutil"
)

// Auth failures surfaced to the HTTP boundary. Internal causes are wrapped
// behind ErrHashing and ErrTokenCreation and never rendered to clients.
var (
	ErrMissingCredentials   = apperrors.NewDomainError("MISSING_CREDENTIALS", "missing authorization header", http.StatusUnauthorized, nil)
	ErrMalformedCredentials = apperrors.NewDomainError("MALFORMED_CREDENTIALS", "invalid authorization header", http.StatusUnauthorized, nil)
	ErrAuthentication       = apperrors.NewDomainError("UNAUTHENTICATED", "invalid or expired token", http.StatusUnauthorized, nil)
	ErrAuthorization        = apperrors.NewDomainError("FORBIDDEN", "insufficient role", http.StatusForbidden, nil)
	ErrInvalidCredentials   = apperrors.NewDomainError("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized, nil)
	ErrDuplicateEmail       = apperrors.NewDomainError("EMAIL_TAKEN", "email already registered", http.StatusConflict, nil)
	ErrTooManyAttempts      = apperrors.NewDomainError("TOO_MANY_ATTEMPTS", "too many failed login attempts", http.StatusTooManyRequests, nil)
	ErrHashing              = apperrors.NewDomainError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError, nil)
	ErrTokenCreation        = apperrors.NewDomainError("INTERNAL_ERROR", "internal server error", http.StatusInternalServerError, nil)
)

// ErrTokenInvalid is returned by TokenManager.Validate for every rejected token.
// Expired, forged and malformed tokens are not distinguished.
var ErrTokenInvalid = errors.New("token invalid")
