package autherrors

import (
	"net/http"

	"leavedesk/internal/shared/apperror"
)

var (
	// Unknown email and wrong password are deliberately the same error, so a
	// caller cannot probe which field was wrong.
	ErrInvalidCredentials = apperror.New(
		apperror.CodeAuthFailed,
		"Invalid email or password",
		http.StatusUnauthorized,
	)
	ErrMissingToken = apperror.New(
		apperror.CodeAuthFailed,
		"No token provided",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeInvalidToken,
		"Token is invalid",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeTokenExpired,
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrIdentityGone = apperror.New(
		apperror.CodeAuthFailed,
		"User no longer exists",
		http.StatusUnauthorized,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeInvalidInput,
		"User with this email already exists",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		`Invalid role. Role must be either "admin" or "employee"`,
		http.StatusBadRequest,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Could not generate token",
		http.StatusInternalServerError,
	)
)
