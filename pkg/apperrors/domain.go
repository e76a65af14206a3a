package apperrors

import "net/http"

// Auth sentinels. Several of them deliberately collapse multiple underlying
// causes into one message: login failures never reveal whether the email
// exists, is unconfirmed or is disabled, and token failures never reveal
// whether a token was wrong, already used or expired.
var (
	ErrInvalidCredentials = New(CodeInvalidCredentials, "auth",
		"Invalid email or password", http.StatusUnauthorized)

	ErrInvalidToken = New(CodeInvalidToken, "auth",
		"Invalid or expired token", http.StatusBadRequest)

	ErrEmailAlreadyExists = New(CodeAlreadyExists, "auth",
		"An account with this email already exists", http.StatusConflict)

	ErrRateLimited = New(CodeRateLimited, "ratelimit",
		"Too many attempts. Please try again later", http.StatusTooManyRequests)

	ErrUserNotFound = New(CodeNotFound, "user",
		"User not found", http.StatusNotFound)
)
