package domain

import "errors"

var (
	// ErrUnknownSubject is returned when a subject key is not in the catalog.
	ErrUnknownSubject = errors.New("subject not found")
	// ErrInvalidSubmission indicates scoring input that cannot be graded.
	ErrInvalidSubmission = errors.New("invalid quiz submission")
	// ErrValidation marks malformed request fields.
	ErrValidation = errors.New("invalid request")
	// ErrDuplicateEmail is returned when an email is already registered (case-insensitive).
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound indicates the account does not exist.
	ErrUserNotFound = errors.New("user not found")
	ErrMissingToken = errors.New("access token required")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	// ErrBackendUnavailable is absorbed by the fallback path and only logged.
	ErrBackendUnavailable = errors.New("generation backend unavailable")
	// ErrQuizNotFound means an answer key was never stored, already consumed or expired.
	ErrQuizNotFound = errors.New("quiz not found")
)
