package domain

import "errors"

var (
	// ErrNotSignedIn is returned when an operation requires a stored
	// session and none is present.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrSessionExpired is returned when the backend rejects the bearer
	// token (401). Callers route back to the sign-in entry point.
	ErrSessionExpired = errors.New("session expired")

	ErrProfileNotFound      = errors.New("profile not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEventNotFound        = errors.New("event not found")

	// ErrInvalidInput covers local precondition failures that block an
	// action before any network call.
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmptyMessage     = errors.New("message is empty")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrAccountExists    = errors.New("an account with this email already exists")
	ErrEventFull        = errors.New("event is at capacity")

	// ErrStepOrder is returned when a signup wizard step is saved while an
	// earlier step's fields are still missing.
	ErrStepOrder = errors.New("earlier signup steps are incomplete")
)
