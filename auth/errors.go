package auth

import "errors"

// Signup errors
var (
	ErrWeakPassword          = errors.New("weak-password")
	ErrInvalidUsernameFormat = errors.New("invalid-username-format")
)

// Login errors
var (
	ErrIncorrectPassword = errors.New("incorrect-password")
	ErrAlreadyLoggedIn   = errors.New("already-logged-in")
)
