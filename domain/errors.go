package domain

import "errors"

var (
	ErrPlayerNotFound   = errors.New("player-not-found")
	ErrAdminNotFound    = errors.New("admin-not-found")
	ErrCategoryNotFound = errors.New("category-not-found")
	ErrDuplicateName    = errors.New("duplicate-name")

	// ErrUnexpectedDatabase wraps storage failures that are neither a known
	// constraint violation nor a caller cancellation.
	ErrUnexpectedDatabase = errors.New("unexpected-database-error")
)

// Token errors surfaced by the JWT manager.
var (
	ErrInvalidSigningAlg     = errors.New("invalid-signing-alg")
	ErrExpiredToken          = errors.New("expired-token")
	ErrInvalidTokenSignature = errors.New("invalid-token-signature")
	ErrCorruptedToken        = errors.New("corrupted-token")

	ErrUnexpectedTokenGeneration   = errors.New("unexpected-token-generation-error")
	ErrUnexpectedTokenVerification = errors.New("unexpected-token-verification-error")
)
