// Package service provides API key generation, hashing and verification.
//
// Keys are random 32-byte values shown once to the operator. Only their Argon2id hashes
// are kept in configuration.
package service

import (
	"context"

	authDomain "github.com/allisson/codepool/internal/auth/domain"
)

// APIKeyService defines operations for API key generation and validation.
type APIKeyService interface {
	// GenerateAPIKey creates a new random key. Returns the plain key (to be handed to the
	// caller once) and its hash (to be stored in configuration).
	GenerateAPIKey() (plainKey string, hashedKey string, err error)

	// HashAPIKey hashes a plain key using Argon2id.
	HashAPIKey(plainKey string) (hashedKey string, err error)

	// CompareAPIKey reports whether plainKey matches hashedKey in constant time.
	CompareAPIKey(plainKey string, hashedKey string) bool
}

// Authenticator resolves a presented API key to the role it grants.
type Authenticator interface {
	// Authenticate returns the role bound to plainKey or authDomain.ErrInvalidAPIKey.
	Authenticate(ctx context.Context, plainKey string) (authDomain.Role, error)
}
