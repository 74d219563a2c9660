package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/codepool/internal/errors"
)

// apiKeyService implements APIKeyService using Argon2id for key hashing.
type apiKeyService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateAPIKey creates a new cryptographically secure 32-byte random key.
func (s *apiKeyService) GenerateAPIKey() (string, string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random api key")
	}

	plainKey := base64.URLEncoding.EncodeToString(randomBytes)

	hashedKey, err := s.HashAPIKey(plainKey)
	if err != nil {
		return "", "", err
	}

	return plainKey, hashedKey, nil
}

// HashAPIKey hashes a plain key using Argon2id.
func (s *apiKeyService) HashAPIKey(plainKey string) (string, error) {
	hashedKey, err := s.hasher.Hash([]byte(plainKey))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash api key")
	}
	return hashedKey, nil
}

// CompareAPIKey performs a constant-time comparison between a plain key and its hash.
func (s *apiKeyService) CompareAPIKey(plainKey string, hashedKey string) bool {
	if hashedKey == "" {
		return false
	}
	ok, err := s.hasher.Verify([]byte(plainKey), hashedKey)
	if err != nil {
		return false
	}
	return ok
}

// NewAPIKeyService creates a new APIKeyService using the Moderate Argon2id policy.
func NewAPIKeyService() APIKeyService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &apiKeyService{
		hasher: hasher,
	}
}
