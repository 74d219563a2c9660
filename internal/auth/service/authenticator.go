package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	authDomain "github.com/allisson/codepool/internal/auth/domain"
)

// roleHash binds a configured key hash to the role it grants.
type roleHash struct {
	role authDomain.Role
	hash string
}

// apiKeyAuthenticator verifies presented keys against the configured hashes. Argon2id is
// slow on purpose, so successful verifications are remembered by the SHA-256 digest of the
// presented key. Failures are never cached.
type apiKeyAuthenticator struct {
	keys     APIKeyService
	roles    []roleHash
	verified sync.Map // map[string]authDomain.Role (sha256 hex -> role)
}

// NewAuthenticator creates an Authenticator for the admin and storefront key hashes.
// An empty hash disables that role.
func NewAuthenticator(keys APIKeyService, adminKeyHash, storefrontKeyHash string) Authenticator {
	a := &apiKeyAuthenticator{keys: keys}
	if adminKeyHash != "" {
		a.roles = append(a.roles, roleHash{role: authDomain.RoleAdmin, hash: adminKeyHash})
	}
	if storefrontKeyHash != "" {
		a.roles = append(a.roles, roleHash{role: authDomain.RoleStorefront, hash: storefrontKeyHash})
	}
	return a
}

// Authenticate returns the role for plainKey.
func (a *apiKeyAuthenticator) Authenticate(ctx context.Context, plainKey string) (authDomain.Role, error) {
	if plainKey == "" {
		return "", authDomain.ErrInvalidAPIKey
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	digest := digestKey(plainKey)
	if val, ok := a.verified.Load(digest); ok {
		return val.(authDomain.Role), nil
	}

	for _, rh := range a.roles {
		if a.keys.CompareAPIKey(plainKey, rh.hash) {
			a.verified.Store(digest, rh.role)
			return rh.role, nil
		}
	}

	return "", authDomain.ErrInvalidAPIKey
}

func digestKey(plainKey string) string {
	sum := sha256.Sum256([]byte(plainKey))
	return hex.EncodeToString(sum[:])
}
