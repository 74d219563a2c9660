package service

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/codepool/internal/auth/domain"
)

func TestNewAPIKeyService(t *testing.T) {
	service := NewAPIKeyService()
	assert.NotNil(t, service)
	assert.IsType(t, &apiKeyService{}, service)
}

func TestAPIKeyService_GenerateAPIKey(t *testing.T) {
	service := NewAPIKeyService()

	t.Run("Success_GeneratesValidKey", func(t *testing.T) {
		plainKey, hashedKey, err := service.GenerateAPIKey()
		require.NoError(t, err)

		decoded, err := base64.URLEncoding.DecodeString(plainKey)
		require.NoError(t, err)
		assert.Len(t, decoded, 32)

		assert.NotEqual(t, plainKey, hashedKey)
		assert.Contains(t, hashedKey, "$argon2id$")
		assert.True(t, service.CompareAPIKey(plainKey, hashedKey))
	})

	t.Run("Success_GeneratesUniqueKeys", func(t *testing.T) {
		plainKey1, _, err := service.GenerateAPIKey()
		require.NoError(t, err)
		plainKey2, _, err := service.GenerateAPIKey()
		require.NoError(t, err)

		assert.NotEqual(t, plainKey1, plainKey2)
	})
}

func TestAPIKeyService_CompareAPIKey(t *testing.T) {
	service := NewAPIKeyService()
	hashedKey, err := service.HashAPIKey("storefront-key")
	require.NoError(t, err)

	assert.True(t, service.CompareAPIKey("storefront-key", hashedKey))
	assert.False(t, service.CompareAPIKey("wrong-key", hashedKey))
	assert.False(t, service.CompareAPIKey("storefront-key", ""))
	assert.False(t, service.CompareAPIKey("storefront-key", "not-a-phc-string"))
}

func TestAuthenticator_Authenticate(t *testing.T) {
	service := NewAPIKeyService()
	adminKey, adminHash, err := service.GenerateAPIKey()
	require.NoError(t, err)
	storefrontKey, storefrontHash, err := service.GenerateAPIKey()
	require.NoError(t, err)

	authenticator := NewAuthenticator(service, adminHash, storefrontHash)
	ctx := context.Background()

	t.Run("Success_AdminKey", func(t *testing.T) {
		role, err := authenticator.Authenticate(ctx, adminKey)
		require.NoError(t, err)
		assert.Equal(t, authDomain.RoleAdmin, role)
	})

	t.Run("Success_StorefrontKeyCached", func(t *testing.T) {
		for range 2 {
			role, err := authenticator.Authenticate(ctx, storefrontKey)
			require.NoError(t, err)
			assert.Equal(t, authDomain.RoleStorefront, role)
		}
		_, cached := authenticator.(*apiKeyAuthenticator).verified.Load(digestKey(storefrontKey))
		assert.True(t, cached)
	})

	t.Run("Error_UnknownKey", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "unknown")
		assert.ErrorIs(t, err, authDomain.ErrInvalidAPIKey)
		_, cached := authenticator.(*apiKeyAuthenticator).verified.Load(digestKey("unknown"))
		assert.False(t, cached)
	})

	t.Run("Error_EmptyKey", func(t *testing.T) {
		_, err := authenticator.Authenticate(ctx, "")
		assert.ErrorIs(t, err, authDomain.ErrInvalidAPIKey)
	})

	t.Run("Error_RoleDisabled", func(t *testing.T) {
		adminOnly := NewAuthenticator(service, adminHash, "")
		_, err := adminOnly.Authenticate(ctx, storefrontKey)
		assert.ErrorIs(t, err, authDomain.ErrInvalidAPIKey)
	})
}
