package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/codepool/internal/crypto/domain"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, cryptoDomain.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestAEADManagerService_CreateCipher(t *testing.T) {
	manager := NewAEADManager()
	validKey := randomKey(t)

	t.Run("create AES-GCM cipher", func(t *testing.T) {
		cipher, err := manager.CreateCipher(validKey, cryptoDomain.AESGCM)
		require.NoError(t, err)
		_, ok := cipher.(*AESGCMCipher)
		assert.True(t, ok, "cipher should be of type *AESGCMCipher")
	})

	t.Run("create ChaCha20-Poly1305 cipher", func(t *testing.T) {
		cipher, err := manager.CreateCipher(validKey, cryptoDomain.ChaCha20)
		require.NoError(t, err)
		_, ok := cipher.(*ChaCha20Poly1305Cipher)
		assert.True(t, ok, "cipher should be of type *ChaCha20Poly1305Cipher")
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		_, err := manager.CreateCipher(validKey, cryptoDomain.Algorithm("unsupported"))
		assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
	})

	t.Run("invalid key size", func(t *testing.T) {
		_, err := manager.CreateCipher(make([]byte, 16), cryptoDomain.AESGCM)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)

		_, err = manager.CreateCipher(make([]byte, 64), cryptoDomain.ChaCha20)
		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
	})
}

func TestAEAD_RoundTrip(t *testing.T) {
	manager := NewAEADManager()

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.ChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			key := randomKey(t)
			cipher, err := manager.CreateCipher(key, alg)
			require.NoError(t, err)

			plaintext := []byte("ABCD-1234")
			aad := []byte("plan-a")

			ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
			require.NoError(t, err)
			assert.Len(t, nonce, cryptoDomain.NonceSize)
			assert.Len(t, ciphertext, len(plaintext)+cryptoDomain.TagSize)
			assert.NotContains(t, string(ciphertext), "ABCD-1234")

			decrypted, err := cipher.Decrypt(ciphertext, nonce, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)

			_, err = cipher.Decrypt(ciphertext, nonce, []byte("plan-b"))
			assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailure)

			tampered := append([]byte(nil), ciphertext...)
			tampered[0] ^= 0x01
			decrypted, err = cipher.Decrypt(tampered, nonce, aad)
			assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailure)
			assert.Nil(t, decrypted)

			_, err = cipher.Decrypt(ciphertext, nonce[:8], aad)
			assert.ErrorIs(t, err, cryptoDomain.ErrMalformedPayload)

			other, err := manager.CreateCipher(randomKey(t), alg)
			require.NoError(t, err)
			_, err = other.Decrypt(ciphertext, nonce, aad)
			assert.ErrorIs(t, err, cryptoDomain.ErrAuthenticationFailure)
		})
	}
}

func TestAEAD_FreshNoncePerEncryption(t *testing.T) {
	cipher, err := NewAESGCM(randomKey(t))
	require.NoError(t, err)

	ct1, nonce1, err := cipher.Encrypt([]byte("same"), nil)
	require.NoError(t, err)
	ct2, nonce2, err := cipher.Encrypt([]byte("same"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, nonce1, nonce2)
	assert.NotEqual(t, ct1, ct2)
}
