// Package service provides the cryptographic services that keep pool codes confidential:
// AEAD ciphers, server-secret key derivation, KMS unwrapping and the code Codec.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/codepool/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext||tag and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt verifies and decrypts ciphertext||tag using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver turns the configured server secret into AEAD key material.
type KeyDeriver interface {
	// DeriveKey returns a 32-byte key. Callers must Zero it once a cipher has been built.
	DeriveKey(secret []byte) ([]byte, error)
}

// KMSService opens KMS keepers used to unwrap a KMS-protected server secret.
type KMSService interface {
	// OpenKeeper opens a keeper for the given key URI (gcpkms://, awskms://, azurekeyvault://,
	// hashivault://, base64key://).
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

// Codec is the pure, stateless transformation applied to every pool code.
//
// Normalize must be applied before Hash, Mask and Encrypt, on both issue and lookup.
// A Codec is safe for concurrent use.
type Codec interface {
	Normalize(kind cryptoDomain.SecretKind, raw string) (string, error)
	Hash(normalized string) string
	Mask(normalized string) string
	Encrypt(normalized string) (string, error)
	Decrypt(payload string) (string, error)
}
