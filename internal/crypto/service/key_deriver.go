package service

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/codepool/internal/crypto/domain"
)

// codeKeyInfo is the HKDF info label. Versioned so a future derivation change cannot
// silently produce a key that fails to open existing payloads.
var codeKeyInfo = []byte("codepool-code-encryption-v1")

type hkdfKeyDeriver struct{}

// NewKeyDeriver creates a KeyDeriver using HKDF-SHA256.
func NewKeyDeriver() KeyDeriver {
	return &hkdfKeyDeriver{}
}

// DeriveKey derives a 32-byte key from the server secret. The secret itself is never used
// as a key. Fails with ErrEncryptionSecretNotSet / ErrEncryptionSecretTooShort.
func (d *hkdfKeyDeriver) DeriveKey(secret []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, cryptoDomain.ErrEncryptionSecretNotSet
	}
	if len(secret) < cryptoDomain.MinSecretLength {
		return nil, cryptoDomain.ErrEncryptionSecretTooShort
	}

	reader := hkdf.New(sha256.New, secret, nil, codeKeyInfo)

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}

	return key, nil
}
