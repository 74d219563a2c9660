package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	cryptoDomain "github.com/allisson/codepool/internal/crypto/domain"
)

// maskPrefix replaces the hidden part of a code in every display surface.
const maskPrefix = "****"

// maxMaskSuffix is the most characters of a code ever revealed by Mask.
const maxMaskSuffix = 4

// CodeCodec implements Codec on top of a single AEAD built from the server secret.
type CodeCodec struct {
	aead AEAD
}

// NewCodec creates a Codec that encrypts with the given AEAD.
func NewCodec(aead AEAD) *CodeCodec {
	return &CodeCodec{aead: aead}
}

// NewCodecFromSecret derives the code key from secret, builds the cipher for alg and
// zeroes the derived key before returning.
func NewCodecFromSecret(
	secret []byte,
	alg cryptoDomain.Algorithm,
	deriver KeyDeriver,
	manager AEADManager,
) (*CodeCodec, error) {
	key, err := deriver.DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	aead, err := manager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}
	return NewCodec(aead), nil
}

// LoadCodec builds the process-wide Codec from configuration. When kmsKeyURI is set the
// secret is treated as a base64 KMS ciphertext and unwrapped first.
func LoadCodec(
	ctx context.Context,
	secret string,
	kmsKeyURI string,
	alg cryptoDomain.Algorithm,
	kms KMSService,
) (*CodeCodec, error) {
	if secret == "" {
		return nil, cryptoDomain.ErrEncryptionSecretNotSet
	}

	raw := []byte(secret)
	if kmsKeyURI != "" {
		unwrapped, err := UnwrapSecret(ctx, kms, kmsKeyURI, secret)
		if err != nil {
			return nil, err
		}
		raw = unwrapped
		defer cryptoDomain.Zero(raw)
	}

	return NewCodecFromSecret(raw, alg, NewKeyDeriver(), NewAEADManager())
}

// Normalize canonicalizes a raw code. Access codes are trimmed only; device identifiers
// additionally drop separators (":", "-", ".", whitespace) and are upper-cased.
func (c *CodeCodec) Normalize(kind cryptoDomain.SecretKind, raw string) (string, error) {
	var normalized string
	switch kind {
	case cryptoDomain.AccessCode, "":
		normalized = strings.TrimSpace(raw)
	case cryptoDomain.DeviceIdentifier:
		normalized = strings.ToUpper(strings.Map(func(r rune) rune {
			if r == ':' || r == '-' || r == '.' || unicode.IsSpace(r) {
				return -1
			}
			return r
		}, raw))
	default:
		return "", cryptoDomain.ErrUnsupportedSecretKind
	}

	if normalized == "" {
		return "", cryptoDomain.ErrEmptySecret
	}
	return normalized, nil
}

// Hash returns the lowercase hex SHA-256 of the normalized code.
func (c *CodeCodec) Hash(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Mask reveals at most the last four characters, and never more than half the code.
func (c *CodeCodec) Mask(normalized string) string {
	runes := []rune(normalized)
	n := min(maxMaskSuffix, len(runes)/2)
	return maskPrefix + string(runes[len(runes)-n:])
}

// Encrypt seals the normalized code into the "nonce.tag.ciphertext" payload format.
func (c *CodeCodec) Encrypt(normalized string) (string, error) {
	plaintext := []byte(normalized)
	defer cryptoDomain.Zero(plaintext)

	sealed, nonce, err := c.aead.Encrypt(plaintext, nil)
	if err != nil {
		return "", err
	}

	payload, err := cryptoDomain.NewSealedPayload(nonce, sealed)
	if err != nil {
		return "", err
	}
	return payload.String(), nil
}

// Decrypt parses and opens a payload produced by Encrypt. Structural problems return
// ErrMalformedPayload; a wrong key or tampered bytes return ErrAuthenticationFailure.
func (c *CodeCodec) Decrypt(payload string) (string, error) {
	sp, err := cryptoDomain.ParseSealedPayload(payload)
	if err != nil {
		return "", err
	}

	plaintext, err := c.aead.Decrypt(sp.Sealed(), sp.Nonce, nil)
	if err != nil {
		return "", err
	}
	defer cryptoDomain.Zero(plaintext)

	return string(plaintext), nil
}
