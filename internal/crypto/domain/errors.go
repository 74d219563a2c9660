// Package domain defines cryptographic primitives, formats and errors used to keep
// pool codes confidential at rest.
package domain

import (
	"github.com/allisson/codepool/internal/errors"
)

// Cryptographic error definitions.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the key is not exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrEmptySecret indicates the secret was empty after normalization.
	ErrEmptySecret = errors.Wrap(errors.ErrInvalidInput, "secret is empty")

	// ErrUnsupportedSecretKind indicates an unknown normalization kind.
	ErrUnsupportedSecretKind = errors.Wrap(errors.ErrInvalidInput, "unsupported secret kind")

	// ErrMalformedPayload indicates a sealed payload is not "nonce.tag.ciphertext" base64 segments.
	ErrMalformedPayload = errors.Wrap(errors.ErrIntegrity, "malformed payload")

	// ErrAuthenticationFailure indicates the authentication tag did not verify: the payload was
	// tampered with or sealed under a different key. No plaintext is ever returned with it.
	ErrAuthenticationFailure = errors.Wrap(errors.ErrIntegrity, "authentication failure")

	// ErrEncryptionSecretNotSet indicates CODE_ENCRYPTION_SECRET is missing.
	ErrEncryptionSecretNotSet = errors.Wrap(errors.ErrConfiguration, "code encryption secret not set")

	// ErrEncryptionSecretTooShort indicates the server secret is below MinSecretLength.
	ErrEncryptionSecretTooShort = errors.Wrap(errors.ErrConfiguration, "code encryption secret too short")
)
