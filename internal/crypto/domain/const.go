package domain

// Algorithm represents the AEAD algorithm used to seal pool codes.
type Algorithm string

const (
	// AESGCM is AES-256-GCM. Default; hardware accelerated on AES-NI capable CPUs.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305, for hosts without AES acceleration.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration value into an Algorithm.
func ParseAlgorithm(value string) (Algorithm, error) {
	switch Algorithm(value) {
	case AESGCM, ChaCha20:
		return Algorithm(value), nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

// SecretKind selects how a raw secret is canonicalized before hashing, masking and sealing.
type SecretKind string

const (
	// AccessCode is a printed/vended access or data code. Only surrounding whitespace is trimmed.
	AccessCode SecretKind = "access_code"

	// DeviceIdentifier is a hardware identifier such as a MAC address. Separators are
	// stripped and letters upper-cased so "aa:bb-cc" and "AABBCC" compare equal.
	DeviceIdentifier SecretKind = "device_identifier"
)

const (
	// KeySize is the size in bytes of the derived code encryption key.
	KeySize = 32

	// NonceSize is the AEAD nonce size for both supported algorithms.
	NonceSize = 12

	// TagSize is the AEAD authentication tag size for both supported algorithms.
	TagSize = 16

	// MinSecretLength is the minimum length of the server secret the key is derived from.
	MinSecretLength = 32
)
