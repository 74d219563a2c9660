package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const payloadSeparator = "."

// SealedPayload is the at-rest form of a pool code.
//
// It serializes to three dot-delimited standard base64 segments:
// "nonce.tag.ciphertext". The nonce is unique per sealing call and the tag
// authenticates the ciphertext under the server key.
type SealedPayload struct {
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// ParseSealedPayload parses the string form produced by SealedPayload.String.
//
// Returns ErrMalformedPayload when the segment count is not 3, a segment is not
// valid base64, or the nonce/tag have the wrong length.
func ParseSealedPayload(content string) (SealedPayload, error) {
	parts := strings.Split(content, payloadSeparator)
	if len(parts) != 3 {
		return SealedPayload{}, fmt.Errorf(
			"%w: expected 3 segments, got %d",
			ErrMalformedPayload,
			len(parts),
		)
	}

	decoded := make([][]byte, 3)
	for i, part := range parts {
		b, err := base64.StdEncoding.DecodeString(part)
		if err != nil {
			return SealedPayload{}, fmt.Errorf("%w: segment %d is not base64", ErrMalformedPayload, i)
		}
		decoded[i] = b
	}

	if len(decoded[0]) != NonceSize {
		return SealedPayload{}, fmt.Errorf("%w: nonce must be %d bytes", ErrMalformedPayload, NonceSize)
	}
	if len(decoded[1]) != TagSize {
		return SealedPayload{}, fmt.Errorf("%w: tag must be %d bytes", ErrMalformedPayload, TagSize)
	}
	if len(decoded[2]) == 0 {
		return SealedPayload{}, fmt.Errorf("%w: empty ciphertext", ErrMalformedPayload)
	}

	return SealedPayload{
		Nonce:      decoded[0],
		Tag:        decoded[1],
		Ciphertext: decoded[2],
	}, nil
}

// String serializes the payload as "nonce.tag.ciphertext".
func (p SealedPayload) String() string {
	return strings.Join([]string{
		base64.StdEncoding.EncodeToString(p.Nonce),
		base64.StdEncoding.EncodeToString(p.Tag),
		base64.StdEncoding.EncodeToString(p.Ciphertext),
	}, payloadSeparator)
}

// Sealed returns ciphertext||tag, the layout expected by cipher.AEAD.Open.
func (p SealedPayload) Sealed() []byte {
	out := make([]byte, 0, len(p.Ciphertext)+len(p.Tag))
	out = append(out, p.Ciphertext...)
	return append(out, p.Tag...)
}

// NewSealedPayload splits the output of cipher.AEAD.Seal (ciphertext||tag) into its parts.
func NewSealedPayload(nonce, sealed []byte) (SealedPayload, error) {
	if len(nonce) != NonceSize || len(sealed) <= TagSize {
		return SealedPayload{}, ErrMalformedPayload
	}
	split := len(sealed) - TagSize
	return SealedPayload{
		Nonce:      nonce,
		Tag:        sealed[split:],
		Ciphertext: sealed[:split],
	}, nil
}
