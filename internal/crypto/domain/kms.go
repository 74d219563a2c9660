package domain

import "context"

// KMSKeeper is the subset of *secrets.Keeper used to unwrap a KMS-protected server secret.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Close() error
}
