package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/codepool/internal/crypto/domain"
	cryptoService "github.com/allisson/codepool/internal/crypto/service"
)

// secretBytes is the amount of randomness in a generated server secret.
const secretBytes = 32

// RunCreateEncryptionSecret generates a random server secret for CODE_ENCRYPTION_SECRET.
// When kmsKeyURI is set the secret is wrapped with KMS before output and the URI is echoed
// as CODE_ENCRYPTION_SECRET_KMS_KEY_URI. Raw key material is zeroed after encoding.
//
// For local development, use kmsKeyURI="base64key://...". Never use localsecrets in
// production; use gcpkms, awskms, azurekeyvault or hashivault instead.
func RunCreateEncryptionSecret(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate encryption secret: %w", err)
	}
	defer cryptoDomain.Zero(raw)

	// The encoded form is what the server derives its key from, so it must meet the
	// minimum length on its own.
	encoded := []byte(base64.StdEncoding.EncodeToString(raw))
	defer cryptoDomain.Zero(encoded)

	if kmsKeyURI == "" {
		logger.Warn("encryption secret generated without KMS, store it in a secrets manager")
		_, _ = fmt.Fprintln(writer, "# Code encryption secret")
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, err := fmt.Fprintf(writer, "CODE_ENCRYPTION_SECRET=\"%s\"\n", encoded)
		return err
	}

	wrapped, err := cryptoService.WrapSecret(ctx, kmsService, kmsKeyURI, encoded)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, "# Code encryption secret (KMS mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "CODE_ENCRYPTION_SECRET_KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, err = fmt.Fprintf(writer, "CODE_ENCRYPTION_SECRET=\"%s\"\n", wrapped)
	return err
}
