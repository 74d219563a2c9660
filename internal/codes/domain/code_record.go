package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var secretHashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// CodeRecord is one unclaimed code in a plan's pool. The plaintext is never stored;
// Ciphertext holds the "nonce.tag.ciphertext" payload.
type CodeRecord struct {
	ID         uuid.UUID
	PlanID     uuid.UUID
	SecretHash string
	SecretMask string
	Ciphertext string
	CreatedAt  time.Time
}

// Validate rejects rows that do not conform to the record schema. The payload format is
// left to the codec, which reports a malformed payload at decrypt time.
func (r *CodeRecord) Validate() error {
	if r.ID == uuid.Nil || r.PlanID == uuid.Nil {
		return ErrInvalidRecord
	}
	if !secretHashPattern.MatchString(r.SecretHash) {
		return ErrInvalidRecord
	}
	if !strings.HasPrefix(r.SecretMask, "****") {
		return ErrInvalidRecord
	}
	if r.Ciphertext == "" {
		return ErrInvalidRecord
	}
	return nil
}
