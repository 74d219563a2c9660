package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnknownCustomer is recorded when a claim carries no customer identity.
const UnknownCustomer = "unknown"

// Redemption is an append-only ledger entry written for every successful claim. It copies
// the plan attributes so it stays readable after the plan is deleted.
type Redemption struct {
	ID           uuid.UUID
	PlanID       uuid.UUID
	CodeRecordID uuid.UUID
	SecretMask   string
	PlanName     string
	PlanKind     PlanKind
	PriceCents   int64
	Customer     string
	ClaimedAt    time.Time
}

// NewRedemption records that record was handed out under plan.
func NewRedemption(plan *Plan, record *CodeRecord, customer string) *Redemption {
	if customer == "" {
		customer = UnknownCustomer
	}
	return &Redemption{
		ID:           uuid.Must(uuid.NewV7()),
		PlanID:       plan.ID,
		CodeRecordID: record.ID,
		SecretMask:   record.SecretMask,
		PlanName:     plan.Name,
		PlanKind:     plan.Kind,
		PriceCents:   plan.PriceCents,
		Customer:     customer,
		ClaimedAt:    time.Now().UTC(),
	}
}
