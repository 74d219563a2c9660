package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/codepool/internal/crypto/domain"
)

// PlanKind discriminates what a plan sells and therefore what its codes look like.
type PlanKind string

const (
	// PlanKindDataCode plans sell device access / data codes.
	PlanKindDataCode PlanKind = "data_code"
	// PlanKindTVSubscription plans sell MAC-bound TV subscription activations.
	PlanKindTVSubscription PlanKind = "tv_subscription"
)

// ParsePlanKind validates a plan kind string.
func ParsePlanKind(value string) (PlanKind, error) {
	switch PlanKind(value) {
	case PlanKindDataCode, PlanKindTVSubscription:
		return PlanKind(value), nil
	default:
		return "", ErrInvalidPlanKind
	}
}

// SecretKind returns how codes of this plan are normalized.
func (k PlanKind) SecretKind() cryptoDomain.SecretKind {
	if k == PlanKindTVSubscription {
		return cryptoDomain.DeviceIdentifier
	}
	return cryptoDomain.AccessCode
}

// Plan is a purchasable product whose codes live in one pool.
type Plan struct {
	ID            uuid.UUID
	Name          string
	Kind          PlanKind
	PriceCents    int64
	DataAllowance string
	DurationDays  int
	CreatedAt     time.Time
}

// PlanAttributes identifies a plan by value. Issuance reuses an existing plan whose
// attributes match exactly.
type PlanAttributes struct {
	Name          string
	Kind          PlanKind
	PriceCents    int64
	DataAllowance string
	DurationDays  int
}

// NewPlan creates a plan from its attributes with a fresh time-ordered id.
func NewPlan(attrs PlanAttributes) *Plan {
	return &Plan{
		ID:            uuid.Must(uuid.NewV7()),
		Name:          attrs.Name,
		Kind:          attrs.Kind,
		PriceCents:    attrs.PriceCents,
		DataAllowance: attrs.DataAllowance,
		DurationDays:  attrs.DurationDays,
		CreatedAt:     time.Now().UTC(),
	}
}

// Validate rejects rows that cannot have been written by this service.
func (p *Plan) Validate() error {
	if p.ID == uuid.Nil || p.Name == "" || p.PriceCents < 0 || p.DurationDays < 0 {
		return ErrInvalidRecord
	}
	if _, err := ParsePlanKind(string(p.Kind)); err != nil {
		return ErrInvalidRecord
	}
	return nil
}
