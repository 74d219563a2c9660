// Package usecase defines the interfaces and implementations for the code pool use cases.
// Use cases orchestrate repositories, the code Codec and the transaction manager to issue
// codes into plan pools and hand each code to exactly one buyer.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	outboxDomain "github.com/allisson/codepool/internal/outbox/domain"
)

// CodeRepository defines the interface for CodeRecord persistence operations.
// Records are inserted once and removed once; there is no update.
type CodeRepository interface {
	Create(ctx context.Context, record *codesDomain.CodeRecord) error
	GetByPlanAndHash(ctx context.Context, planID uuid.UUID, secretHash string) (*codesDomain.CodeRecord, error)
	// LockOldest returns the oldest unclaimed record of the plan, row-locked for the
	// running transaction. Rows locked by other transactions are skipped.
	LockOldest(ctx context.Context, planID uuid.UUID) (*codesDomain.CodeRecord, error)
	// Delete removes the record and returns ErrCodeAlreadyClaimed when no row was removed.
	Delete(ctx context.Context, recordID uuid.UUID) error
	CountByPlan(ctx context.Context, planID uuid.UUID) (int, error)
	DeleteByPlan(ctx context.Context, planID uuid.UUID) (int, error)
	ListByPlan(ctx context.Context, planID uuid.UUID, offset, limit int) ([]*codesDomain.CodeRecord, error)
}

// PlanRepository defines the interface for Plan persistence operations.
type PlanRepository interface {
	Create(ctx context.Context, plan *codesDomain.Plan) error
	Get(ctx context.Context, planID uuid.UUID) (*codesDomain.Plan, error)
	GetByAttributes(ctx context.Context, attrs codesDomain.PlanAttributes) (*codesDomain.Plan, error)
	Delete(ctx context.Context, planID uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]*codesDomain.Plan, error)
}

// RedemptionRepository defines the interface for the append-only claim ledger.
type RedemptionRepository interface {
	Create(ctx context.Context, redemption *codesDomain.Redemption) error
	List(ctx context.Context, offset, limit int) ([]*codesDomain.Redemption, error)
}

// OutboxEventRepository is the subset of the outbox repository used to emit stock alerts
// inside the claim transaction.
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// ClaimResult is returned by a successful claim. Code is the plaintext and must only be
// handed to the buyer.
type ClaimResult struct {
	Code         string
	Mask         string
	PlanID       uuid.UUID
	PlanName     string
	RedemptionID uuid.UUID
	ClaimedAt    time.Time
}

// AllocatorUseCase hands out codes.
type AllocatorUseCase interface {
	// Claim atomically removes the oldest code of the plan, records a ledger entry and returns
	// the decrypted code. Claim is not idempotent: once it returns, the code is spent.
	Claim(ctx context.Context, planID uuid.UUID, customer string) (*ClaimResult, error)
}

// IssueInput identifies the target plan either by PlanID or by Plan attributes.
type IssueInput struct {
	PlanID *uuid.UUID
	Plan   *codesDomain.PlanAttributes
	Code   string
}

// IssueResult describes a newly pooled code. It never carries the plaintext.
type IssueResult struct {
	ID        uuid.UUID
	PlanID    uuid.UUID
	Mask      string
	CreatedAt time.Time
}

// IssuerUseCase adds codes to plan pools.
type IssuerUseCase interface {
	Issue(ctx context.Context, input IssueInput) (*IssueResult, error)
}

// PlanUseCase manages plans and inspects their pools.
type PlanUseCase interface {
	Get(ctx context.Context, planID uuid.UUID) (*codesDomain.Plan, error)
	List(ctx context.Context, offset, limit int) ([]*codesDomain.Plan, error)
	// Delete removes every code of the plan and then the plan, returning the number of
	// codes removed.
	Delete(ctx context.Context, planID uuid.UUID) (int, error)
	Availability(ctx context.Context, planID uuid.UUID) (int, error)
	ListCodes(ctx context.Context, planID uuid.UUID, offset, limit int) ([]*codesDomain.CodeRecord, error)
}

// LedgerUseCase reads the claim ledger.
type LedgerUseCase interface {
	List(ctx context.Context, offset, limit int) ([]*codesDomain.Redemption, error)
}

// Delivery statuses reported by FulfillmentUseCase.
const (
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
	DeliverySkipped = "skipped"
)

// FulfillmentResult is a claim plus the outcome of emailing it.
type FulfillmentResult struct {
	*ClaimResult
	Delivery string
}

// FulfillmentUseCase claims a code and emails it to the buyer when an address is given.
type FulfillmentUseCase interface {
	Fulfill(ctx context.Context, planID uuid.UUID, customerEmail string) (*FulfillmentResult, error)
}
