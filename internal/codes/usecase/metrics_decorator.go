package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	"github.com/allisson/codepool/internal/metrics"
)

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// allocatorUseCaseWithMetrics decorates AllocatorUseCase with metrics instrumentation.
type allocatorUseCaseWithMetrics struct {
	next    AllocatorUseCase
	metrics metrics.BusinessMetrics
}

// NewAllocatorUseCaseWithMetrics wraps an AllocatorUseCase with metrics recording.
func NewAllocatorUseCaseWithMetrics(useCase AllocatorUseCase, m metrics.BusinessMetrics) AllocatorUseCase {
	return &allocatorUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Claim records metrics for claim operations.
func (a *allocatorUseCaseWithMetrics) Claim(
	ctx context.Context,
	planID uuid.UUID,
	customer string,
) (*ClaimResult, error) {
	start := time.Now()
	result, err := a.next.Claim(ctx, planID, customer)

	status := statusOf(err)
	a.metrics.RecordOperation(ctx, "codes", "code_claim", status)
	a.metrics.RecordDuration(ctx, "codes", "code_claim", time.Since(start), status)

	return result, err
}

// issuerUseCaseWithMetrics decorates IssuerUseCase with metrics instrumentation.
type issuerUseCaseWithMetrics struct {
	next    IssuerUseCase
	metrics metrics.BusinessMetrics
}

// NewIssuerUseCaseWithMetrics wraps an IssuerUseCase with metrics recording.
func NewIssuerUseCaseWithMetrics(useCase IssuerUseCase, m metrics.BusinessMetrics) IssuerUseCase {
	return &issuerUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Issue records metrics for issue operations.
func (i *issuerUseCaseWithMetrics) Issue(ctx context.Context, input IssueInput) (*IssueResult, error) {
	start := time.Now()
	result, err := i.next.Issue(ctx, input)

	status := statusOf(err)
	i.metrics.RecordOperation(ctx, "codes", "code_issue", status)
	i.metrics.RecordDuration(ctx, "codes", "code_issue", time.Since(start), status)

	return result, err
}

// planUseCaseWithMetrics decorates PlanUseCase with metrics instrumentation.
type planUseCaseWithMetrics struct {
	next    PlanUseCase
	metrics metrics.BusinessMetrics
}

// NewPlanUseCaseWithMetrics wraps a PlanUseCase with metrics recording.
func NewPlanUseCaseWithMetrics(useCase PlanUseCase, m metrics.BusinessMetrics) PlanUseCase {
	return &planUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (p *planUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := statusOf(err)
	p.metrics.RecordOperation(ctx, "plans", operation, status)
	p.metrics.RecordDuration(ctx, "plans", operation, time.Since(start), status)
}

// Get records metrics for plan retrieval.
func (p *planUseCaseWithMetrics) Get(ctx context.Context, planID uuid.UUID) (*codesDomain.Plan, error) {
	start := time.Now()
	plan, err := p.next.Get(ctx, planID)
	p.record(ctx, "plan_get", start, err)
	return plan, err
}

// List records metrics for plan listing.
func (p *planUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*codesDomain.Plan, error) {
	start := time.Now()
	plans, err := p.next.List(ctx, offset, limit)
	p.record(ctx, "plan_list", start, err)
	return plans, err
}

// Delete records metrics for plan deletion.
func (p *planUseCaseWithMetrics) Delete(ctx context.Context, planID uuid.UUID) (int, error) {
	start := time.Now()
	n, err := p.next.Delete(ctx, planID)
	p.record(ctx, "plan_delete", start, err)
	return n, err
}

// Availability records metrics for availability checks and updates the pool level gauge.
func (p *planUseCaseWithMetrics) Availability(ctx context.Context, planID uuid.UUID) (int, error) {
	start := time.Now()
	n, err := p.next.Availability(ctx, planID)
	p.record(ctx, "plan_availability", start, err)
	if err == nil {
		p.metrics.RecordPoolLevel(ctx, planID.String(), int64(n))
	}
	return n, err
}

// ListCodes records metrics for masked code listing.
func (p *planUseCaseWithMetrics) ListCodes(
	ctx context.Context,
	planID uuid.UUID,
	offset, limit int,
) ([]*codesDomain.CodeRecord, error) {
	start := time.Now()
	records, err := p.next.ListCodes(ctx, planID, offset, limit)
	p.record(ctx, "plan_list_codes", start, err)
	return records, err
}
