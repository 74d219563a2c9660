package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	"github.com/allisson/codepool/internal/database"
)

// planUseCase implements the PlanUseCase interface.
type planUseCase struct {
	txManager database.TxManager
	codeRepo  CodeRepository
	planRepo  PlanRepository
	logger    *slog.Logger
}

// Get retrieves a plan by id.
func (p *planUseCase) Get(ctx context.Context, planID uuid.UUID) (*codesDomain.Plan, error) {
	return p.planRepo.Get(ctx, planID)
}

// List retrieves plans ordered by creation time with pagination.
func (p *planUseCase) List(ctx context.Context, offset, limit int) ([]*codesDomain.Plan, error) {
	return p.planRepo.List(ctx, offset, limit)
}

// Delete removes all codes of the plan and then the plan in one transaction. Ledger
// entries are kept.
func (p *planUseCase) Delete(ctx context.Context, planID uuid.UUID) (int, error) {
	var deleted int

	err := p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := p.planRepo.Get(txCtx, planID); err != nil {
			return err
		}

		n, err := p.codeRepo.DeleteByPlan(txCtx, planID)
		if err != nil {
			return err
		}
		deleted = n

		return p.planRepo.Delete(txCtx, planID)
	})
	if err != nil {
		return 0, err
	}

	p.logger.Info("plan deleted",
		slog.String("plan_id", planID.String()),
		slog.Int("deleted_codes", deleted),
	)
	return deleted, nil
}

// Availability returns the number of unclaimed codes of the plan.
func (p *planUseCase) Availability(ctx context.Context, planID uuid.UUID) (int, error) {
	if _, err := p.planRepo.Get(ctx, planID); err != nil {
		return 0, err
	}
	return p.codeRepo.CountByPlan(ctx, planID)
}

// ListCodes retrieves the plan's unclaimed codes in claim order. Only masks are exposed
// by callers; ciphertext stays server side.
func (p *planUseCase) ListCodes(
	ctx context.Context,
	planID uuid.UUID,
	offset, limit int,
) ([]*codesDomain.CodeRecord, error) {
	if _, err := p.planRepo.Get(ctx, planID); err != nil {
		return nil, err
	}
	return p.codeRepo.ListByPlan(ctx, planID, offset, limit)
}

// NewPlanUseCase creates a new plan use case instance with the provided dependencies.
func NewPlanUseCase(
	txManager database.TxManager,
	codeRepo CodeRepository,
	planRepo PlanRepository,
	logger *slog.Logger,
) PlanUseCase {
	return &planUseCase{
		txManager: txManager,
		codeRepo:  codeRepo,
		planRepo:  planRepo,
		logger:    logger,
	}
}
