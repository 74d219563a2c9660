package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	cryptoService "github.com/allisson/codepool/internal/crypto/service"
	"github.com/allisson/codepool/internal/database"
	outboxDomain "github.com/allisson/codepool/internal/outbox/domain"
)

// AllocatorConfig tunes the allocator.
type AllocatorConfig struct {
	// MaxAttempts bounds retries after a lost compare-and-delete race.
	MaxAttempts int
	// LowStockThreshold emits an alert when a claim leaves exactly this many codes, and
	// an exhausted alert when it leaves none. Zero disables alerts.
	LowStockThreshold int
}

// allocatorUseCase implements the AllocatorUseCase interface.
type allocatorUseCase struct {
	config         AllocatorConfig
	txManager      database.TxManager
	codeRepo       CodeRepository
	planRepo       PlanRepository
	redemptionRepo RedemptionRepository
	outboxRepo     OutboxEventRepository
	codec          cryptoService.Codec
	logger         *slog.Logger
}

// Claim runs claimOnce until it succeeds, fails for a reason other than a lost race, or
// runs out of attempts.
func (a *allocatorUseCase) Claim(
	ctx context.Context,
	planID uuid.UUID,
	customer string,
) (*ClaimResult, error) {
	attempts := max(a.config.MaxAttempts, 1)

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := a.claimOnce(ctx, planID, customer)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, codesDomain.ErrCodeAlreadyClaimed) {
			if errors.Is(err, codesDomain.ErrPoolExhausted) {
				a.logger.Info("pool exhausted", slog.String("plan_id", planID.String()))
			}
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, database.Classify(ctx.Err())
		}

		a.logger.Warn("claim lost race, retrying",
			slog.String("plan_id", planID.String()),
			slog.Int("attempt", attempt),
		)
	}

	return nil, codesDomain.ErrClaimConflict
}

// claimOnce performs one claim inside a single transaction. Any error rolls back every
// step, so the record stays in the pool.
func (a *allocatorUseCase) claimOnce(
	ctx context.Context,
	planID uuid.UUID,
	customer string,
) (*ClaimResult, error) {
	var result *ClaimResult

	err := a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		record, err := a.codeRepo.LockOldest(txCtx, planID)
		if errors.Is(err, codesDomain.ErrInvalidRecord) {
			a.logger.Error("stored code record is malformed, record kept for inspection",
				slog.String("plan_id", planID.String()),
				slog.Any("error", err),
			)
			return codesDomain.ErrCorruptSecret
		}
		if err != nil {
			return err
		}

		code, err := a.codec.Decrypt(record.Ciphertext)
		if err != nil {
			a.logger.Error("stored code failed to decrypt, record kept for inspection",
				slog.String("record_id", record.ID.String()),
				slog.String("plan_id", planID.String()),
				slog.String("mask", record.SecretMask),
				slog.Any("error", err),
			)
			return codesDomain.ErrCorruptSecret
		}

		plan, err := a.planRepo.Get(txCtx, planID)
		if err != nil {
			return err
		}

		redemption := codesDomain.NewRedemption(plan, record, customer)
		if err := a.redemptionRepo.Create(txCtx, redemption); err != nil {
			return err
		}

		if err := a.codeRepo.Delete(txCtx, record.ID); err != nil {
			return err
		}

		if err := a.emitStockAlert(txCtx, plan); err != nil {
			return err
		}

		result = &ClaimResult{
			Code:         code,
			Mask:         record.SecretMask,
			PlanID:       plan.ID,
			PlanName:     plan.Name,
			RedemptionID: redemption.ID,
			ClaimedAt:    redemption.ClaimedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("code claimed",
		slog.String("plan_id", result.PlanID.String()),
		slog.String("redemption_id", result.RedemptionID.String()),
		slog.String("mask", result.Mask),
	)
	return result, nil
}

// emitStockAlert writes a low-stock or exhausted event to the outbox when this claim
// crossed the threshold.
func (a *allocatorUseCase) emitStockAlert(ctx context.Context, plan *codesDomain.Plan) error {
	if a.config.LowStockThreshold <= 0 || a.outboxRepo == nil {
		return nil
	}

	remaining, err := a.codeRepo.CountByPlan(ctx, plan.ID)
	if err != nil {
		return err
	}

	var eventType string
	switch remaining {
	case 0:
		eventType = codesDomain.EventTypeExhausted
	case a.config.LowStockThreshold:
		eventType = codesDomain.EventTypeLowStock
	default:
		return nil
	}

	payload, err := json.Marshal(codesDomain.StockAlert{
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		PlanKind:  plan.Kind,
		Remaining: remaining,
		Threshold: a.config.LowStockThreshold,
	})
	if err != nil {
		return err
	}

	return a.outboxRepo.Create(ctx, outboxDomain.NewOutboxEvent(eventType, string(payload)))
}

// NewAllocatorUseCase creates a new allocator use case instance with the provided dependencies.
func NewAllocatorUseCase(
	config AllocatorConfig,
	txManager database.TxManager,
	codeRepo CodeRepository,
	planRepo PlanRepository,
	redemptionRepo RedemptionRepository,
	outboxRepo OutboxEventRepository,
	codec cryptoService.Codec,
	logger *slog.Logger,
) AllocatorUseCase {
	return &allocatorUseCase{
		config:         config,
		txManager:      txManager,
		codeRepo:       codeRepo,
		planRepo:       planRepo,
		redemptionRepo: redemptionRepo,
		outboxRepo:     outboxRepo,
		codec:          codec,
		logger:         logger,
	}
}
