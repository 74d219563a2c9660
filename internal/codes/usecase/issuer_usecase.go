package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	cryptoService "github.com/allisson/codepool/internal/crypto/service"
	"github.com/allisson/codepool/internal/database"
	apperrors "github.com/allisson/codepool/internal/errors"
	appValidation "github.com/allisson/codepool/internal/validation"
)

// issuerUseCase implements the IssuerUseCase interface.
type issuerUseCase struct {
	txManager database.TxManager
	codeRepo  CodeRepository
	planRepo  PlanRepository
	codec     cryptoService.Codec
	logger    *slog.Logger
}

func validateIssueInput(input IssueInput) error {
	if (input.PlanID == nil) == (input.Plan == nil) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "exactly one of plan_id or plan is required")
	}
	if err := validation.Validate(input.Code, validation.Required, appValidation.NotBlank); err != nil {
		return appValidation.WrapValidationError(errors.New("code: " + err.Error()))
	}
	if input.Plan != nil {
		return ValidatePlanAttributes(*input.Plan)
	}
	return nil
}

// ValidatePlanAttributes validates plan attributes supplied by an operator.
func ValidatePlanAttributes(attrs codesDomain.PlanAttributes) error {
	err := validation.ValidateStruct(&attrs,
		validation.Field(&attrs.Name, validation.Required, appValidation.NotBlank, validation.Length(1, 255)),
		validation.Field(&attrs.Kind, validation.Required,
			validation.In(codesDomain.PlanKindDataCode, codesDomain.PlanKindTVSubscription)),
		validation.Field(&attrs.PriceCents, validation.Min(int64(0))),
		validation.Field(&attrs.DataAllowance, validation.Length(0, 64)),
		validation.Field(&attrs.DurationDays, validation.Min(0)),
	)
	return appValidation.WrapValidationError(err)
}

// Issue normalizes, deduplicates, encrypts and pools one code.
func (i *issuerUseCase) Issue(ctx context.Context, input IssueInput) (*IssueResult, error) {
	if err := validateIssueInput(input); err != nil {
		return nil, err
	}

	// Must stay outside the code transaction: a unique violation aborts a PostgreSQL
	// transaction and resolvePlan re-reads after one.
	plan, err := i.resolvePlan(ctx, input)
	if err != nil {
		return nil, err
	}

	normalized, err := i.codec.Normalize(plan.Kind.SecretKind(), input.Code)
	if err != nil {
		return nil, err
	}
	secretHash := i.codec.Hash(normalized)

	var record *codesDomain.CodeRecord
	err = i.txManager.WithTx(ctx, func(txCtx context.Context) error {
		_, err := i.codeRepo.GetByPlanAndHash(txCtx, plan.ID, secretHash)
		if err == nil {
			return codesDomain.ErrDuplicateSecret
		}
		if !errors.Is(err, codesDomain.ErrCodeNotFound) {
			return err
		}

		ciphertext, err := i.codec.Encrypt(normalized)
		if err != nil {
			return err
		}

		record = &codesDomain.CodeRecord{
			ID:         uuid.Must(uuid.NewV7()),
			PlanID:     plan.ID,
			SecretHash: secretHash,
			SecretMask: i.codec.Mask(normalized),
			Ciphertext: ciphertext,
			CreatedAt:  time.Now().UTC(),
		}
		return i.codeRepo.Create(txCtx, record)
	})
	if err != nil {
		if errors.Is(err, codesDomain.ErrDuplicateSecret) {
			i.logger.Info("duplicate code rejected", slog.String("plan_id", plan.ID.String()))
		}
		return nil, err
	}

	i.logger.Info("code issued",
		slog.String("record_id", record.ID.String()),
		slog.String("plan_id", plan.ID.String()),
		slog.String("mask", record.SecretMask),
	)

	return &IssueResult{
		ID:        record.ID,
		PlanID:    plan.ID,
		Mask:      record.SecretMask,
		CreatedAt: record.CreatedAt,
	}, nil
}

// resolvePlan loads the plan by id, or finds-or-creates it by attributes.
func (i *issuerUseCase) resolvePlan(ctx context.Context, input IssueInput) (*codesDomain.Plan, error) {
	if input.PlanID != nil {
		return i.planRepo.Get(ctx, *input.PlanID)
	}

	attrs := *input.Plan
	plan, err := i.planRepo.GetByAttributes(ctx, attrs)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, codesDomain.ErrPlanNotFound) {
		return nil, err
	}

	plan = codesDomain.NewPlan(attrs)
	err = i.planRepo.Create(ctx, plan)
	if errors.Is(err, codesDomain.ErrPlanAlreadyExists) {
		// a concurrent issuer created it first
		return i.planRepo.GetByAttributes(ctx, attrs)
	}
	if err != nil {
		return nil, err
	}

	i.logger.Info("plan created",
		slog.String("plan_id", plan.ID.String()),
		slog.String("plan_kind", string(plan.Kind)),
	)
	return plan, nil
}

// NewIssuerUseCase creates a new issuer use case instance with the provided dependencies.
func NewIssuerUseCase(
	txManager database.TxManager,
	codeRepo CodeRepository,
	planRepo PlanRepository,
	codec cryptoService.Codec,
	logger *slog.Logger,
) IssuerUseCase {
	return &issuerUseCase{
		txManager: txManager,
		codeRepo:  codeRepo,
		planRepo:  planRepo,
		codec:     codec,
		logger:    logger,
	}
}
