package usecase_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	"github.com/allisson/codepool/internal/codes/repository/memory"
	"github.com/allisson/codepool/internal/codes/usecase"
	cryptoDomain "github.com/allisson/codepool/internal/crypto/domain"
	cryptoService "github.com/allisson/codepool/internal/crypto/service"
)

const testSecret = "codepool-usecase-secret-0123456789abcdef"

// harness wires the use cases to an in-memory store and a real codec.
type harness struct {
	store       *memory.Store
	codes       *memory.CodeRepository
	plans       *memory.PlanRepository
	redemptions *memory.RedemptionRepository
	outbox      *memory.OutboxEventRepository
	codec       *cryptoService.CodeCodec
	issuer      usecase.IssuerUseCase
	allocator   usecase.AllocatorUseCase
	planUC      usecase.PlanUseCase
	ledger      usecase.LedgerUseCase
}

func newHarness(t *testing.T, threshold int) *harness {
	t.Helper()

	codec, err := cryptoService.NewCodecFromSecret(
		[]byte(testSecret),
		cryptoDomain.AESGCM,
		cryptoService.NewKeyDeriver(),
		cryptoService.NewAEADManager(),
	)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	store := memory.NewStore()
	h := &harness{
		store:       store,
		codes:       memory.NewCodeRepository(store),
		plans:       memory.NewPlanRepository(store),
		redemptions: memory.NewRedemptionRepository(store),
		outbox:      memory.NewOutboxEventRepository(store),
		codec:       codec,
	}
	h.issuer = usecase.NewIssuerUseCase(store, h.codes, h.plans, codec, logger)
	h.allocator = usecase.NewAllocatorUseCase(
		usecase.AllocatorConfig{MaxAttempts: 3, LowStockThreshold: threshold},
		store, h.codes, h.plans, h.redemptions, h.outbox, codec, logger,
	)
	h.planUC = usecase.NewPlanUseCase(store, h.codes, h.plans, logger)
	h.ledger = usecase.NewLedgerUseCase(h.redemptions)
	return h
}

func weeklyPlan() *codesDomain.PlanAttributes {
	return &codesDomain.PlanAttributes{
		Name:          "Weekly 5GB",
		Kind:          codesDomain.PlanKindDataCode,
		PriceCents:    1500,
		DataAllowance: "5GB",
		DurationDays:  7,
	}
}

// issue pools code into the weekly plan and returns the result.
func (h *harness) issue(t *testing.T, code string) *usecase.IssueResult {
	t.Helper()
	result, err := h.issuer.Issue(context.Background(), usecase.IssueInput{Plan: weeklyPlan(), Code: code})
	require.NoError(t, err)
	return result
}
