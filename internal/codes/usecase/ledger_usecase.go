package usecase

import (
	"context"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
)

type ledgerUseCase struct {
	redemptionRepo RedemptionRepository
}

// List retrieves ledger entries, most recent first.
func (l *ledgerUseCase) List(ctx context.Context, offset, limit int) ([]*codesDomain.Redemption, error) {
	return l.redemptionRepo.List(ctx, offset, limit)
}

// NewLedgerUseCase creates a new ledger use case.
func NewLedgerUseCase(redemptionRepo RedemptionRepository) LedgerUseCase {
	return &ledgerUseCase{redemptionRepo: redemptionRepo}
}
