package memory

import (
	"context"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
)

// RedemptionRepository implements usecase.RedemptionRepository on a Store.
type RedemptionRepository struct {
	store *Store
}

// NewRedemptionRepository creates a new RedemptionRepository.
func NewRedemptionRepository(store *Store) *RedemptionRepository {
	return &RedemptionRepository{store: store}
}

// Create appends a ledger entry.
func (r *RedemptionRepository) Create(ctx context.Context, redemption *codesDomain.Redemption) error {
	s := r.store
	return s.run(ctx, func(tx *memTx) error {
		n := len(s.redemptions)
		s.redemptions = append(s.redemptions, *redemption)
		tx.onRollback(func() { s.redemptions = s.redemptions[:n] })
		return nil
	})
}

// List returns ledger entries, most recent first.
func (r *RedemptionRepository) List(ctx context.Context, offset, limit int) ([]*codesDomain.Redemption, error) {
	s := r.store
	var out []*codesDomain.Redemption
	err := s.run(ctx, func(tx *memTx) error {
		n := len(s.redemptions)
		start, end := page(n, offset, limit)
		out = make([]*codesDomain.Redemption, 0, end-start)
		for i := start; i < end; i++ {
			entry := s.redemptions[n-1-i]
			out = append(out, &entry)
		}
		return nil
	})
	return out, err
}
