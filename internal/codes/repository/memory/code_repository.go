package memory

import (
	"context"

	"github.com/google/uuid"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
)

// CodeRepository implements usecase.CodeRepository on a Store.
type CodeRepository struct {
	store *Store
}

// NewCodeRepository creates a new CodeRepository.
func NewCodeRepository(store *Store) *CodeRepository {
	return &CodeRepository{store: store}
}

// Create inserts a record, enforcing the (plan_id, secret_hash) uniqueness.
func (r *CodeRepository) Create(ctx context.Context, record *codesDomain.CodeRecord) error {
	s := r.store
	return s.run(ctx, func(tx *memTx) error {
		if _, ok := s.plans[record.PlanID]; !ok {
			return codesDomain.ErrPlanNotFound
		}
		if _, ok := s.records[record.ID]; ok {
			return codesDomain.ErrDuplicateSecret
		}
		for _, id := range s.fifo[record.PlanID] {
			if s.records[id].SecretHash == record.SecretHash {
				return codesDomain.ErrDuplicateSecret
			}
		}

		s.records[record.ID] = *record
		s.insertFIFO(*record)
		tx.onRollback(func() {
			s.removeFIFO(record.PlanID, record.ID)
			delete(s.records, record.ID)
		})
		return nil
	})
}

// GetByPlanAndHash finds a record by its secret hash within a plan.
func (r *CodeRepository) GetByPlanAndHash(
	ctx context.Context,
	planID uuid.UUID,
	secretHash string,
) (*codesDomain.CodeRecord, error) {
	s := r.store
	var found *codesDomain.CodeRecord
	err := s.run(ctx, func(tx *memTx) error {
		for _, id := range s.fifo[planID] {
			if rec := s.records[id]; rec.SecretHash == secretHash {
				found = &rec
				return nil
			}
		}
		return codesDomain.ErrCodeNotFound
	})
	return found, err
}

// LockOldest returns the head of the plan queue. Transactions are serialised, so the
// record stays reserved until the caller's transaction ends.
func (r *CodeRepository) LockOldest(ctx context.Context, planID uuid.UUID) (*codesDomain.CodeRecord, error) {
	s := r.store
	var oldest *codesDomain.CodeRecord
	err := s.run(ctx, func(tx *memTx) error {
		queue := s.fifo[planID]
		if len(queue) == 0 {
			return codesDomain.ErrPoolExhausted
		}
		rec := s.records[queue[0]]
		oldest = &rec
		return nil
	})
	return oldest, err
}

// Delete removes a record; ErrCodeAlreadyClaimed when it is already gone.
func (r *CodeRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	s := r.store
	return s.run(ctx, func(tx *memTx) error {
		rec, ok := s.records[recordID]
		if !ok {
			return codesDomain.ErrCodeAlreadyClaimed
		}
		s.removeFIFO(rec.PlanID, rec.ID)
		delete(s.records, rec.ID)
		tx.onRollback(func() {
			s.records[rec.ID] = rec
			s.insertFIFO(rec)
		})
		return nil
	})
}

// CountByPlan returns the number of unclaimed records of the plan.
func (r *CodeRepository) CountByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	s := r.store
	var count int
	err := s.run(ctx, func(tx *memTx) error {
		count = len(s.fifo[planID])
		return nil
	})
	return count, err
}

// DeleteByPlan removes every record of the plan and returns how many were removed.
func (r *CodeRepository) DeleteByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	s := r.store
	var deleted int
	err := s.run(ctx, func(tx *memTx) error {
		queue := s.fifo[planID]
		removed := make([]codesDomain.CodeRecord, 0, len(queue))
		for _, id := range queue {
			removed = append(removed, s.records[id])
			delete(s.records, id)
		}
		delete(s.fifo, planID)
		deleted = len(removed)

		tx.onRollback(func() {
			for _, rec := range removed {
				s.records[rec.ID] = rec
				s.insertFIFO(rec)
			}
		})
		return nil
	})
	return deleted, err
}

// ListByPlan lists the plan's records in claim order.
func (r *CodeRepository) ListByPlan(
	ctx context.Context,
	planID uuid.UUID,
	offset, limit int,
) ([]*codesDomain.CodeRecord, error) {
	s := r.store
	var records []*codesDomain.CodeRecord
	err := s.run(ctx, func(tx *memTx) error {
		queue := s.fifo[planID]
		start, end := page(len(queue), offset, limit)
		records = make([]*codesDomain.CodeRecord, 0, end-start)
		for _, id := range queue[start:end] {
			rec := s.records[id]
			records = append(records, &rec)
		}
		return nil
	})
	return records, err
}
