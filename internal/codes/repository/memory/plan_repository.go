package memory

import (
	"context"
	"slices"

	"github.com/google/uuid"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
)

// PlanRepository implements usecase.PlanRepository on a Store.
type PlanRepository struct {
	store *Store
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(store *Store) *PlanRepository {
	return &PlanRepository{store: store}
}

func attributesOf(p codesDomain.Plan) codesDomain.PlanAttributes {
	return codesDomain.PlanAttributes{
		Name:          p.Name,
		Kind:          p.Kind,
		PriceCents:    p.PriceCents,
		DataAllowance: p.DataAllowance,
		DurationDays:  p.DurationDays,
	}
}

// Create inserts a plan; ErrPlanAlreadyExists when the attributes are taken.
func (r *PlanRepository) Create(ctx context.Context, plan *codesDomain.Plan) error {
	s := r.store
	return s.run(ctx, func(tx *memTx) error {
		attrs := attributesOf(*plan)
		for _, existing := range s.plans {
			if attributesOf(existing) == attrs {
				return codesDomain.ErrPlanAlreadyExists
			}
		}
		if _, ok := s.plans[plan.ID]; ok {
			return codesDomain.ErrPlanAlreadyExists
		}

		s.plans[plan.ID] = *plan
		s.planOrder = append(s.planOrder, plan.ID)
		tx.onRollback(func() {
			delete(s.plans, plan.ID)
			s.planOrder = slices.DeleteFunc(s.planOrder, func(id uuid.UUID) bool { return id == plan.ID })
		})
		return nil
	})
}

// Get retrieves a plan by id.
func (r *PlanRepository) Get(ctx context.Context, planID uuid.UUID) (*codesDomain.Plan, error) {
	s := r.store
	var plan *codesDomain.Plan
	err := s.run(ctx, func(tx *memTx) error {
		p, ok := s.plans[planID]
		if !ok {
			return codesDomain.ErrPlanNotFound
		}
		plan = &p
		return nil
	})
	return plan, err
}

// GetByAttributes finds the plan matching all attributes exactly.
func (r *PlanRepository) GetByAttributes(
	ctx context.Context,
	attrs codesDomain.PlanAttributes,
) (*codesDomain.Plan, error) {
	s := r.store
	var plan *codesDomain.Plan
	err := s.run(ctx, func(tx *memTx) error {
		for _, p := range s.plans {
			if attributesOf(p) == attrs {
				plan = &p
				return nil
			}
		}
		return codesDomain.ErrPlanNotFound
	})
	return plan, err
}

// Delete removes a plan.
func (r *PlanRepository) Delete(ctx context.Context, planID uuid.UUID) error {
	s := r.store
	return s.run(ctx, func(tx *memTx) error {
		p, ok := s.plans[planID]
		if !ok {
			return codesDomain.ErrPlanNotFound
		}
		order := slices.Clone(s.planOrder)

		delete(s.plans, planID)
		s.planOrder = slices.DeleteFunc(s.planOrder, func(id uuid.UUID) bool { return id == planID })
		tx.onRollback(func() {
			s.plans[planID] = p
			s.planOrder = order
		})
		return nil
	})
}

// List returns plans in creation order.
func (r *PlanRepository) List(ctx context.Context, offset, limit int) ([]*codesDomain.Plan, error) {
	s := r.store
	var plans []*codesDomain.Plan
	err := s.run(ctx, func(tx *memTx) error {
		start, end := page(len(s.planOrder), offset, limit)
		plans = make([]*codesDomain.Plan, 0, end-start)
		for _, id := range s.planOrder[start:end] {
			p := s.plans[id]
			plans = append(plans, &p)
		}
		return nil
	})
	return plans, err
}
