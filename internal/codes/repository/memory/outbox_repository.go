package memory

import (
	"context"
	"time"

	outboxDomain "github.com/allisson/codepool/internal/outbox/domain"
)

// OutboxEventRepository implements the outbox repository on a Store.
type OutboxEventRepository struct {
	store *Store
}

// NewOutboxEventRepository creates a new OutboxEventRepository.
func NewOutboxEventRepository(store *Store) *OutboxEventRepository {
	return &OutboxEventRepository{store: store}
}

// Create appends an event.
func (r *OutboxEventRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	s := r.store
	return s.run(ctx, func(tx *memTx) error {
		s.events[event.ID] = *event
		n := len(s.eventOrder)
		s.eventOrder = append(s.eventOrder, event.ID)
		tx.onRollback(func() {
			delete(s.events, event.ID)
			s.eventOrder = s.eventOrder[:n]
		})
		return nil
	})
}

// GetPendingEvents returns up to limit pending events, oldest first.
func (r *OutboxEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*outboxDomain.OutboxEvent, error) {
	s := r.store
	var events []*outboxDomain.OutboxEvent
	err := s.run(ctx, func(tx *memTx) error {
		for _, id := range s.eventOrder {
			if limit > 0 && len(events) >= limit {
				break
			}
			if e := s.events[id]; e.Status == outboxDomain.OutboxEventStatusPending {
				events = append(events, &e)
			}
		}
		return nil
	})
	return events, err
}

// Update overwrites the mutable fields of an event.
func (r *OutboxEventRepository) Update(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	s := r.store
	return s.run(ctx, func(tx *memTx) error {
		prev, ok := s.events[event.ID]
		if !ok {
			return nil
		}
		updated := *event
		updated.UpdatedAt = time.Now().UTC()
		s.events[event.ID] = updated
		tx.onRollback(func() { s.events[event.ID] = prev })
		return nil
	})
}

// CountByStatus returns how many events are in the given status.
func (r *OutboxEventRepository) CountByStatus(
	ctx context.Context,
	status outboxDomain.OutboxEventStatus,
) (int, error) {
	s := r.store
	var count int
	err := s.run(ctx, func(tx *memTx) error {
		for _, e := range s.events {
			if e.Status == status {
				count++
			}
		}
		return nil
	})
	return count, err
}
