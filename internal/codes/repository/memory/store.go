// Package memory provides an in-process implementation of the code pool repositories.
//
// All tables live in one Store. Transactions are serialised by a single mutex and undone
// on rollback, so the claim and issuance invariants hold exactly as they do on the SQL
// stores. Calls made outside a transaction run as their own one-statement transaction.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	outboxDomain "github.com/allisson/codepool/internal/outbox/domain"
)

// txKey is a context key type for the running memory transaction.
type txKey struct{}

type memTx struct {
	store *Store
	undo  []func()
}

// Store holds every table of the code pool.
type Store struct {
	mu sync.Mutex

	plans       map[uuid.UUID]codesDomain.Plan
	planOrder   []uuid.UUID
	records     map[uuid.UUID]codesDomain.CodeRecord
	fifo        map[uuid.UUID][]uuid.UUID
	redemptions []codesDomain.Redemption
	events      map[uuid.UUID]outboxDomain.OutboxEvent
	eventOrder  []uuid.UUID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		plans:   make(map[uuid.UUID]codesDomain.Plan),
		records: make(map[uuid.UUID]codesDomain.CodeRecord),
		fifo:    make(map[uuid.UUID][]uuid.UUID),
		events:  make(map[uuid.UUID]outboxDomain.OutboxEvent),
	}
}

// WithTx runs fn holding the store lock. When fn fails or panics every change it made is
// undone. Nested calls join the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txFrom(ctx) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s}
	defer func() {
		if r := recover(); r != nil {
			tx.rollback()
			panic(r)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// run executes fn inside the caller's transaction or, if there is none, under the lock.
// fn receives the transaction so mutations can register their undo step; tx is nil for
// one-statement calls, which cannot roll back.
func (s *Store) run(ctx context.Context, fn func(tx *memTx) error) error {
	if tx := s.txFrom(ctx); tx != nil {
		return fn(tx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(nil)
}

// PingContext reports readiness. The store is always reachable while ctx is live.
func (s *Store) PingContext(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) txFrom(ctx context.Context) *memTx {
	tx, ok := ctx.Value(txKey{}).(*memTx)
	if !ok || tx.store != s {
		return nil
	}
	return tx
}

// rollback runs the undo log in reverse order.
func (tx *memTx) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}

func (tx *memTx) onRollback(fn func()) {
	if tx != nil {
		tx.undo = append(tx.undo, fn)
	}
}

// insertFIFO places id in the plan queue ordered by (created_at, id).
func (s *Store) insertFIFO(record codesDomain.CodeRecord) {
	queue := s.fifo[record.PlanID]
	pos, _ := slices.BinarySearchFunc(queue, record, func(id uuid.UUID, target codesDomain.CodeRecord) int {
		other := s.records[id]
		if c := other.CreatedAt.Compare(target.CreatedAt); c != 0 {
			return c
		}
		return compareUUID(other.ID, target.ID)
	})
	s.fifo[record.PlanID] = slices.Insert(queue, pos, record.ID)
}

func (s *Store) removeFIFO(planID, recordID uuid.UUID) {
	queue := s.fifo[planID]
	if i := slices.Index(queue, recordID); i >= 0 {
		s.fifo[planID] = slices.Delete(queue, i, i+1)
	}
	if len(s.fifo[planID]) == 0 {
		delete(s.fifo, planID)
	}
}

func compareUUID(a, b uuid.UUID) int {
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// page applies offset/limit to n items and returns the bounds.
func page(n, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
