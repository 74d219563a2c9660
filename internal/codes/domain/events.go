package domain

import (
	"github.com/google/uuid"
)

// Outbox event types emitted by the allocator.
const (
	EventTypeLowStock  = "pool.low_stock"
	EventTypeExhausted = "pool.exhausted"
)

// StockAlert is the outbox payload for low-stock and exhausted events. It never carries
// code material.
type StockAlert struct {
	PlanID    uuid.UUID `json:"plan_id"`
	PlanName  string    `json:"plan_name"`
	PlanKind  PlanKind  `json:"plan_kind"`
	Remaining int       `json:"remaining"`
	Threshold int       `json:"threshold"`
}
