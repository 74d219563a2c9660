package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEvent(t *testing.T) {
	event := NewOutboxEvent("pool.low_stock", `{"remaining":2}`)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "pool.low_stock", event.EventType)
	assert.Equal(t, OutboxEventStatusPending, event.Status)
	assert.Zero(t, event.Retries)
	assert.Nil(t, event.ProcessedAt)
}

func TestOutboxEvent_MarkAttemptFailed(t *testing.T) {
	event := NewOutboxEvent("pool.exhausted", `{}`)

	event.MarkAttemptFailed(errors.New("smtp down"), 2)
	assert.Equal(t, 1, event.Retries)
	assert.Equal(t, OutboxEventStatusPending, event.Status)
	require.NotNil(t, event.LastError)
	assert.Equal(t, "smtp down", *event.LastError)

	event.MarkAttemptFailed(errors.New("smtp down"), 2)
	assert.Equal(t, OutboxEventStatusFailed, event.Status)
}

func TestOutboxEvent_MarkProcessed(t *testing.T) {
	event := NewOutboxEvent("pool.exhausted", `{}`)
	now := time.Now()

	event.MarkProcessed(now)
	assert.Equal(t, OutboxEventStatusProcessed, event.Status)
	require.NotNil(t, event.ProcessedAt)
	assert.Equal(t, now, *event.ProcessedAt)
}
