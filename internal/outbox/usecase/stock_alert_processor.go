package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	"github.com/allisson/codepool/internal/notification"
	"github.com/allisson/codepool/internal/outbox/domain"
)

// StockAlertProcessor emails low-stock and exhausted alerts to operators.
type StockAlertProcessor struct {
	mailer     notification.Mailer
	recipients []string
	logger     *slog.Logger
}

// NewStockAlertProcessor creates a StockAlertProcessor. With no recipients alerts are
// only logged.
func NewStockAlertProcessor(
	mailer notification.Mailer,
	recipients []string,
	logger *slog.Logger,
) *StockAlertProcessor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &StockAlertProcessor{
		mailer:     mailer,
		recipients: recipients,
		logger:     logger,
	}
}

// Process handles one outbox event. Unknown event types are logged and acknowledged.
func (p *StockAlertProcessor) Process(ctx context.Context, event *domain.OutboxEvent) error {
	switch event.EventType {
	case codesDomain.EventTypeLowStock, codesDomain.EventTypeExhausted:
	default:
		p.logger.Warn("unknown event type", slog.String("event_type", event.EventType))
		return nil
	}

	var alert codesDomain.StockAlert
	if err := json.Unmarshal([]byte(event.Payload), &alert); err != nil {
		return err
	}

	p.logger.Warn("plan stock alert",
		slog.String("event_type", event.EventType),
		slog.String("plan_id", alert.PlanID.String()),
		slog.String("plan_name", alert.PlanName),
		slog.Int("remaining", alert.Remaining),
	)

	if len(p.recipients) == 0 {
		return nil
	}

	msg, err := notification.NewStockAlertMessage(p.recipients, notification.StockAlert{
		PlanID:    alert.PlanID.String(),
		PlanName:  alert.PlanName,
		PlanKind:  string(alert.PlanKind),
		Remaining: alert.Remaining,
		Threshold: alert.Threshold,
	})
	if err != nil {
		return err
	}

	if _, err := p.mailer.Send(ctx, msg); err != nil {
		if errors.Is(err, notification.ErrDeliveryDisabled) {
			return nil
		}
		return err
	}
	return nil
}
