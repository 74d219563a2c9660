package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	"github.com/allisson/codepool/internal/notification"
)

// fulfillmentUseCase implements the FulfillmentUseCase interface.
type fulfillmentUseCase struct {
	allocator AllocatorUseCase
	mailer    notification.Mailer
	logger    *slog.Logger
}

// Fulfill claims a code for the buyer and, when an address is given, emails it. Delivery
// is best effort: the claim has already committed, so a mail failure only changes the
// reported delivery status.
func (f *fulfillmentUseCase) Fulfill(
	ctx context.Context,
	planID uuid.UUID,
	customerEmail string,
) (*FulfillmentResult, error) {
	customer := customerEmail
	if customer == "" {
		customer = codesDomain.UnknownCustomer
	}

	claim, err := f.allocator.Claim(ctx, planID, customer)
	if err != nil {
		return nil, err
	}

	result := &FulfillmentResult{ClaimResult: claim, Delivery: DeliverySkipped}
	if customerEmail == "" {
		return result, nil
	}

	msg, err := notification.NewCodeDeliveryMessage(customerEmail, notification.CodeDelivery{
		PlanName: claim.PlanName,
		Code:     claim.Code,
	})
	if err == nil {
		var messageID string
		messageID, err = f.mailer.Send(ctx, msg)
		if err == nil {
			result.Delivery = DeliverySent
			f.logger.Info("code delivered",
				slog.String("redemption_id", claim.RedemptionID.String()),
				slog.String("message_id", messageID),
			)
			return result, nil
		}
	}

	if errors.Is(err, notification.ErrDeliveryDisabled) {
		return result, nil
	}

	result.Delivery = DeliveryFailed
	f.logger.Error("code delivery failed",
		slog.String("redemption_id", claim.RedemptionID.String()),
		slog.String("mask", claim.Mask),
		slog.Any("error", err),
	)
	return result, nil
}

// NewFulfillmentUseCase creates a new fulfillment use case.
func NewFulfillmentUseCase(
	allocator AllocatorUseCase,
	mailer notification.Mailer,
	logger *slog.Logger,
) FulfillmentUseCase {
	return &fulfillmentUseCase{
		allocator: allocator,
		mailer:    mailer,
		logger:    logger,
	}
}
