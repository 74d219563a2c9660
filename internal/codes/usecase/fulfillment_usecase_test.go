package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	"github.com/allisson/codepool/internal/codes/usecase"
	usecaseMocks "github.com/allisson/codepool/internal/codes/usecase/mocks"
	"github.com/allisson/codepool/internal/notification"
)

func TestFulfillmentUseCase_Fulfill(t *testing.T) {
	ctx := context.Background()
	planID := uuid.Must(uuid.NewV7())
	claim := &usecase.ClaimResult{
		Code:         "ABCD-1234",
		Mask:         "****1234",
		PlanID:       planID,
		PlanName:     "Weekly 5GB",
		RedemptionID: uuid.Must(uuid.NewV7()),
		ClaimedAt:    time.Now().UTC(),
	}
	logger := slog.New(slog.DiscardHandler)

	t.Run("Success_Sent", func(t *testing.T) {
		allocator := &usecaseMocks.MockAllocatorUseCase{}
		mailer := &usecaseMocks.MockMailer{}
		allocator.On("Claim", ctx, planID, "buyer@example.com").Return(claim, nil)
		mailer.On("Send", ctx, mock.MatchedBy(func(msg notification.Message) bool {
			return len(msg.To) == 1 && msg.To[0] == "buyer@example.com" &&
				strings.Contains(msg.TextBody, "ABCD-1234")
		})).Return("<id@example.com>", nil)

		uc := usecase.NewFulfillmentUseCase(allocator, mailer, logger)
		result, err := uc.Fulfill(ctx, planID, "buyer@example.com")

		require.NoError(t, err)
		assert.Equal(t, usecase.DeliverySent, result.Delivery)
		assert.Equal(t, "ABCD-1234", result.Code)
		mailer.AssertExpectations(t)
	})

	t.Run("Success_SkippedWithoutEmail", func(t *testing.T) {
		allocator := &usecaseMocks.MockAllocatorUseCase{}
		mailer := &usecaseMocks.MockMailer{}
		allocator.On("Claim", ctx, planID, codesDomain.UnknownCustomer).Return(claim, nil)

		uc := usecase.NewFulfillmentUseCase(allocator, mailer, logger)
		result, err := uc.Fulfill(ctx, planID, "")

		require.NoError(t, err)
		assert.Equal(t, usecase.DeliverySkipped, result.Delivery)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})

	t.Run("Success_SkippedWhenDisabled", func(t *testing.T) {
		allocator := &usecaseMocks.MockAllocatorUseCase{}
		allocator.On("Claim", ctx, planID, "buyer@example.com").Return(claim, nil)

		uc := usecase.NewFulfillmentUseCase(allocator, notification.NewDisabledMailer(), logger)
		result, err := uc.Fulfill(ctx, planID, "buyer@example.com")

		require.NoError(t, err)
		assert.Equal(t, usecase.DeliverySkipped, result.Delivery)
	})

	t.Run("Success_FailedDeliveryKeepsClaim", func(t *testing.T) {
		allocator := &usecaseMocks.MockAllocatorUseCase{}
		mailer := &usecaseMocks.MockMailer{}
		allocator.On("Claim", ctx, planID, "buyer@example.com").Return(claim, nil)
		mailer.On("Send", ctx, mock.Anything).Return("", errors.New("relay down"))

		uc := usecase.NewFulfillmentUseCase(allocator, mailer, logger)
		result, err := uc.Fulfill(ctx, planID, "buyer@example.com")

		require.NoError(t, err)
		assert.Equal(t, usecase.DeliveryFailed, result.Delivery)
		assert.Equal(t, "ABCD-1234", result.Code)
	})

	t.Run("Error_ClaimFails", func(t *testing.T) {
		allocator := &usecaseMocks.MockAllocatorUseCase{}
		mailer := &usecaseMocks.MockMailer{}
		allocator.On("Claim", ctx, planID, "buyer@example.com").Return(nil, codesDomain.ErrPoolExhausted)

		uc := usecase.NewFulfillmentUseCase(allocator, mailer, logger)
		_, err := uc.Fulfill(ctx, planID, "buyer@example.com")

		assert.ErrorIs(t, err, codesDomain.ErrPoolExhausted)
		mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}
