package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/codepool/internal/codes/usecase"
	usecaseMocks "github.com/allisson/codepool/internal/codes/usecase/mocks"
)

// mockBusinessMetrics is a local mock for metrics.BusinessMetrics.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordPoolLevel(ctx context.Context, planID string, remaining int64) {
	m.Called(ctx, planID, remaining)
}

func expectRecorded(m *mockBusinessMetrics, ctx context.Context, domain, operation, status string) {
	m.On("RecordOperation", ctx, domain, operation, status).Return().Once()
	m.On("RecordDuration", ctx, domain, operation, mock.AnythingOfType("time.Duration"), status).
		Return().
		Once()
}

func TestAllocatorUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	planID := uuid.Must(uuid.NewV7())

	t.Run("Claim success", func(t *testing.T) {
		next := &usecaseMocks.MockAllocatorUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewAllocatorUseCaseWithMetrics(next, m)
		claim := &usecase.ClaimResult{Code: "ABCD-1234", PlanID: planID}

		next.On("Claim", ctx, planID, "").Return(claim, nil).Once()
		expectRecorded(m, ctx, "codes", "code_claim", "success")

		res, err := uc.Claim(ctx, planID, "")
		assert.NoError(t, err)
		assert.Equal(t, claim, res)
		m.AssertExpectations(t)
	})

	t.Run("Claim error", func(t *testing.T) {
		next := &usecaseMocks.MockAllocatorUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewAllocatorUseCaseWithMetrics(next, m)

		next.On("Claim", ctx, planID, "").Return(nil, errors.New("boom")).Once()
		expectRecorded(m, ctx, "codes", "code_claim", "error")

		_, err := uc.Claim(ctx, planID, "")
		assert.Error(t, err)
		m.AssertExpectations(t)
	})
}

func TestIssuerUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	next := &usecaseMocks.MockIssuerUseCase{}
	m := &mockBusinessMetrics{}
	uc := usecase.NewIssuerUseCaseWithMetrics(next, m)
	input := usecase.IssueInput{Plan: weeklyPlan(), Code: "ABCD-1234"}

	next.On("Issue", ctx, input).Return(&usecase.IssueResult{Mask: "****1234"}, nil).Once()
	expectRecorded(m, ctx, "codes", "code_issue", "success")

	res, err := uc.Issue(ctx, input)
	assert.NoError(t, err)
	assert.Equal(t, "****1234", res.Mask)
	m.AssertExpectations(t)
}

func TestPlanUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	planID := uuid.Must(uuid.NewV7())

	t.Run("Availability records pool level", func(t *testing.T) {
		next := &usecaseMocks.MockPlanUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewPlanUseCaseWithMetrics(next, m)

		next.On("Availability", ctx, planID).Return(4, nil).Once()
		expectRecorded(m, ctx, "plans", "plan_availability", "success")
		m.On("RecordPoolLevel", ctx, planID.String(), int64(4)).Return().Once()

		n, err := uc.Availability(ctx, planID)
		assert.NoError(t, err)
		assert.Equal(t, 4, n)
		m.AssertExpectations(t)
	})

	t.Run("Availability error skips pool level", func(t *testing.T) {
		next := &usecaseMocks.MockPlanUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewPlanUseCaseWithMetrics(next, m)

		next.On("Availability", ctx, planID).Return(0, errors.New("boom")).Once()
		expectRecorded(m, ctx, "plans", "plan_availability", "error")

		_, err := uc.Availability(ctx, planID)
		assert.Error(t, err)
		m.AssertExpectations(t)
		m.AssertNotCalled(t, "RecordPoolLevel", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Delete", func(t *testing.T) {
		next := &usecaseMocks.MockPlanUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewPlanUseCaseWithMetrics(next, m)

		next.On("Delete", ctx, planID).Return(3, nil).Once()
		expectRecorded(m, ctx, "plans", "plan_delete", "success")

		n, err := uc.Delete(ctx, planID)
		assert.NoError(t, err)
		assert.Equal(t, 3, n)
		m.AssertExpectations(t)
	})

	t.Run("List, Get and ListCodes", func(t *testing.T) {
		next := &usecaseMocks.MockPlanUseCase{}
		m := &mockBusinessMetrics{}
		uc := usecase.NewPlanUseCaseWithMetrics(next, m)

		next.On("List", ctx, 0, 10).Return(nil, nil).Once()
		next.On("Get", ctx, planID).Return(nil, errors.New("missing")).Once()
		next.On("ListCodes", ctx, planID, 0, 10).Return(nil, nil).Once()
		expectRecorded(m, ctx, "plans", "plan_list", "success")
		expectRecorded(m, ctx, "plans", "plan_get", "error")
		expectRecorded(m, ctx, "plans", "plan_list_codes", "success")

		_, _ = uc.List(ctx, 0, 10)
		_, _ = uc.Get(ctx, planID)
		_, _ = uc.ListCodes(ctx, planID, 0, 10)
		m.AssertExpectations(t)
	})
}
