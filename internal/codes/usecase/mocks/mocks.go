// Package mocks provides testify mock implementations of the code pool use case
// dependencies and use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	codesDomain "github.com/allisson/codepool/internal/codes/domain"
	"github.com/allisson/codepool/internal/codes/usecase"
	cryptoDomain "github.com/allisson/codepool/internal/crypto/domain"
	"github.com/allisson/codepool/internal/notification"
	outboxDomain "github.com/allisson/codepool/internal/outbox/domain"
)

// MockTxManager runs fn inline unless an error is configured.
type MockTxManager struct {
	mock.Mock
}

// WithTx mocks database.TxManager.WithTx.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Get(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

// MockCodeRepository is a mock implementation of usecase.CodeRepository.
type MockCodeRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockCodeRepository) Create(ctx context.Context, record *codesDomain.CodeRecord) error {
	return m.Called(ctx, record).Error(0)
}

// GetByPlanAndHash mocks the GetByPlanAndHash method.
func (m *MockCodeRepository) GetByPlanAndHash(
	ctx context.Context,
	planID uuid.UUID,
	secretHash string,
) (*codesDomain.CodeRecord, error) {
	args := m.Called(ctx, planID, secretHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*codesDomain.CodeRecord), args.Error(1)
}

// LockOldest mocks the LockOldest method.
func (m *MockCodeRepository) LockOldest(ctx context.Context, planID uuid.UUID) (*codesDomain.CodeRecord, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*codesDomain.CodeRecord), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockCodeRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	return m.Called(ctx, recordID).Error(0)
}

// CountByPlan mocks the CountByPlan method.
func (m *MockCodeRepository) CountByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	args := m.Called(ctx, planID)
	return args.Int(0), args.Error(1)
}

// DeleteByPlan mocks the DeleteByPlan method.
func (m *MockCodeRepository) DeleteByPlan(ctx context.Context, planID uuid.UUID) (int, error) {
	args := m.Called(ctx, planID)
	return args.Int(0), args.Error(1)
}

// ListByPlan mocks the ListByPlan method.
func (m *MockCodeRepository) ListByPlan(
	ctx context.Context,
	planID uuid.UUID,
	offset, limit int,
) ([]*codesDomain.CodeRecord, error) {
	args := m.Called(ctx, planID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*codesDomain.CodeRecord), args.Error(1)
}

// MockPlanRepository is a mock implementation of usecase.PlanRepository.
type MockPlanRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockPlanRepository) Create(ctx context.Context, plan *codesDomain.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

// Get mocks the Get method.
func (m *MockPlanRepository) Get(ctx context.Context, planID uuid.UUID) (*codesDomain.Plan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*codesDomain.Plan), args.Error(1)
}

// GetByAttributes mocks the GetByAttributes method.
func (m *MockPlanRepository) GetByAttributes(
	ctx context.Context,
	attrs codesDomain.PlanAttributes,
) (*codesDomain.Plan, error) {
	args := m.Called(ctx, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*codesDomain.Plan), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockPlanRepository) Delete(ctx context.Context, planID uuid.UUID) error {
	return m.Called(ctx, planID).Error(0)
}

// List mocks the List method.
func (m *MockPlanRepository) List(ctx context.Context, offset, limit int) ([]*codesDomain.Plan, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*codesDomain.Plan), args.Error(1)
}

// MockRedemptionRepository is a mock implementation of usecase.RedemptionRepository.
type MockRedemptionRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockRedemptionRepository) Create(ctx context.Context, redemption *codesDomain.Redemption) error {
	return m.Called(ctx, redemption).Error(0)
}

// List mocks the List method.
func (m *MockRedemptionRepository) List(ctx context.Context, offset, limit int) ([]*codesDomain.Redemption, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*codesDomain.Redemption), args.Error(1)
}

// MockOutboxEventRepository is a mock implementation of usecase.OutboxEventRepository.
type MockOutboxEventRepository struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockOutboxEventRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	return m.Called(ctx, event).Error(0)
}

// MockCodec is a mock implementation of service.Codec.
type MockCodec struct {
	mock.Mock
}

// Normalize mocks the Normalize method.
func (m *MockCodec) Normalize(kind cryptoDomain.SecretKind, raw string) (string, error) {
	args := m.Called(kind, raw)
	return args.String(0), args.Error(1)
}

// Hash mocks the Hash method.
func (m *MockCodec) Hash(normalized string) string {
	return m.Called(normalized).String(0)
}

// Mask mocks the Mask method.
func (m *MockCodec) Mask(normalized string) string {
	return m.Called(normalized).String(0)
}

// Encrypt mocks the Encrypt method.
func (m *MockCodec) Encrypt(normalized string) (string, error) {
	args := m.Called(normalized)
	return args.String(0), args.Error(1)
}

// Decrypt mocks the Decrypt method.
func (m *MockCodec) Decrypt(payload string) (string, error) {
	args := m.Called(payload)
	return args.String(0), args.Error(1)
}

// MockAllocatorUseCase is a mock implementation of usecase.AllocatorUseCase.
type MockAllocatorUseCase struct {
	mock.Mock
}

// Claim mocks the Claim method.
func (m *MockAllocatorUseCase) Claim(ctx context.Context, planID uuid.UUID, customer string) (*usecase.ClaimResult, error) {
	args := m.Called(ctx, planID, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ClaimResult), args.Error(1)
}

// MockIssuerUseCase is a mock implementation of usecase.IssuerUseCase.
type MockIssuerUseCase struct {
	mock.Mock
}

// Issue mocks the Issue method.
func (m *MockIssuerUseCase) Issue(ctx context.Context, input usecase.IssueInput) (*usecase.IssueResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.IssueResult), args.Error(1)
}

// MockPlanUseCase is a mock implementation of usecase.PlanUseCase.
type MockPlanUseCase struct {
	mock.Mock
}

// Get mocks the Get method.
func (m *MockPlanUseCase) Get(ctx context.Context, planID uuid.UUID) (*codesDomain.Plan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*codesDomain.Plan), args.Error(1)
}

// List mocks the List method.
func (m *MockPlanUseCase) List(ctx context.Context, offset, limit int) ([]*codesDomain.Plan, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*codesDomain.Plan), args.Error(1)
}

// Delete mocks the Delete method.
func (m *MockPlanUseCase) Delete(ctx context.Context, planID uuid.UUID) (int, error) {
	args := m.Called(ctx, planID)
	return args.Int(0), args.Error(1)
}

// Availability mocks the Availability method.
func (m *MockPlanUseCase) Availability(ctx context.Context, planID uuid.UUID) (int, error) {
	args := m.Called(ctx, planID)
	return args.Int(0), args.Error(1)
}

// ListCodes mocks the ListCodes method.
func (m *MockPlanUseCase) ListCodes(
	ctx context.Context,
	planID uuid.UUID,
	offset, limit int,
) ([]*codesDomain.CodeRecord, error) {
	args := m.Called(ctx, planID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*codesDomain.CodeRecord), args.Error(1)
}

// MockLedgerUseCase is a mock implementation of usecase.LedgerUseCase.
type MockLedgerUseCase struct {
	mock.Mock
}

// List mocks the List method.
func (m *MockLedgerUseCase) List(ctx context.Context, offset, limit int) ([]*codesDomain.Redemption, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*codesDomain.Redemption), args.Error(1)
}

// MockFulfillmentUseCase is a mock implementation of usecase.FulfillmentUseCase.
type MockFulfillmentUseCase struct {
	mock.Mock
}

// Fulfill mocks the Fulfill method.
func (m *MockFulfillmentUseCase) Fulfill(
	ctx context.Context,
	planID uuid.UUID,
	customerEmail string,
) (*usecase.FulfillmentResult, error) {
	args := m.Called(ctx, planID, customerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.FulfillmentResult), args.Error(1)
}

// MockMailer is a mock implementation of notification.Mailer.
type MockMailer struct {
	mock.Mock
}

// Send mocks the Send method.
func (m *MockMailer) Send(ctx context.Context, msg notification.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}
