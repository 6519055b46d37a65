package service

import (
	"context"
	"time"

	"tenera-store/internal/model"
	"tenera-store/internal/payment"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockDiscountRepository is a mock implementation of repository.DiscountRepository.
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DiscountCode), args.Error(1)
}

func (m *MockDiscountRepository) List(ctx context.Context) ([]model.DiscountCode, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DiscountCode), args.Error(1)
}

func (m *MockDiscountRepository) Create(ctx context.Context, dc *model.DiscountCode) error {
	return m.Called(ctx, dc).Error(0)
}

func (m *MockDiscountRepository) Update(ctx context.Context, dc *model.DiscountCode) error {
	return m.Called(ctx, dc).Error(0)
}

func (m *MockDiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDiscountRepository) IncrementUsage(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

// MockBumpRepository is a mock implementation of repository.BumpRepository.
type MockBumpRepository struct {
	mock.Mock
}

func (m *MockBumpRepository) ListActive(ctx context.Context) ([]model.OrderBump, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderBump), args.Error(1)
}

func (m *MockBumpRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrderBump, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderBump), args.Error(1)
}

func (m *MockBumpRepository) List(ctx context.Context) ([]model.OrderBump, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderBump), args.Error(1)
}

func (m *MockBumpRepository) Create(ctx context.Context, bump *model.OrderBump) error {
	return m.Called(ctx, bump).Error(0)
}

func (m *MockBumpRepository) Update(ctx context.Context, bump *model.OrderBump) error {
	return m.Called(ctx, bump).Error(0)
}

func (m *MockBumpRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBumpRepository) ListUpsells(ctx context.Context, activeOnly bool) ([]model.UpsellProduct, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UpsellProduct), args.Error(1)
}

func (m *MockBumpRepository) CreateUpsell(ctx context.Context, up *model.UpsellProduct) error {
	return m.Called(ctx, up).Error(0)
}

func (m *MockBumpRepository) UpdateUpsell(ctx context.Context, up *model.UpsellProduct) error {
	return m.Called(ctx, up).Error(0)
}

func (m *MockBumpRepository) DeleteUpsell(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockOrderRepository is a mock implementation of repository.OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *model.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByReference(ctx context.Context, reference string) (*model.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, status string, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockOrderRepository) SetInvoiceKey(ctx context.Context, id uuid.UUID, key string) error {
	return m.Called(ctx, id, key).Error(0)
}

// MockEmailRepository is a mock implementation of repository.EmailRepository.
type MockEmailRepository struct {
	mock.Mock
}

func (m *MockEmailRepository) Enqueue(ctx context.Context, email *model.ScheduledEmail) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockEmailRepository) ClaimDue(ctx context.Context, limit int, now time.Time) ([]model.ScheduledEmail, error) {
	args := m.Called(ctx, limit, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ScheduledEmail), args.Error(1)
}

func (m *MockEmailRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockEmailRepository) MarkFailed(ctx context.Context, id uuid.UUID, sendErr string) error {
	return m.Called(ctx, id, sendErr).Error(0)
}

// MockTagRepository is a mock implementation of repository.TagRepository.
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) List(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return m.Called(ctx, tag).Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTagRepository) Assign(ctx context.Context, tagID uuid.UUID, customerEmail string) (bool, error) {
	args := m.Called(ctx, tagID, customerEmail)
	return args.Bool(0), args.Error(1)
}

func (m *MockTagRepository) Unassign(ctx context.Context, tagID uuid.UUID, customerEmail string) error {
	return m.Called(ctx, tagID, customerEmail).Error(0)
}

func (m *MockTagRepository) ListAutomations(ctx context.Context) ([]model.Automation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Automation), args.Error(1)
}

func (m *MockTagRepository) ActiveAutomationsForTag(ctx context.Context, tagID uuid.UUID) ([]model.Automation, error) {
	args := m.Called(ctx, tagID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Automation), args.Error(1)
}

func (m *MockTagRepository) CreateAutomation(ctx context.Context, a *model.Automation) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockTagRepository) DeleteAutomation(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockGateway is a mock implementation of PaymentGateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) InitializeTransaction(ctx context.Context, req payment.InitializeRequest) (*payment.Authorization, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Authorization), args.Error(1)
}

func (m *MockGateway) VerifyTransaction(ctx context.Context, reference string) (*payment.Transaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Transaction), args.Error(1)
}
