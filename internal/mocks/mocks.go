package mocks

import (
	"context"
	"time"

	"pharmacy-service/internal/domain"
	"pharmacy-service/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockStore runs the Transaction callback against Tx. The error configured for
// Transaction stands for the commit result and is only returned when the callback succeeds.
type MockStore struct {
	mock.Mock
	ProductRepo *MockProductRepository
	OrderRepo   *MockOrderRepository
	UserRepo    *MockUserRepository
	Tx          *MockTx
}

func NewMockStore() *MockStore {
	return &MockStore{
		ProductRepo: new(MockProductRepository),
		OrderRepo:   new(MockOrderRepository),
		UserRepo:    new(MockUserRepository),
		Tx:          new(MockTx),
	}
}

func (m *MockStore) Products() repository.ProductRepository { return m.ProductRepo }
func (m *MockStore) Orders() repository.OrderRepository     { return m.OrderRepo }
func (m *MockStore) Users() repository.UserRepository       { return m.UserRepo }

func (m *MockStore) Transaction(ctx context.Context, fn func(tx repository.Tx) error) error {
	args := m.Called(ctx)
	if err := fn(m.Tx); err != nil {
		return err
	}
	return args.Error(0)
}

func (m *MockStore) AssertAll(t mock.TestingT) {
	m.AssertExpectations(t)
	m.ProductRepo.AssertExpectations(t)
	m.OrderRepo.AssertExpectations(t)
	m.UserRepo.AssertExpectations(t)
	m.Tx.AssertExpectations(t)
}

type MockTx struct {
	mock.Mock
}

func (m *MockTx) LockProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockTx) AdjustStock(ctx context.Context, productID uint64, delta int) error {
	args := m.Called(ctx, productID, delta)
	return args.Error(0)
}

func (m *MockTx) DeleteProduct(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockTx) CountOrdersForProduct(ctx context.Context, productID uint64) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockTx) LockOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockTx) UpdateOrderStatusAndQuantity(ctx context.Context, o *domain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockTx) FindUser(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindViewByID(ctx context.Context, id uint64) (*domain.OrderView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderView), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]domain.OrderView, error) {
	args := m.Called(ctx, userID, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderView), args.Error(1)
}

func (m *MockOrderRepository) ListAll(ctx context.Context) ([]domain.OrderView, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderView), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIdentity(ctx context.Context, name, category, subcategory string) (*domain.Product, error) {
	args := m.Called(ctx, name, category, subcategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) Subcategories(ctx context.Context, category string) ([]string, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByUserID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

type MockRevoker struct {
	mock.Mock
}

func (m *MockRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
