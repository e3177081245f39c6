package repository

import (
	"context"

	"pharmacy-service/internal/domain"
)

// Store is the storage handle services are built on. Reads go through the repositories;
// anything that changes stock or order state goes through Transaction.
type Store interface {
	Products() ProductRepository
	Orders() OrderRepository
	Users() UserRepository

	// Transaction runs fn in a single database transaction. It commits when fn returns nil
	// and rolls back otherwise, returning fn's error unchanged.
	Transaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is only valid inside the Transaction callback that received it.
//
// Finders return (nil, nil) when the row does not exist.
type Tx interface {
	// LockProduct reads the product row and holds a write lock on it until the
	// transaction ends.
	LockProduct(ctx context.Context, id uint64) (*domain.Product, error)
	// AdjustStock applies stock += delta. Callers check that the result stays non-negative.
	AdjustStock(ctx context.Context, productID uint64, delta int) error
	DeleteProduct(ctx context.Context, id uint64) (bool, error)
	CountOrdersForProduct(ctx context.Context, productID uint64) (int64, error)

	InsertOrder(ctx context.Context, o *domain.Order) error
	LockOrder(ctx context.Context, id uint64) (*domain.Order, error)
	UpdateOrderStatusAndQuantity(ctx context.Context, o *domain.Order) error

	// FindUser is the shipping-profile and ownership lookup.
	FindUser(ctx context.Context, userID string) (*domain.User, error)
}
