package repository

import (
	"context"

	"pharmacy-service/internal/domain"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindViewByID(ctx context.Context, id uint64) (*domain.OrderView, error)
	ListByUser(ctx context.Context, userID string, activeOnly bool) ([]domain.OrderView, error)
	ListAll(ctx context.Context) ([]domain.OrderView, error)
}
