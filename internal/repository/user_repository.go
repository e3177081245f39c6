package repository

import (
	"context"

	"pharmacy-service/internal/domain"
)

type UserRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
}
