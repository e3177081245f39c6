package repository

import (
	"context"

	"pharmacy-service/internal/domain"
)

type ProductFilter struct {
	Category      string
	Subcategory   string
	AvailableOnly bool
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Product, error)
	FindByIdentity(ctx context.Context, name, category, subcategory string) (*domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Subcategories(ctx context.Context, category string) ([]string, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
}
