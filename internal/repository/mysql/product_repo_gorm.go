package mysql

import (
	"context"
	"errors"
	"log"

	"pharmacy-service/internal/domain"
	"pharmacy-service/internal/repository"

	"gorm.io/gorm"
)

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) FindByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByIdentity(ctx context.Context, name, category, subcategory string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).
		Where("name = ? AND category = ? AND subcategory = ?", name, category, subcategory).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Distinct("category").
		Order("category").
		Pluck("category", &out).Error
	return out, err
}

func (r *productRepo) Subcategories(ctx context.Context, category string) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("category = ?", category).
		Distinct("subcategory").
		Order("subcategory").
		Pluck("subcategory", &out).Error
	return out, err
}

func (r *productRepo) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Subcategory != "" {
		q = q.Where("subcategory = ?", filter.Subcategory)
	}
	if filter.AvailableOnly {
		q = q.Where("stock > 0")
	}

	var out []domain.Product
	if err := q.Order("id").Find(&out).Error; err != nil {
		log.Printf("List products error: %v", err)
		return nil, err
	}
	return out, nil
}

// Create inserts p unless a product with the same name, category and subcategory exists.
func (r *productRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&domain.Product{}).
			Where("name = ? AND category = ? AND subcategory = ?", p.Name, p.Category, p.Subcategory).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrProductExists
		}

		if err := tx.Create(p).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrProductExists
			}
			log.Printf("Create product error: %v", err)
			return err
		}
		if p.ID == 0 {
			return errors.New("failed to assign product ID")
		}
		return nil
	})
}
