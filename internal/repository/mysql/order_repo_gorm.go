package mysql

import (
	"context"
	"errors"
	"log"

	"pharmacy-service/internal/domain"
	"pharmacy-service/internal/repository"

	"gorm.io/gorm"
)

const orderViewColumns = "o.id, u.user_id, o.product_id, p.name AS product_name, o.quantity, o.status, " +
	"o.shipping_city, o.shipping_state, o.shipping_pincode, o.requested_date"

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("FindByID error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) FindViewByID(ctx context.Context, id uint64) (*domain.OrderView, error) {
	var out []domain.OrderView
	if err := r.views(ctx).Where("o.id = ?", id).Limit(1).Scan(&out).Error; err != nil {
		log.Printf("FindViewByID error: %v", err)
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return &out[0], nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID string, activeOnly bool) ([]domain.OrderView, error) {
	q := r.views(ctx).Where("u.user_id = ?", userID)
	if activeOnly {
		q = q.Where("o.status <> ?", domain.StatusCancelled)
	}

	var out []domain.OrderView
	if err := q.Order("o.requested_date DESC, o.id DESC").Scan(&out).Error; err != nil {
		log.Printf("ListByUser error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) ListAll(ctx context.Context) ([]domain.OrderView, error) {
	var out []domain.OrderView
	if err := r.views(ctx).Order("o.requested_date DESC, o.id DESC").Scan(&out).Error; err != nil {
		log.Printf("ListAll error: %v", err)
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("orders AS o").
		Select(orderViewColumns).
		Joins("JOIN products p ON p.id = o.product_id").
		Joins("JOIN users u ON u.id = o.user_id")
}
