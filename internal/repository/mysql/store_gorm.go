package mysql

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pharmacy-service/internal/domain"
	"pharmacy-service/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type store struct {
	db       *gorm.DB
	products repository.ProductRepository
	orders   repository.OrderRepository
	users    repository.UserRepository
}

func NewStore(db *gorm.DB) repository.Store {
	return &store{
		db:       db,
		products: NewProductRepository(db),
		orders:   NewOrderRepository(db),
		users:    NewUserRepository(db),
	}
}

func (s *store) Products() repository.ProductRepository { return s.products }
func (s *store) Orders() repository.OrderRepository     { return s.orders }
func (s *store) Users() repository.UserRepository       { return s.users }

func (s *store) Transaction(ctx context.Context, fn func(tx repository.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&txStore{db: db})
	})
}

type txStore struct {
	db *gorm.DB
}

// forUpdate adds a row lock. SQLite has no row locks; it serializes writers on the
// whole database instead.
func (t *txStore) forUpdate(ctx context.Context) *gorm.DB {
	db := t.db.WithContext(ctx)
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (t *txStore) LockProduct(ctx context.Context, id uint64) (*domain.Product, error) {
	var p domain.Product
	if err := t.forUpdate(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("LockProduct error: %v", err)
		return nil, err
	}
	return &p, nil
}

func (t *txStore) AdjustStock(ctx context.Context, productID uint64, delta int) error {
	if delta == 0 {
		return nil
	}
	result := t.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if result.Error != nil {
		log.Printf("AdjustStock error: %v", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("adjust stock of product %d: %w", productID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (t *txStore) DeleteProduct(ctx context.Context, id uint64) (bool, error) {
	result := t.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (t *txStore) CountOrdersForProduct(ctx context.Context, productID uint64) (int64, error) {
	var n int64
	err := t.db.WithContext(ctx).Model(&domain.Order{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}

func (t *txStore) InsertOrder(ctx context.Context, o *domain.Order) error {
	if err := t.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error; err != nil {
		log.Printf("InsertOrder error: %v", err)
		return err
	}
	if o.ID == 0 {
		return errors.New("failed to assign order ID")
	}
	return nil
}

func (t *txStore) LockOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	var o domain.Order
	if err := t.forUpdate(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("LockOrder error: %v", err)
		return nil, err
	}
	return &o, nil
}

func (t *txStore) UpdateOrderStatusAndQuantity(ctx context.Context, o *domain.Order) error {
	err := t.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{"quantity": o.Quantity, "status": o.Status}).Error
	if err != nil {
		log.Printf("UpdateOrderStatusAndQuantity error: %v", err)
	}
	return err
}

func (t *txStore) FindUser(ctx context.Context, userID string) (*domain.User, error) {
	return findUser(t.db.WithContext(ctx), userID)
}
