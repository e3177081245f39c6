package mysql

import (
	"context"
	"errors"

	"pharmacy-service/internal/domain"
	"pharmacy-service/internal/repository"

	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) FindByUserID(ctx context.Context, userID string) (*domain.User, error) {
	return findUser(r.db.WithContext(ctx), userID)
}

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findUser(tx, u.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrUserExists
		}
		if err := tx.Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domain.ErrUserExists
			}
			return err
		}
		return nil
	})
}

func findUser(db *gorm.DB, userID string) (*domain.User, error) {
	var u domain.User
	if err := db.Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
