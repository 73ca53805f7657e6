package repository

import (
	"context"
	"errors"
	"fmt"

	"multizone/internal/model"

	"gorm.io/gorm"
)

// UserInterface defines the persistence contract for user rows.
type UserInterface interface {
	Create(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	DeleteByID(ctx context.Context, id uint) error
}

// UserRepository implements UserInterface on a gorm connection.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. Required fields are validated before the
// statement runs; a unique-index violation surfaces as ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.Email == "" || user.Name == "" {
		return fmt.Errorf("%w: email and name are required", ErrInvalid)
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: email %s", ErrDuplicate, user.Email)
		}
		return err
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// DeleteByID removes the user row. Zero rows affected means the ID was absent.
func (r *UserRepository) DeleteByID(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
