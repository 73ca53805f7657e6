package repository

import (
	"context"
	"errors"
	"fmt"

	"multizone/internal/model"

	"gorm.io/gorm"
)

// FlagInterface defines the persistence contract for feature flags. All
// lookups and mutations address flags by their natural key.
type FlagInterface interface {
	Create(ctx context.Context, flag *model.FeatureFlag) error
	List(ctx context.Context) ([]model.FeatureFlag, error)
	GetByKey(ctx context.Context, key string) (*model.FeatureFlag, error)
	UpdateByKey(ctx context.Context, key string, updates map[string]any) (*model.FeatureFlag, error)
	DeleteByKey(ctx context.Context, key string) error
}

// FlagRepository implements FlagInterface on a gorm connection.
type FlagRepository struct {
	db *gorm.DB
}

func NewFlagRepository(db *gorm.DB) *FlagRepository {
	return &FlagRepository{db: db}
}

func (r *FlagRepository) Create(ctx context.Context, flag *model.FeatureFlag) error {
	if flag.Key == "" || flag.Name == "" {
		return fmt.Errorf("%w: key and name are required", ErrInvalid)
	}
	if err := r.db.WithContext(ctx).Create(flag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: key %s", ErrDuplicate, flag.Key)
		}
		return err
	}
	return nil
}

func (r *FlagRepository) List(ctx context.Context) ([]model.FeatureFlag, error) {
	var flags []model.FeatureFlag
	err := r.db.WithContext(ctx).Find(&flags).Error
	return flags, err
}

func (r *FlagRepository) GetByKey(ctx context.Context, key string) (*model.FeatureFlag, error) {
	var flag model.FeatureFlag
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&flag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &flag, nil
}

// UpdateByKey applies the supplied column map to an existing flag and returns
// the reloaded row. Unspecified columns keep their prior values.
func (r *FlagRepository) UpdateByKey(ctx context.Context, key string, updates map[string]any) (*model.FeatureFlag, error) {
	flag, err := r.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).Model(flag).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByKey(ctx, key)
}

func (r *FlagRepository) DeleteByKey(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("key = ?", key).Delete(&model.FeatureFlag{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
