package repository

import (
	"context"

	"github.com/verdeo/ecohabit/internal/model"
	"gorm.io/gorm"
)

type BadgeRepository interface {
	FindAll(ctx context.Context) ([]model.Badge, error)
	ExistsByBadgeID(ctx context.Context, badgeID string) (bool, error)
	Create(ctx context.Context, badge *model.Badge) error
}

type badgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) FindAll(ctx context.Context) ([]model.Badge, error) {
	var badges []model.Badge
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&badges).Error
	return badges, err
}

func (r *badgeRepository) ExistsByBadgeID(ctx context.Context, badgeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Badge{}).
		Where("badge_id = ?", badgeID).
		Count(&count).Error
	return count > 0, err
}

func (r *badgeRepository) Create(ctx context.Context, badge *model.Badge) error {
	return r.db.WithContext(ctx).Create(badge).Error
}
