package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/verdeo/ecohabit/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	// WithTx returns a repository bound to tx so accrual writes can share a
	// transaction with the action insert.
	WithTx(tx *gorm.DB) UserRepository

	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)

	AddPoints(ctx context.Context, id uuid.UUID, points float64) error
	UpdateStreak(ctx context.Context, id uuid.UUID, current, longest int, lastActionDate time.Time) error
	AppendBadges(ctx context.Context, user *model.User, badges []model.Badge) error

	Count(ctx context.Context) (int64, error)
	TopByPoints(ctx context.Context, limit int) ([]model.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Badges").First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error
	return count > 0, err
}

// AddPoints uses a store-side increment so concurrent transactions never lose
// a points update.
func (r *userRepository) AddPoints(ctx context.Context, id uuid.UUID, points float64) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("total_points", gorm.Expr("total_points + ?", points)).Error
}

func (r *userRepository) UpdateStreak(ctx context.Context, id uuid.UUID, current, longest int, lastActionDate time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_streak":   current,
			"longest_streak":   longest,
			"last_action_date": lastActionDate,
		}).Error
}

func (r *userRepository) AppendBadges(ctx context.Context, user *model.User, badges []model.Badge) error {
	return r.db.WithContext(ctx).Model(user).Association("Badges").Append(badges)
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Count(&count).Error
	return count, err
}

// TopByPoints orders by points descending with username ascending as the
// deterministic tie-break.
func (r *userRepository) TopByPoints(ctx context.Context, limit int) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Order("total_points DESC, username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
