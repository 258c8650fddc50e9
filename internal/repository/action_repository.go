package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/verdeo/ecohabit/internal/model"
	"gorm.io/gorm"
)

// Totals is a count/points/carbon rollup over a set of actions.
type Totals struct {
	Count       int64   `json:"count"`
	Points      float64 `json:"points"`
	CarbonSaved float64 `json:"carbon_saved"`
}

// TypeTotal is a per-action-type rollup.
type TypeTotal struct {
	Type        string  `json:"type"`
	Count       int64   `json:"count"`
	Points      float64 `json:"points"`
	CarbonSaved float64 `json:"carbon_saved"`
}

// DayTotal is a per-calendar-day rollup, Day formatted YYYY-MM-DD.
type DayTotal struct {
	Day         string  `json:"day"`
	Count       int64   `json:"count"`
	Points      float64 `json:"points"`
	CarbonSaved float64 `json:"carbon_saved"`
}

// MonthTotal is a per-month rollup within one year, Month 1-12.
type MonthTotal struct {
	Month       int     `json:"month"`
	Count       int64   `json:"count"`
	Points      float64 `json:"points"`
	CarbonSaved float64 `json:"carbon_saved"`
}

type ActionRepository interface {
	WithTx(tx *gorm.DB) ActionRepository

	CreateBatch(ctx context.Context, actions []*model.Action) error
	Save(ctx context.Context, action *model.Action) error

	// TypesLoggedSince returns which of the given types the user already has
	// records for since the cutoff (duplicate filtering).
	TypesLoggedSince(ctx context.Context, userID uuid.UUID, since time.Time, types []string) ([]string, error)
	CountByUserAndType(ctx context.Context, userID uuid.UUID, actionType string) (int64, error)

	FindByUser(ctx context.Context, userID uuid.UUID, from, to *time.Time, limit, offset int) ([]model.Action, int64, error)
	// FindByUserBetween returns the user's actions with from <= date < to.
	FindByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Action, error)
	FindReflection(ctx context.Context, userID uuid.UUID, from, to time.Time) (*model.Action, error)

	TotalsByUser(ctx context.Context, userID uuid.UUID) (Totals, error)
	TypeTotalsByUser(ctx context.Context, userID uuid.UUID) ([]TypeTotal, error)
	DailyTotalsByUser(ctx context.Context, userID uuid.UUID, since time.Time) ([]DayTotal, error)
	MonthlyTotalsByUser(ctx context.Context, userID uuid.UUID, year int) ([]MonthTotal, error)
	DayGroupsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]DayTotal, int64, error)

	CommunityTotals(ctx context.Context) (Totals, error)
	CommunityTypeTotals(ctx context.Context) ([]TypeTotal, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
}

type actionRepository struct {
	db *gorm.DB
}

func NewActionRepository(db *gorm.DB) ActionRepository {
	return &actionRepository{db: db}
}

func (r *actionRepository) WithTx(tx *gorm.DB) ActionRepository {
	return &actionRepository{db: tx}
}

func (r *actionRepository) CreateBatch(ctx context.Context, actions []*model.Action) error {
	return r.db.WithContext(ctx).Create(actions).Error
}

func (r *actionRepository) Save(ctx context.Context, action *model.Action) error {
	return r.db.WithContext(ctx).Save(action).Error
}

func (r *actionRepository) TypesLoggedSince(ctx context.Context, userID uuid.UUID, since time.Time, types []string) ([]string, error) {
	var logged []string
	err := r.db.WithContext(ctx).Model(&model.Action{}).
		Distinct("type").
		Where("user_id = ? AND type IN ? AND date >= ?", userID, types, since).
		Pluck("type", &logged).Error
	return logged, err
}

func (r *actionRepository) CountByUserAndType(ctx context.Context, userID uuid.UUID, actionType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Action{}).
		Where("user_id = ? AND type = ?", userID, actionType).
		Count(&count).Error
	return count, err
}

func (r *actionRepository) FindByUser(ctx context.Context, userID uuid.UUID, from, to *time.Time, limit, offset int) ([]model.Action, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Action{}).Where("user_id = ?", userID)
	if from != nil && to != nil {
		query = query.Where("date >= ? AND date <= ?", *from, *to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var actions []model.Action
	err := query.Order("date DESC").Limit(limit).Offset(offset).Find(&actions).Error
	return actions, total, err
}

func (r *actionRepository) FindByUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Action, error) {
	var actions []model.Action
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC").
		Find(&actions).Error
	return actions, err
}

func (r *actionRepository) FindReflection(ctx context.Context, userID uuid.UUID, from, to time.Time) (*model.Action, error) {
	var action model.Action
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, "Reflection", from, to).
		First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &action, nil
}

func (r *actionRepository) TotalsByUser(ctx context.Context, userID uuid.UUID) (Totals, error) {
	var totals Totals
	err := r.db.WithContext(ctx).Model(&model.Action{}).
		Select("COUNT(*) as count, COALESCE(SUM(points),0) as points, COALESCE(SUM(carbon_saved),0) as carbon_saved").
		Where("user_id = ?", userID).
		Scan(&totals).Error
	return totals, err
}

func (r *actionRepository) TypeTotalsByUser(ctx context.Context, userID uuid.UUID) ([]TypeTotal, error) {
	var totals []TypeTotal
	err := r.db.WithContext(ctx).Model(&model.Action{}).
		Select("type, COUNT(*) as count, COALESCE(SUM(points),0) as points, COALESCE(SUM(carbon_saved),0) as carbon_saved").
		Where("user_id = ?", userID).
		Group("type").
		Order("count DESC").
		Scan(&totals).Error
	return totals, err
}

func (r *actionRepository) DailyTotalsByUser(ctx context.Context, userID uuid.UUID, since time.Time) ([]DayTotal, error) {
	var totals []DayTotal
	err := r.db.WithContext(ctx).Model(&model.Action{}).
		Select("to_char(date, 'YYYY-MM-DD') as day, COUNT(*) as count, COALESCE(SUM(points),0) as points, COALESCE(SUM(carbon_saved),0) as carbon_saved").
		Where("user_id = ? AND date >= ?", userID, since).
		Group("day").
		Order("day ASC").
		Scan(&totals).Error
	return totals, err
}

func (r *actionRepository) MonthlyTotalsByUser(ctx context.Context, userID uuid.UUID, year int) ([]MonthTotal, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(1, 0, 0)

	var totals []MonthTotal
	err := r.db.WithContext(ctx).Model(&model.Action{}).
		Select("EXTRACT(MONTH FROM date)::int as month, COUNT(*) as count, COALESCE(SUM(points),0) as points, COALESCE(SUM(carbon_saved),0) as carbon_saved").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Group("month").
		Order("month ASC").
		Scan(&totals).Error
	return totals, err
}

func (r *actionRepository) DayGroupsByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]DayTotal, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Action{}).
		Where("user_id = ?", userID).
		Distinct("to_char(date, 'YYYY-MM-DD')").
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var groups []DayTotal
	err = r.db.WithContext(ctx).Model(&model.Action{}).
		Select("to_char(date, 'YYYY-MM-DD') as day, COUNT(*) as count, COALESCE(SUM(points),0) as points, COALESCE(SUM(carbon_saved),0) as carbon_saved").
		Where("user_id = ?", userID).
		Group("day").
		Order("day DESC").
		Limit(limit).
		Offset(offset).
		Scan(&groups).Error
	return groups, total, err
}

func (r *actionRepository) CommunityTotals(ctx context.Context) (Totals, error) {
	var totals Totals
	err := r.db.WithContext(ctx).Model(&model.Action{}).
		Select("COUNT(*) as count, COALESCE(SUM(points),0) as points, COALESCE(SUM(carbon_saved),0) as carbon_saved").
		Scan(&totals).Error
	return totals, err
}

func (r *actionRepository) CommunityTypeTotals(ctx context.Context) ([]TypeTotal, error) {
	var totals []TypeTotal
	err := r.db.WithContext(ctx).Model(&model.Action{}).
		Select("type, COUNT(*) as count, COALESCE(SUM(points),0) as points, COALESCE(SUM(carbon_saved),0) as carbon_saved").
		Group("type").
		Order("count DESC").
		Scan(&totals).Error
	return totals, err
}

func (r *actionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Action{}).
		Where("date >= ?", since).
		Count(&count).Error
	return count, err
}
